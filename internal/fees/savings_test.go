package fees_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2p_estate/internal/domain"
	"p2p_estate/internal/fees"
)

func TestSavings_SingleActive(t *testing.T) {
	cat := fees.DefaultCatalog()
	s, err := cat.Savings([]domain.Property{{ID: 1, Price: 3_000_000, Status: domain.StatusActive}}, nil)
	require.NoError(t, err)
	assert.True(t, s.Applicable)
	assert.Equal(t, 1, s.PropertyCount)
	decEq(t, "140000", s.TotalStandardFee)
	decEq(t, "15000", s.TotalPlatformFee)
	decEq(t, "0", s.TotalAddOnCost)
	decEq(t, "125000", s.NetWithoutAddOns)
	decEq(t, "125000", s.NetWithAddOns)
}

func TestSavings_AddOnsChargedPerListing(t *testing.T) {
	cat := fees.DefaultCatalog()
	props := []domain.Property{
		{ID: 1, Price: 1_000_000, Status: domain.StatusActive},
		{ID: 2, Price: 3_000_000, Status: domain.StatusActive},
		{ID: 3, Price: 5_000_000, Status: domain.StatusSold},
		{ID: 4, Price: 9_000_000, Status: domain.StatusDraft},
		{ID: 5, Price: 9_000_000, Status: domain.StatusNegotiating},
	}
	s, err := cat.Savings(props, []string{fees.AddOnProfessionalPhoto, fees.AddOnAdListing, fees.AddOnProfessionalPhoto})
	require.NoError(t, err)
	assert.Equal(t, 3, s.PropertyCount)
	assert.Equal(t, []string{fees.AddOnAdListing, fees.AddOnProfessionalPhoto}, s.AddOns)
	// (30,000 flat + 10,000 x 3 months) per listing, three listings.
	decEq(t, "180000", s.TotalAddOnCost)
	decEq(t, "400000", s.TotalStandardFee) // 50,000 + 140,000 + 210,000
	decEq(t, "45000", s.TotalPlatformFee)
	decEq(t, "355000", s.NetWithoutAddOns)
	decEq(t, "175000", s.NetWithAddOns)
}

func TestSavings_NoApplicableProperties(t *testing.T) {
	cat := fees.DefaultCatalog()
	for _, props := range [][]domain.Property{
		nil,
		{{ID: 1, Price: 1_000_000, Status: domain.StatusDraft}, {ID: 2, Price: -1, Status: domain.StatusNegotiating}},
	} {
		s, err := cat.Savings(props, []string{fees.AddOnViewingAssistance})
		require.NoError(t, err)
		assert.False(t, s.Applicable)
		assert.Equal(t, 0, s.PropertyCount)
		decEq(t, "0", s.TotalStandardFee)
		decEq(t, "0", s.TotalPlatformFee)
		decEq(t, "0", s.TotalAddOnCost)
		decEq(t, "0", s.NetWithoutAddOns)
		decEq(t, "0", s.NetWithAddOns)
	}
}

func TestSavings_UnknownAddOn(t *testing.T) {
	_, err := fees.DefaultCatalog().Savings(nil, []string{"helicopter_tour"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSavings_PermutationInvariant(t *testing.T) {
	cat := fees.DefaultCatalog()
	statuses := []domain.Status{domain.StatusActive, domain.StatusSold, domain.StatusDraft, domain.StatusNegotiating}
	rng := rand.New(rand.NewSource(42))
	props := make([]domain.Property, 40)
	for i := range props {
		props[i] = domain.Property{
			ID:     int64(i + 1),
			Price:  rng.Int63n(20_000_000),
			Status: statuses[rng.Intn(len(statuses))],
		}
	}
	addOns := []string{fees.AddOnViewingAssistance, fees.AddOnProfessionalPhoto}
	base, err := cat.Savings(props, addOns)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		shuffled := append([]domain.Property(nil), props...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		reversed := []string{addOns[1], addOns[0]}

		got, err := cat.Savings(shuffled, reversed)
		require.NoError(t, err)
		assert.Equal(t, base.PropertyCount, got.PropertyCount)
		assert.Equal(t, base.AddOns, got.AddOns)
		assert.True(t, base.TotalStandardFee.Equal(got.TotalStandardFee))
		assert.True(t, base.TotalPlatformFee.Equal(got.TotalPlatformFee))
		assert.True(t, base.TotalAddOnCost.Equal(got.TotalAddOnCost))
		assert.True(t, base.NetWithAddOns.Equal(got.NetWithAddOns))
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	_, err := fees.NewCatalog(fees.AddOn{Key: "x", UnitCost: -1})
	assert.True(t, domain.IsValidation(err))

	_, err = fees.NewCatalog(fees.AddOn{Key: "x"}, fees.AddOn{Key: "x"})
	assert.True(t, domain.IsValidation(err))

	c, err := fees.NewCatalog(fees.AddOn{Key: "staging", UnitCost: 2_000, Months: 2})
	require.NoError(t, err)
	a, ok := c.Lookup("staging")
	require.True(t, ok)
	decEq(t, "4000", a.PerProperty())
	assert.Len(t, c.AddOns(), 1)
}

func TestSavings_LargeAddOnCostsDoNotWrap(t *testing.T) {
	// 2^62 yen for 4 months overflows int64; the total must stay exact
	c, err := fees.NewCatalog(fees.AddOn{Key: "billboard", UnitCost: 1 << 62, Months: 4})
	require.NoError(t, err)
	a, _ := c.Lookup("billboard")
	decEq(t, "18446744073709551616", a.PerProperty())

	props := []domain.Property{
		{ID: 1, Price: 3_000_000, Status: domain.StatusActive},
		{ID: 2, Price: 3_000_000, Status: domain.StatusSold},
	}
	s, err := c.Savings(props, []string{"billboard"})
	require.NoError(t, err)
	decEq(t, "36893488147419103232", s.TotalAddOnCost)
	assert.True(t, s.NetWithAddOns.IsNegative())
}
