package fees

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"p2p_estate/internal/domain"
)

// Add-on keys of the default catalog.
const (
	AddOnProfessionalPhoto = "professional_photo"
	AddOnAdListing         = "ad_listing"
	AddOnViewingAssistance = "viewing_assistance"
)

// AddOn is an optional paid service billed per listing. Months == 0 is a flat fee.
type AddOn struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	UnitCost int64  `json:"unit_cost"`
	Months   int    `json:"months,omitempty"`
}

// PerProperty is the cost of the add-on for one listing.
func (a AddOn) PerProperty() decimal.Decimal {
	cost := decimal.NewFromInt(a.UnitCost)
	if a.Months == 0 {
		return cost
	}
	return cost.Mul(decimal.NewFromInt(int64(a.Months)))
}

type Catalog struct {
	byKey map[string]AddOn
	keys  []string
}

func NewCatalog(addOns ...AddOn) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]AddOn, len(addOns))}
	for _, a := range addOns {
		switch {
		case a.Key == "":
			return nil, &domain.ValidationError{Field: "add_on", Reason: "empty key"}
		case a.UnitCost < 0 || a.Months < 0:
			return nil, &domain.ValidationError{Field: "add_on", Reason: a.Key + ": negative cost or duration"}
		}
		if _, dup := c.byKey[a.Key]; dup {
			return nil, &domain.ValidationError{Field: "add_on", Reason: a.Key + ": duplicate key"}
		}
		c.byKey[a.Key] = a
		c.keys = append(c.keys, a.Key)
	}
	return c, nil
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		AddOn{Key: AddOnProfessionalPhoto, Name: "Professional photography", UnitCost: 30_000},
		AddOn{Key: AddOnAdListing, Name: "Featured ad listing", UnitCost: 10_000, Months: 3},
		AddOn{Key: AddOnViewingAssistance, Name: "Viewing assistance", UnitCost: 5_000, Months: 3},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// AddOns returns the catalog in declaration order.
func (c *Catalog) AddOns() []AddOn {
	out := make([]AddOn, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.byKey[k])
	}
	return out
}

func (c *Catalog) Lookup(key string) (AddOn, bool) {
	a, ok := c.byKey[key]
	return a, ok
}

// Savings is the platform-vs-broker comparison over a seller's listings.
// Applicable is false when no listing is ACTIVE or SOLD.
type Savings struct {
	Applicable       bool            `json:"applicable"`
	PropertyCount    int             `json:"property_count"`
	AddOns           []string        `json:"add_ons"`
	TotalStandardFee decimal.Decimal `json:"total_standard_fee"`
	TotalPlatformFee decimal.Decimal `json:"total_platform_fee"`
	TotalAddOnCost   decimal.Decimal `json:"total_add_on_cost"`
	NetWithoutAddOns decimal.Decimal `json:"net_savings_without_add_ons"`
	NetWithAddOns    decimal.Decimal `json:"net_savings_with_add_ons"`
}

// SavingsStatuses are the listing states a fee is actually charged on.
var SavingsStatuses = []domain.Status{domain.StatusActive, domain.StatusSold}

// Savings compares standard and platform fees over the ACTIVE and SOLD
// listings, charging each selected add-on once per listing.
func (c *Catalog) Savings(props []domain.Property, selected []string) (Savings, error) {
	keys, err := c.normalize(selected)
	if err != nil {
		return Savings{}, err
	}
	sum, err := Aggregate(props, SavingsStatuses...)
	if err != nil {
		return Savings{}, err
	}
	out := Savings{
		Applicable:       sum.Count > 0,
		PropertyCount:    sum.Count,
		AddOns:           keys,
		TotalStandardFee: sum.TotalStandardFee,
		TotalPlatformFee: sum.TotalPlatformFee,
		TotalAddOnCost:   decimal.Zero,
	}
	perProperty := decimal.Zero
	for _, k := range keys {
		perProperty = perProperty.Add(c.byKey[k].PerProperty())
	}
	out.TotalAddOnCost = perProperty.Mul(decimal.NewFromInt(int64(sum.Count)))
	out.NetWithoutAddOns = out.TotalStandardFee.Sub(out.TotalPlatformFee)
	out.NetWithAddOns = out.TotalStandardFee.Sub(out.TotalPlatformFee.Add(out.TotalAddOnCost))
	return out, nil
}

// normalize validates keys, drops duplicates and sorts them.
func (c *Catalog) normalize(selected []string) ([]string, error) {
	seen := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	for _, raw := range selected {
		k := strings.TrimSpace(raw)
		if k == "" {
			continue
		}
		if _, ok := c.byKey[k]; !ok {
			return nil, &domain.ValidationError{Field: "add_ons", Reason: fmt.Sprintf("unknown add-on %q", k)}
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
