// Package fees computes brokerage fees and the savings a seller gets by
// listing on the platform instead of through a conventional broker.
//
// All amounts are in yen. The conventional fee tiers are usually quoted in
// 10,000-yen units (200 / 400); they are stored here already converted.
package fees

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"p2p_estate/internal/domain"
)

const (
	Tier1Limit int64 = 2_000_000
	Tier2Limit int64 = 4_000_000

	// maxPrice keeps float input inside the exactly representable integer range.
	maxPrice = 1 << 53
)

var (
	tier1Rate    = decimal.RequireFromString("0.05")
	tier2Rate    = decimal.RequireFromString("0.04")
	tier2Base    = decimal.NewFromInt(20_000)
	tier3Rate    = decimal.RequireFromString("0.03")
	tier3Base    = decimal.NewFromInt(60_000)
	platformRate = decimal.RequireFromString("0.005")
)

// Breakdown is the fee pair for one price.
type Breakdown struct {
	PropertyID  int64           `json:"property_id,omitempty"`
	Price       int64           `json:"price"`
	StandardFee decimal.Decimal `json:"standard_fee"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
}

// Savings is what the seller keeps compared with a conventional broker.
func (b Breakdown) Savings() decimal.Decimal { return b.StandardFee.Sub(b.PlatformFee) }

// Calculate returns the standard and platform fee for price. Negative prices
// are rejected, never clamped.
func Calculate(price int64) (Breakdown, error) {
	if price < 0 {
		return Breakdown{}, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	p := decimal.NewFromInt(price)
	return Breakdown{
		Price:       price,
		StandardFee: StandardFee(p),
		PlatformFee: p.Mul(platformRate),
	}, nil
}

// StandardFee is the conventional three-tier brokerage commission.
// It is continuous at both tier limits.
func StandardFee(p decimal.Decimal) decimal.Decimal {
	switch {
	case p.LessThanOrEqual(decimal.NewFromInt(Tier1Limit)):
		return p.Mul(tier1Rate)
	case p.LessThanOrEqual(decimal.NewFromInt(Tier2Limit)):
		return p.Mul(tier2Rate).Add(tier2Base)
	default:
		return p.Mul(tier3Rate).Add(tier3Base)
	}
}

// PriceFromFloat converts an untyped numeric input into whole yen.
func PriceFromFloat(v float64) (int64, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, &domain.ValidationError{Field: "price", Reason: "must be a finite number"}
	case v < 0:
		return 0, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	case v != math.Trunc(v):
		return 0, &domain.ValidationError{Field: "price", Reason: "must be whole yen"}
	case v > maxPrice:
		return 0, &domain.ValidationError{Field: "price", Reason: "too large"}
	}
	return int64(v), nil
}

// ToMan converts yen into 10,000-yen display units.
func ToMan(yen decimal.Decimal) decimal.Decimal {
	return yen.Div(decimal.NewFromInt(10_000))
}

// Summary aggregates breakdowns over a filtered property set.
type Summary struct {
	Count            int             `json:"count"`
	Breakdowns       []Breakdown     `json:"breakdowns"`
	TotalStandardFee decimal.Decimal `json:"total_standard_fee"`
	TotalPlatformFee decimal.Decimal `json:"total_platform_fee"`
}

// Aggregate sums fees over the properties whose status is in statuses, or over
// all of them when statuses is empty. The first invalid price fails the call.
func Aggregate(props []domain.Property, statuses ...domain.Status) (Summary, error) {
	out := Summary{
		Breakdowns:       []Breakdown{},
		TotalStandardFee: decimal.Zero,
		TotalPlatformFee: decimal.Zero,
	}
	for _, p := range props {
		if !statusIn(p.Status, statuses) {
			continue
		}
		b, err := Calculate(p.Price)
		if err != nil {
			return Summary{}, fmt.Errorf("property %d: %w", p.ID, err)
		}
		b.PropertyID = p.ID
		out.Breakdowns = append(out.Breakdowns, b)
		out.TotalStandardFee = out.TotalStandardFee.Add(b.StandardFee)
		out.TotalPlatformFee = out.TotalPlatformFee.Add(b.PlatformFee)
	}
	out.Count = len(out.Breakdowns)
	return out, nil
}

func statusIn(s domain.Status, set []domain.Status) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
