package app

import (
	"context"
	"time"

	"p2p_estate/internal/adapters/observability"
	"p2p_estate/internal/advisor"
	"p2p_estate/internal/domain"
	"p2p_estate/internal/fees"
)

// Dashboard is the seller's overview: what their listings cost on the
// platform, what they save, and what to do next.
type Dashboard struct {
	SellerID     int64                 `json:"seller_id"`
	GeneratedAt  time.Time             `json:"generated_at"`
	StatusCounts map[domain.Status]int `json:"status_counts"`
	Fees         fees.Summary          `json:"fees"`
	Savings      fees.Savings          `json:"savings"`
	Actions      []advisor.Advice      `json:"actions"`
}

// DashboardService reads the seller's current listings on every call and
// recomputes fees, savings and advice from them. Nothing derived is stored.
type DashboardService struct {
	repo    domain.PropertyRepository
	catalog *fees.Catalog
}

func NewDashboardService(r domain.PropertyRepository, catalog *fees.Catalog) *DashboardService {
	return &DashboardService{repo: r, catalog: catalog}
}

func (s *DashboardService) Catalog() *fees.Catalog { return s.catalog }

func (s *DashboardService) Dashboard(ctx context.Context, sellerID int64, addOns []string, now time.Time) (Dashboard, error) {
	props, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return Dashboard{}, err
	}
	d, err := BuildDashboard(sellerID, props, s.catalog, addOns, now)
	if err != nil {
		return Dashboard{}, err
	}
	observeAdvice(d.Actions)
	return d, nil
}

// BuildDashboard composes the fee, savings and advisor
// computations over one seller's listings.
func BuildDashboard(sellerID int64, props []domain.Property, catalog *fees.Catalog, addOns []string, now time.Time) (Dashboard, error) {
	savings, err := catalog.Savings(props, addOns)
	if err != nil {
		return Dashboard{}, err
	}
	summary, err := fees.Aggregate(props, fees.SavingsStatuses...)
	if err != nil {
		return Dashboard{}, err
	}
	counts := map[domain.Status]int{
		domain.StatusActive:      0,
		domain.StatusNegotiating: 0,
		domain.StatusSold:        0,
		domain.StatusDraft:       0,
	}
	for _, p := range props {
		counts[p.Status]++
	}
	return Dashboard{
		SellerID:     sellerID,
		GeneratedAt:  now.UTC(),
		StatusCounts: counts,
		Fees:         summary,
		Savings:      savings,
		Actions:      advisor.AdviseAll(props, now),
	}, nil
}

// Actions returns the seller's advice with each property's items sorted by priority.
func (s *DashboardService) Actions(ctx context.Context, sellerID int64, now time.Time) ([]advisor.Advice, error) {
	props, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := advisor.AdviseAll(props, now)
	for i := range out {
		advisor.SortByPriority(out[i].Items)
	}
	observeAdvice(out)
	return out, nil
}

// PropertyActions advises on one property the session is allowed to see.
func (s *DashboardService) PropertyActions(ctx context.Context, sess domain.Session, propertyID int64, now time.Time) (advisor.Advice, error) {
	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		return advisor.Advice{}, err
	}
	if !sess.CanView(p.SellerID) {
		return advisor.Advice{}, domain.ErrForbidden
	}
	a := advisor.Advise(p, now)
	advisor.SortByPriority(a.Items)
	return a, nil
}

func observeAdvice(all []advisor.Advice) {
	for _, a := range all {
		for _, it := range a.Items {
			observability.ObserveAdvice(it.Rule, string(it.Priority))
		}
		for _, w := range a.Warnings {
			observability.ObservePartialData(w.Field)
		}
	}
}
