package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"p2p_estate/internal/advisor"
	"p2p_estate/internal/app"
	"p2p_estate/internal/domain"
	"p2p_estate/internal/fees"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func sellerProps() map[int64][]domain.Property {
	return map[int64][]domain.Property{
		1: {
			{ID: 10, SellerID: 1, Price: 3_000_000, Status: domain.StatusActive, CreatedAt: now.AddDate(0, 0, -10), Images: domain.ImageList{"a", "b"}},
			{ID: 11, SellerID: 1, Price: 5_000_000, Status: domain.StatusSold, CreatedAt: now.AddDate(0, -3, 0), Images: domain.ImageList{"a", "b", "c", "d", "e"}},
			{ID: 12, SellerID: 1, Price: 8_000_000, Status: domain.StatusDraft, Images: domain.ImageList{"a", "b", "c", "d", "e", "f"}},
		},
		2: {
			{ID: 20, SellerID: 2, Price: 1_000_000, Status: domain.StatusNegotiating, CreatedAt: now.AddDate(0, 0, -1), Images: domain.ImageList{"a", "b", "c", "d", "e"}, MessageCount: 2},
		},
	}
}

func TestDashboard_Composes(t *testing.T) {
	repo := &fakeRepo{props: sellerProps()}
	svc := app.NewDashboardService(repo, fees.DefaultCatalog())

	d, err := svc.Dashboard(context.Background(), 1, []string{fees.AddOnProfessionalPhoto}, now)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.StatusCounts[domain.StatusActive] != 1 || d.StatusCounts[domain.StatusDraft] != 1 || d.StatusCounts[domain.StatusNegotiating] != 0 {
		t.Fatalf("unexpected counts: %v", d.StatusCounts)
	}
	if !d.Savings.Applicable || d.Savings.PropertyCount != 2 {
		t.Fatalf("unexpected savings: %+v", d.Savings)
	}
	// 140,000 + 210,000 standard; 15,000 + 25,000 platform; 2 x 30,000 photos.
	if !d.Savings.NetWithAddOns.Equal(decimal.NewFromInt(250_000)) {
		t.Fatalf("net with add-ons = %s", d.Savings.NetWithAddOns)
	}
	if d.Fees.Count != 2 || len(d.Actions) != 3 {
		t.Fatalf("fees=%d actions=%d", d.Fees.Count, len(d.Actions))
	}
	if len(d.Actions[2].Warnings) != 1 {
		t.Fatalf("draft without created_at should carry a warning: %+v", d.Actions[2])
	}
}

func TestDashboard_RecomputedAfterListingChanges(t *testing.T) {
	repo := &fakeRepo{props: map[int64][]domain.Property{
		1: {{ID: 10, SellerID: 1, Price: 3_000_000, Status: domain.StatusActive, CreatedAt: now.AddDate(0, 0, -2), Images: domain.ImageList{"a"}}},
	}}
	svc := app.NewDashboardService(repo, fees.DefaultCatalog())
	ctx := context.Background()

	before, err := svc.Dashboard(ctx, 1, nil, now)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !before.Fees.TotalStandardFee.Equal(decimal.NewFromInt(140_000)) || before.Actions[0].Items[0].Rule != advisor.RuleAddPhotos {
		t.Fatalf("unexpected first view: fee=%s items=%+v", before.Fees.TotalStandardFee, before.Actions[0].Items)
	}

	repo.mu.Lock()
	repo.props[1][0].Price = 10_000_000
	repo.props[1][0].Images = domain.ImageList{"a", "b", "c", "d", "e"}
	repo.mu.Unlock()

	after, err := svc.Dashboard(ctx, 1, nil, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// 10,000,000 x 3% + 60,000
	if !after.Fees.TotalStandardFee.Equal(decimal.NewFromInt(360_000)) {
		t.Fatalf("standard fee not recomputed: %s", after.Fees.TotalStandardFee)
	}
	for _, it := range after.Actions[0].Items {
		if it.Rule == advisor.RuleAddPhotos {
			t.Fatalf("stale advice after photos were added: %+v", after.Actions[0].Items)
		}
	}

	acts, err := svc.Actions(ctx, 1, now.Add(time.Minute))
	if err != nil || len(acts) != 1 || acts[0].Items[0].Rule != advisor.RuleAllGood {
		t.Fatalf("actions not recomputed: %+v %v", acts, err)
	}
	if repo.listCalls() != 3 {
		t.Fatalf("expected every view to read the repository, got %d reads", repo.listCalls())
	}
}

func TestDashboard_UnknownAddOn(t *testing.T) {
	svc := app.NewDashboardService(&fakeRepo{props: sellerProps()}, fees.DefaultCatalog())
	_, err := svc.Dashboard(context.Background(), 1, []string{"drone_video"}, now)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboard_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := app.NewDashboardService(&fakeRepo{failFor: map[int64]error{3: boom}}, fees.DefaultCatalog())
	if _, err := svc.Dashboard(context.Background(), 3, nil, now); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestActions_Sorted(t *testing.T) {
	repo := &fakeRepo{props: map[int64][]domain.Property{
		1: {{ID: 10, SellerID: 1, Status: domain.StatusActive, CreatedAt: now.AddDate(0, 0, -40), FavoriteCount: 4}},
	}}
	svc := app.NewDashboardService(repo, fees.DefaultCatalog())

	out, err := svc.Actions(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one advice, got %d", len(out))
	}
	var prios []advisor.Priority
	for _, it := range out[0].Items {
		prios = append(prios, it.Priority)
	}
	want := []advisor.Priority{advisor.High, advisor.High, advisor.Medium, advisor.Medium}
	if len(prios) != len(want) {
		t.Fatalf("priorities %v", prios)
	}
	for i := range want {
		if prios[i] != want[i] {
			t.Fatalf("priorities %v, want %v", prios, want)
		}
	}
}

func TestPropertyActions_OwnerCheck(t *testing.T) {
	svc := app.NewDashboardService(&fakeRepo{props: sellerProps()}, fees.DefaultCatalog())
	ctx := context.Background()

	a, err := svc.PropertyActions(ctx, domain.Session{SellerID: 2}, 20, now)
	if err != nil || a.PropertyID != 20 || a.Items[0].Rule != advisor.RuleReplyInquiries {
		t.Fatalf("owner: %+v %v", a, err)
	}
	if _, err := svc.PropertyActions(ctx, domain.Session{SellerID: 1}, 20, now); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.PropertyActions(ctx, domain.Session{SellerID: 9, IsAdmin: true}, 20, now); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := svc.PropertyActions(ctx, domain.Session{SellerID: 1}, 999, now); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
