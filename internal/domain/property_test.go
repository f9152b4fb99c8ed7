package domain_test

import (
	"context"
	"errors"
	"testing"

	"p2p_estate/internal/domain"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]domain.Status{
		"ACTIVE":      domain.StatusActive,
		"negotiating": domain.StatusNegotiating,
		" Sold ":      domain.StatusSold,
		"draft":       domain.StatusDraft,
	} {
		got, err := domain.ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}
	_, err := domain.ParseStatus("ARCHIVED")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestParseImageList(t *testing.T) {
	for _, raw := range []string{"", "null", "  ", "[]"} {
		l, err := domain.ParseImageList([]byte(raw))
		if err != nil || len(l) != 0 {
			t.Fatalf("ParseImageList(%q) = %v, %v", raw, l, err)
		}
	}
	l, err := domain.ParseImageList([]byte(`["a.jpg","b.jpg","c.jpg"]`))
	if err != nil || len(l) != 3 {
		t.Fatalf("unexpected %v %v", l, err)
	}
	p := domain.Property{Images: l}
	if p.ImageCount() != 3 {
		t.Fatalf("ImageCount = %d", p.ImageCount())
	}
	for _, bad := range []string{`{"a":1}`, `[1,2]`, `["ok",""]`, `not json`} {
		if _, err := domain.ParseImageList([]byte(bad)); err == nil {
			t.Fatalf("expected error for %s", bad)
		}
	}
}

func TestSessionContext(t *testing.T) {
	if _, ok := domain.SessionFrom(context.Background()); ok {
		t.Fatalf("empty context should carry no session")
	}
	ctx := domain.WithSession(context.Background(), domain.Session{SellerID: 4, LoginID: "kenji"})
	s, ok := domain.SessionFrom(ctx)
	if !ok || s.SellerID != 4 {
		t.Fatalf("unexpected session %+v", s)
	}
	if !s.CanView(4) || s.CanView(5) {
		t.Fatalf("owner check wrong")
	}
	if !(domain.Session{IsAdmin: true}).CanView(5) {
		t.Fatalf("admin should see everything")
	}
}
