// Package advisor turns a listing's current state into follow-up suggestions
// for its seller. Every rule is evaluated; nothing here is persisted.
package advisor

import (
	"fmt"
	"sort"
	"time"

	"p2p_estate/internal/domain"
)

type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	}
	return 2
}

// Rule identifiers, stable across releases; used as metric labels.
const (
	RuleAddPhotos       = "add_photos"
	RuleNoInquiries     = "no_inquiries"
	RuleInterestNoReach = "interest_without_contact"
	RulePriceReview     = "price_review"
	RuleReplyInquiries  = "reply_inquiries"
	RulePublishListing  = "publish_listing"
	RuleAllGood         = "all_good"
)

const (
	MinPhotos            = 5
	NoInquiryDays        = 7
	InterestFavorites    = 3
	PriceReviewAfterDays = 30
)

type ActionItem struct {
	Rule        string   `json:"rule"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty"`
}

// Advice is the result for one property. Warnings lists data problems that
// caused individual rules to be skipped.
type Advice struct {
	PropertyID int64                      `json:"property_id"`
	Items      []ActionItem               `json:"items"`
	Warnings   []*domain.PartialDataError `json:"warnings,omitempty"`
}

// Advise evaluates every rule against p as of now.
func Advise(p domain.Property, now time.Time) Advice {
	out := Advice{PropertyID: p.ID, Items: []ActionItem{}}
	days, derr := DaysSinceListing(p, now)
	if derr != nil {
		out.Warnings = append(out.Warnings, derr)
	}
	known := derr == nil

	if n := p.ImageCount(); n < MinPhotos {
		out.Items = append(out.Items, ActionItem{
			Rule:        RuleAddPhotos,
			Priority:    High,
			Title:       "Add more photos",
			Description: fmt.Sprintf("This listing has %d photo(s). Listings with at least %d photos get more inquiries.", n, MinPhotos),
			Link:        fmt.Sprintf("/properties/%d/photos", p.ID),
		})
	}
	if known && p.Status == domain.StatusActive && days >= NoInquiryDays && p.MessageCount == 0 {
		out.Items = append(out.Items, ActionItem{
			Rule:        RuleNoInquiries,
			Priority:    High,
			Title:       "No inquiries yet",
			Description: fmt.Sprintf("Listed for %d days without a single message. Review the title, description and photos.", days),
			Link:        fmt.Sprintf("/properties/%d/edit", p.ID),
		})
	}
	if p.FavoriteCount >= InterestFavorites && p.MessageCount == 0 {
		out.Items = append(out.Items, ActionItem{
			Rule:        RuleInterestNoReach,
			Priority:    Medium,
			Title:       "Interest without contact",
			Description: fmt.Sprintf("%d buyers saved this listing but nobody has asked a question yet. Consider adding details buyers look for.", p.FavoriteCount),
			Link:        fmt.Sprintf("/properties/%d/edit", p.ID),
		})
	}
	if known && p.Status == domain.StatusActive && days >= PriceReviewAfterDays {
		out.Items = append(out.Items, ActionItem{
			Rule:        RulePriceReview,
			Priority:    Medium,
			Title:       "Consider a price review",
			Description: fmt.Sprintf("Listed for %d days. Compare the asking price with recent sales nearby.", days),
			Link:        fmt.Sprintf("/properties/%d/edit#price", p.ID),
		})
	}
	if p.MessageCount > 0 {
		out.Items = append(out.Items, ActionItem{
			Rule:        RuleReplyInquiries,
			Priority:    High,
			Title:       "Reply to inquiries",
			Description: fmt.Sprintf("%d message(s) from buyers about this listing.", p.MessageCount),
			Link:        fmt.Sprintf("/messages?property=%d", p.ID),
		})
	}
	if p.Status == domain.StatusDraft {
		out.Items = append(out.Items, ActionItem{
			Rule:        RulePublishListing,
			Priority:    High,
			Title:       "Publish the listing",
			Description: "This listing is still a draft and is not visible to buyers.",
			Link:        fmt.Sprintf("/properties/%d/publish", p.ID),
		})
	}
	if len(out.Items) == 0 {
		out.Items = append(out.Items, ActionItem{
			Rule:        RuleAllGood,
			Priority:    Low,
			Title:       "All good",
			Description: "Nothing needs your attention on this listing right now.",
		})
	}
	return out
}

// AdviseAll runs Advise over every property. A malformed property only
// loses the rules that need the missing data.
func AdviseAll(props []domain.Property, now time.Time) []Advice {
	out := make([]Advice, 0, len(props))
	for _, p := range props {
		out = append(out, Advise(p, now))
	}
	return out
}

// DaysSinceListing counts whole days between CreatedAt and now.
func DaysSinceListing(p domain.Property, now time.Time) (int, *domain.PartialDataError) {
	switch {
	case p.CreatedAt.IsZero():
		return 0, &domain.PartialDataError{PropertyID: p.ID, Field: "created_at", Reason: "is missing"}
	case p.CreatedAt.After(now):
		return 0, &domain.PartialDataError{PropertyID: p.ID, Field: "created_at", Reason: "is in the future"}
	}
	return int(now.Sub(p.CreatedAt) / (24 * time.Hour)), nil
}

// SortByPriority orders items high, medium, low, keeping rule order within a priority.
func SortByPriority(items []ActionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.rank() < items[j].Priority.rank()
	})
}
