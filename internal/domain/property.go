package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusNegotiating Status = "NEGOTIATING"
	StatusSold        Status = "SOLD"
	StatusDraft       Status = "DRAFT"
)

// ParseStatus accepts the four lifecycle values, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusNegotiating, StatusSold, StatusDraft:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
}

// Property is the subset of a listing the dashboard computations read.
// Price is in yen.
type Property struct {
	ID            int64     `json:"id"`
	SellerID      int64     `json:"seller_id"`
	Title         string    `json:"title"`
	Price         int64     `json:"price"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	Images        ImageList `json:"images"`
	FavoriteCount int       `json:"favorite_count"`
	MessageCount  int       `json:"message_count"`
}

func (p Property) ImageCount() int { return len(p.Images) }

// ImageList is the typed form of the serialized image column.
type ImageList []string

// ParseImageList decodes the stored JSON array. NULL, empty and "null" mean no images.
func ParseImageList(raw []byte) (ImageList, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ImageList{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	for i, s := range out {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("images: entry %d is empty", i)
		}
	}
	return ImageList(out), nil
}
