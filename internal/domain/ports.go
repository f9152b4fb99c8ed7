package domain

import (
	"context"
	"time"
)

type PropertyRepository interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]Property, error)
	GetProperty(ctx context.Context, id int64) (Property, error)
	ListSellerIDs(ctx context.Context) ([]int64, error)
	FindSellerByLogin(ctx context.Context, loginID string) (Seller, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier delivers a seller digest. Implementations may be no-ops.
type Notifier interface {
	SendDigest(ctx context.Context, d Digest) error
}

// Digest is the batch job's summary of urgent work for one seller.
type Digest struct {
	SellerID    int64         `json:"seller_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Items       []DigestEntry `json:"items"`
}

type DigestEntry struct {
	PropertyID int64  `json:"property_id"`
	Rule       string `json:"rule"`
	Title      string `json:"title"`
	Link       string `json:"link,omitempty"`
}
