package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"p2p_estate/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	props   map[int64][]domain.Property
	failFor map[int64]error
	lists   int
}

func (f *fakeRepo) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if err := f.failFor[sellerID]; err != nil {
		return nil, err
	}
	return append([]domain.Property(nil), f.props[sellerID]...), nil
}

func (f *fakeRepo) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ps := range f.props {
		for _, p := range ps {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (f *fakeRepo) ListSellerIDs(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.props {
		ids = append(ids, id)
	}
	for id := range f.failFor {
		if _, ok := f.props[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo) FindSellerByLogin(ctx context.Context, loginID string) (domain.Seller, error) {
	return domain.Seller{}, domain.ErrNotFound
}

func (f *fakeRepo) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type fakeNotifier struct {
	mu      sync.Mutex
	digests []domain.Digest
	failFor map[int64]bool
}

func (n *fakeNotifier) SendDigest(ctx context.Context, d domain.Digest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[d.SellerID] {
		return errors.New("webhook down")
	}
	n.digests = append(n.digests, d)
	return nil
}
