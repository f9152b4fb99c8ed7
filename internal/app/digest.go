package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"p2p_estate/internal/adapters/observability"
	"p2p_estate/internal/advisor"
	"p2p_estate/internal/domain"
)

// Per-seller digest outcomes; also the digest_sellers_total label values.
const (
	DigestSent      = "sent"
	DigestEmpty     = "empty"
	DigestUnchanged = "unchanged"
	DigestFailed    = "failed"
)

type DigestReport struct {
	Sellers   int
	Sent      int
	Empty     int
	Unchanged int
	Failed    int
}

// DigestService recomputes every seller's advice and notifies sellers who
// have high-priority work waiting. A digest identical to the last one sent
// is held back until the repeat window expires.
type DigestService struct {
	repo     domain.PropertyRepository
	dash     *DashboardService
	notifier domain.Notifier
	sentLog  domain.Cache
	repeat   time.Duration
	workers  int64
}

func NewDigestService(r domain.PropertyRepository, d *DashboardService, n domain.Notifier, sentLog domain.Cache, workers int, repeat time.Duration) *DigestService {
	if workers <= 0 {
		workers = 1
	}
	if repeat <= 0 {
		repeat = 24 * time.Hour
	}
	return &DigestService{repo: r, dash: d, notifier: n, sentLog: sentLog, repeat: repeat, workers: int64(workers)}
}

func sentKey(sellerID int64) string { return fmt.Sprintf("digest:%d", sellerID) }

// Run processes all sellers. A failing seller is logged and counted; only a
// failure to list sellers or a cancelled ctx aborts the run.
func (s *DigestService) Run(ctx context.Context, now time.Time) (DigestReport, error) {
	ids, err := s.repo.ListSellerIDs(ctx)
	if err != nil {
		return DigestReport{}, err
	}

	var sent, empty, unchanged, failed atomic.Int64
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return DigestReport{}, err
		}
		wg.Add(1)
		go func(sellerID int64) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := s.digestSeller(ctx, sellerID, now)
			observability.ObserveDigest(result)
			switch result {
			case DigestSent:
				sent.Add(1)
			case DigestEmpty:
				empty.Add(1)
			case DigestUnchanged:
				unchanged.Add(1)
			default:
				failed.Add(1)
				log.Warn().Int64("seller_id", sellerID).Err(err).Msg("digest failed")
			}
		}(id)
	}
	wg.Wait()

	return DigestReport{
		Sellers:   len(ids),
		Sent:      int(sent.Load()),
		Empty:     int(empty.Load()),
		Unchanged: int(unchanged.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

func (s *DigestService) digestSeller(ctx context.Context, sellerID int64, now time.Time) (string, error) {
	advice, err := s.dash.Actions(ctx, sellerID, now)
	if err != nil {
		return DigestFailed, err
	}
	d := BuildDigest(sellerID, advice, now)
	key := sentKey(sellerID)
	if len(d.Items) == 0 {
		// forget the last digest so the same work reappearing is announced again
		if err := s.sentLog.Del(ctx, key); err != nil {
			log.Warn().Err(err).Int64("seller_id", sellerID).Msg("digest log delete failed")
		}
		return DigestEmpty, nil
	}

	fp := Fingerprint(d)
	var last string
	ok, err := s.sentLog.Get(ctx, key, &last)
	if err != nil {
		log.Warn().Err(err).Int64("seller_id", sellerID).Msg("digest log read failed")
	}
	if ok && last == fp {
		return DigestUnchanged, nil
	}

	if err := s.notifier.SendDigest(ctx, d); err != nil {
		return DigestFailed, err
	}
	if err := s.sentLog.Set(ctx, key, fp, int(s.repeat.Seconds())); err != nil {
		log.Warn().Err(err).Int64("seller_id", sellerID).Msg("digest log write failed")
	}
	return DigestSent, nil
}

// BuildDigest keeps only the high-priority items.
func BuildDigest(sellerID int64, advice []advisor.Advice, now time.Time) domain.Digest {
	d := domain.Digest{SellerID: sellerID, GeneratedAt: now.UTC(), Items: []domain.DigestEntry{}}
	for _, a := range advice {
		for _, it := range a.Items {
			if it.Priority != advisor.High {
				continue
			}
			d.Items = append(d.Items, domain.DigestEntry{
				PropertyID: a.PropertyID,
				Rule:       it.Rule,
				Title:      it.Title,
				Link:       it.Link,
			})
		}
	}
	return d
}

// Fingerprint identifies a digest by its (property, rule) pairs, ignoring
// order and generation time.
func Fingerprint(d domain.Digest) string {
	parts := make([]string, 0, len(d.Items))
	for _, e := range d.Items {
		parts = append(parts, fmt.Sprintf("%d/%s", e.PropertyID, e.Rule))
	}
	sort.Strings(parts)
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
