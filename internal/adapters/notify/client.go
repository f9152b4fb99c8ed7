// internal/adapters/notify/client.go
package notify

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"p2p_estate/internal/adapters/observability"
	"p2p_estate/internal/domain"
)

const maxAttempts = 4

var ErrRejected = errors.New("notify: rejected")

// Client posts seller digests to a webhook.
type Client struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
}

func New(url string, rps float64) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("notify URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: 10 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// SendDigest delivers d. Every attempt for the same digest carries the same
// Idempotency-Key so the receiver can drop duplicates.
func (c *Client) SendDigest(ctx context.Context, d domain.Digest) error {
	body, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.post(ctx, body, uuid.NewString())
}

// post performs a POST with client-side rate limiting and retries.
// Retries on network errors, 429 and transient 5xx, honoring Retry-After.
func (c *Client) post(ctx context.Context, body []byte, key string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		req.Header.Set("User-Agent", "p2p-estate-digest/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("notify", "digest", 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("notify", "digest", resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("notify: remote %d", resp.StatusCode)
			log.Debug().Int("attempt", i+1).Int("status", resp.StatusCode).Dur("wait", wait).Msg("notify retry")
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// Discard is the notifier used when no webhook is configured.
type Discard struct{}

func (Discard) SendDigest(ctx context.Context, d domain.Digest) error {
	log.Debug().Int64("seller_id", d.SellerID).Int("items", len(d.Items)).Msg("digest discarded")
	return nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
