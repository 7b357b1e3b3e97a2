package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/soil-network/platform-api/internal/kvstore"
	"github.com/soil-network/platform-api/internal/logging"
)

const counterPrefix = "rate_limit:"

// RateLimiter caps requests per client IP with a counter in the TTL
// keyed store.
//
// The window is not clock-aligned: every accepted request rewrites the
// counter with a fresh TTL, so the window is re-armed by each request
// until the cap is hit ("N requests per rolling TTL-from-last-request").
// This matches the deployed behavior and is intentionally not corrected
// to a calendar-aligned window.
//
// A counter-backend failure never blocks a request: the limiter fails
// open (the FailOpen policy).
type RateLimiter struct {
	kv     kvstore.Store
	window time.Duration
	max    int
	// StandardHeaders controls the X-RateLimit-* response headers.
	StandardHeaders bool
	log             *logging.Logger
}

// RateLimiterOptions configures a limiter. Zero fields keep defaults
// (60s window, 100 requests, headers on).
type RateLimiterOptions struct {
	Window          time.Duration
	Max             int
	StandardHeaders *bool
	Logger          *logging.Logger
}

// NewRateLimiter creates a limiter over the given TTL keyed store.
func NewRateLimiter(kv kvstore.Store, opts RateLimiterOptions) *RateLimiter {
	rl := &RateLimiter{
		kv:              kv,
		window:          60 * time.Second,
		max:             100,
		StandardHeaders: true,
		log:             opts.Logger,
	}
	if opts.Window > 0 {
		rl.window = opts.Window
	}
	if opts.Max > 0 {
		rl.max = opts.Max
	}
	if opts.StandardHeaders != nil {
		rl.StandardHeaders = *opts.StandardHeaders
	}
	if rl.log == nil {
		rl.log = logging.NewDefault("ratelimit")
	}
	return rl
}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Allow reads, checks and increments the counter for clientIP. The
// counter mutates on every call, whatever the eventual response.
func (rl *RateLimiter) Allow(ctx context.Context, clientIP string) Decision {
	key := counterPrefix + clientIP
	reset := time.Now().Add(rl.window)

	count := 0
	current, err := rl.kv.Get(ctx, key)
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(current); convErr == nil {
			count = n
		}
	case errors.Is(err, kvstore.ErrNotFound):
		// First request in a window.
	default:
		rl.log.WithContext(ctx).WithError(err).Warnf("counter read for %s, failing open", clientIP)
		return Decision{Allowed: true, Limit: rl.max, Remaining: rl.max - 1, Reset: reset}
	}

	if count >= rl.max {
		return Decision{Allowed: false, Limit: rl.max, Remaining: 0, Reset: reset}
	}

	// TTL restarts from this write: the window is re-armed per request.
	if err := rl.kv.Set(ctx, key, strconv.Itoa(count+1), rl.window); err != nil {
		rl.log.WithContext(ctx).WithError(err).Warnf("counter write for %s, failing open", clientIP)
	}

	return Decision{Allowed: true, Limit: rl.max, Remaining: rl.max - count - 1, Reset: reset}
}

// SetHeaders attaches the standard rate-limit headers for d, when
// enabled.
func (rl *RateLimiter) SetHeaders(w http.ResponseWriter, d Decision) {
	if !rl.StandardHeaders {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.UnixMilli(), 10))
}
