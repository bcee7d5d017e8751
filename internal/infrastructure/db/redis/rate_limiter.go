package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	rateLimitPrefix  = "ratelimit:"
	rateLimitTimeout = 250 * time.Millisecond
)

// RateDecision is the outcome of one Allow call.
type RateDecision struct {
	Allowed   bool
	Count     int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimiter is a fixed-window counter keyed by caller.
// Key format: ratelimit:<scope>:<subject>
type RateLimiter struct {
	client *redis.Client
	log    zerolog.Logger
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit hits per window for each key. A non-positive
// limit disables limiting.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, log: log, limit: int64(limit), window: window}
}

// Allow counts one hit against scope/subject. Redis failures let the request
// through.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string) RateDecision {
	now := time.Now()
	if l.limit <= 0 {
		return RateDecision{Allowed: true, ResetAt: now}
	}

	ctx, cancel := context.WithTimeout(ctx, rateLimitTimeout)
	defer cancel()

	key := l.key(scope, subject)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Error().Err(err).Str("op", "incr").Msg("rate limiter unavailable")
		return RateDecision{Allowed: true, ResetAt: now.Add(l.window)}
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Error().Err(err).Str("op", "expire").Msg("rate limiter unavailable")
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	switch {
	case err != nil:
		ttl = l.window
	case ttl < 0:
		// The counter has no expiry (EXPIRE failed after INCR); re-arm it so
		// the caller is not locked out for good.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Error().Err(err).Str("op", "expire").Msg("rate limiter unavailable")
		}
		ttl = l.window
	}

	return RateDecision{
		Allowed:   count <= l.limit,
		Count:     count,
		Remaining: max(l.limit-count, 0),
		ResetAt:   now.Add(ttl),
	}
}

// Limit returns the configured number of hits per window.
func (l *RateLimiter) Limit() int64 { return l.limit }

func (l *RateLimiter) key(scope, subject string) string {
	return fmt.Sprintf("%s%s:%s", rateLimitPrefix, scope, subject)
}
