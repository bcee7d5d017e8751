package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/api/metrics"
	"github.com/cursomc/commerce-api/internal/core/principal"
	"github.com/cursomc/commerce-api/internal/infrastructure/db/redis"
)

// RateLimiter is satisfied by the redis fixed-window limiter.
type RateLimiter interface {
	Allow(ctx context.Context, scope, subject string) redis.RateDecision
	Limit() int64
}

// RateLimit counts each request against the caller: the principal id when
// authenticated, the client IP otherwise. A nil limiter disables the check.
func RateLimit(limiter RateLimiter, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			subject := "ip:" + c.RealIP()
			if p := principal.Current(c.Request().Context()); p != nil {
				subject = "customer:" + strconv.FormatInt(p.ID, 10)
			}

			d := limiter.Allow(c.Request().Context(), scope, subject)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Limit(), 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

			if !d.Allowed {
				metrics.RateLimitHitsTotal.WithLabelValues(scope).Inc()
				retry := int(time.Until(d.ResetAt).Round(time.Second).Seconds())
				h.Set("Retry-After", strconv.Itoa(max(retry, 1)))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
