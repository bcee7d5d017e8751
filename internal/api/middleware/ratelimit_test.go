package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/infrastructure/db/redis"
)

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := redis.NewRateLimiter(client, 2, time.Minute, zerolog.Nop())

	mw := RateLimit(limiter, "upload")
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	p := domain.NewPrincipal(5, "a@x.com")

	e := echo.New()
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		c, rec := newContextAs(&p)
		if err := mw(ok)(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		codes = append(codes, rec.Code)

		if i == 2 {
			if rec.Header().Get("Retry-After") == "" {
				t.Fatal("expected Retry-After header")
			}
			if rec.Header().Get("X-RateLimit-Remaining") != "0" {
				t.Fatalf("unexpected remaining header %q", rec.Header().Get("X-RateLimit-Remaining"))
			}
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes: %v", codes)
	}

	// Another customer is unaffected.
	other := domain.NewPrincipal(7, "b@x.com")
	c, rec := newContextAs(&other)
	if err := mw(ok)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for another customer, got %d", rec.Code)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	c, rec := newContextAs(nil)

	if err := RateLimit(nil, "upload")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
