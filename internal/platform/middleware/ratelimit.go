package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// IdleTTL drops buckets unused for this long.
	IdleTTL time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 20, BurstSize: 40, IdleTTL: 10 * time.Minute}
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// buckets keeps one token bucket per caller and sweeps idle ones at most once
// per IdleTTL.
type buckets struct {
	mu    sync.Mutex
	byKey map[string]*bucket
	cfg   RateLimitConfig
	swept time.Time
	now   func() time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &buckets{byKey: make(map[string]*bucket), cfg: cfg, now: time.Now}
}

func (b *buckets) take(key string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.swept) > b.cfg.IdleTTL {
		for k, bk := range b.byKey {
			if now.Sub(bk.seen) > b.cfg.IdleTTL {
				delete(b.byKey, k)
			}
		}
		b.swept = now
	}
	bk := b.byKey[key]
	if bk == nil {
		bk = &bucket{lim: rate.NewLimiter(rate.Limit(b.cfg.RequestsPerSecond), b.cfg.BurstSize)}
		b.byKey[key] = bk
	}
	bk.seen = now
	return bk.lim
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey)
}

// callerKey identifies the bucket: the panel user inside a hospital when the
// request is authenticated, the client IP otherwise.
func callerKey(c echo.Context) string {
	ctx := c.Request().Context()
	if hospitalID, ok := tenant.FromContext(ctx); ok {
		if uid := auth.UserIDFromContext(ctx); uid != "" {
			return hospitalID.String() + "/" + uid
		}
		return hospitalID.String() + "/" + c.RealIP()
	}
	return c.RealIP()
}

// RateLimit answers 429 with Retry-After once a caller's bucket is empty.
// Mount it after authentication and tenant resolution.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := newBuckets(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitHeader)

			lim := store.take(callerKey(c))
			r := lim.Reserve()
			if r.OK() && r.Delay() == 0 {
				h.Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(lim.Tokens())))))
				return next(c)
			}

			wait := 1
			if r.OK() {
				wait = int(math.Ceil(r.Delay().Seconds()))
			}
			r.Cancel()
			h.Set("Retry-After", strconv.Itoa(wait))
			h.Set("X-RateLimit-Remaining", "0")
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, slow down")
		}
	}
}
