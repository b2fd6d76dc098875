package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig bounds how fast a single caller may hit the API.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig is generous enough for a clinic console polling
// interview status while still damping runaway clients.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
	}
}

// caller tracks the virtual-scheduling state for one tenant/IP pair. Instead
// of counting tokens it records the theoretical arrival time of the next
// conforming request; a request whose arrival is too far ahead of schedule
// is rejected.
type caller struct {
	nextConforming time.Time
}

type rateLimiter struct {
	mu       sync.Mutex
	callers  map[string]*caller
	interval time.Duration // time credited per request
	leeway   time.Duration // how far ahead of schedule a burst may run
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	interval := time.Duration(float64(time.Second) / cfg.RequestsPerSecond)
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		callers:  make(map[string]*caller),
		interval: interval,
		leeway:   time.Duration(burst-1) * interval,
	}
}

// take admits or rejects one request for key. On rejection it reports how
// long the caller must wait before the next request conforms.
func (l *rateLimiter) take(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.callers[key]
	if !ok {
		cl = &caller{nextConforming: now}
		l.callers[key] = cl
	}

	schedule := cl.nextConforming
	if schedule.Before(now) {
		schedule = now
	}
	if ahead := schedule.Sub(now); ahead > l.leeway {
		return false, ahead - l.leeway
	}
	cl.nextConforming = schedule.Add(l.interval)
	return true, 0
}

// RateLimit rejects requests that exceed the configured rate. State is kept
// per tenant and client IP so a noisy clinic cannot starve the others.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	limiter := newRateLimiter(cfg)
	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if tenantID, ok := c.Get("jwt_tenant_id").(string); ok && tenantID != "" {
				key = tenantID + "/" + key
			}

			ok, wait := limiter.take(key, time.Now())
			c.Response().Header().Set("X-RateLimit-Limit", limitHeader)
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return echo.NewHTTPError(http.StatusTooManyRequests, "request rate exceeded, retry later")
			}
			return next(c)
		}
	}
}
