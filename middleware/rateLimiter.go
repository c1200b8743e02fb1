package middleware

import (
	"sync"
	"time"

	"catalog-search-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	// idle clients are swept at most once per sweepInterval
	sweepInterval time.Duration
	lastSweep     time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		idleTTL: 10 * time.Minute,

		sweepInterval: time.Minute,
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	if now.Sub(rl.lastSweep) >= rl.sweepInterval {
		rl.sweepLocked(now)
	}

	return cl.limiter.AllowN(now, 1)
}

// sweepLocked drops idle clients so the map does not grow without bound
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for k, other := range rl.clients {
		if now.Sub(other.lastSeen) > rl.idleTTL {
			delete(rl.clients, k)
		}
	}
	rl.lastSweep = now
}

// Handler rejects requests over the limit with 429
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.allow(c.IP(), time.Now()) {
			config.Logger.Warn("Rate limit exceeded", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
