package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or generates one, and stores it in
// Locals under "requestID".
func RequestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("requestID", id)
	c.Set(RequestIDHeader, id)
	return c.Next()
}

// RequestLogger logs one line per request with status and latency.
func RequestLogger(logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		entry := logger.WithFields(logrus.Fields{
			"request_id": c.Locals("requestID"),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
		return err
	}
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      time.Minute,
		limiters: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.ttl {
		rl.sweep(now)
	}

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// sweep drops clients idle for longer than ttl. It runs at most once per ttl.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.ttl {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(limiter *RateLimiter, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !limiter.Allow(ip) {
			logger.WithFields(logrus.Fields{
				"ip":         ip,
				"request_id": c.Locals("requestID"),
			}).Warn("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many requests"})
		}
		return c.Next()
	}
}
