package router

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, key)
		}
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// HttpRateLimit allows burst requests per client IP and refills one token
// every interval. Rejected requests get a 429 envelope. Buckets are keyed
// on c.IP(), so forwarded headers only count when sent by a trusted proxy.
func HttpRateLimit(interval time.Duration, burst int) fiber.Handler {
	if interval <= 0 {
		interval = time.Second
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := &ipLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(interval),
		burst:    burst,
	}

	return func(c *fiber.Ctx) error {
		if !limiter.allow(c.IP(), time.Now()) {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds(interval))
			return ResponseTooManyRequests(c, "Trop de requêtes, réessayez plus tard")
		}
		return c.Next()
	}
}

func retryAfterSeconds(interval time.Duration) string {
	seconds := int(interval.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
