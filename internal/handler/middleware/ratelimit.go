package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"library-backend/internal/handler/httperr"
	"library-backend/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	perMinute := max(cfg.AuthPerMinute, 1)
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(cfg.AuthBurst, 1),
		now:     time.Now,
	}
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests")
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	l.evictIdle(now)

	return cl.limiter.AllowN(now, 1)
}

func (l *RateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < limiterIdleTTL {
		return
	}
	l.lastSweep = now
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}
