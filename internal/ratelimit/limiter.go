// Package ratelimit throttles the credential endpoints per client address.
// Limiters are kept in memory and evicted when idle, so a burst of failed
// logins from one address cannot starve everyone else.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out a token-bucket limiter per client IP.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	idle    time.Duration
}

// New builds a per-client limiter allowing r events per second with the
// given burst. Clients idle longer than idle are evicted on the next sweep.
func New(r rate.Limit, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		clients: make(map[string]*clientLimiter),
		rate:    r,
		burst:   burst,
		idle:    idle,
	}
}

// Allow reports whether the client may proceed now.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[clientIP]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[clientIP] = c
	}
	c.lastSeen = now

	if len(l.clients) > 1000 {
		l.sweep(now)
	}
	return c.limiter.Allow()
}

// sweep drops idle entries. Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idle {
			delete(l.clients, ip)
		}
	}
}

// Middleware rejects over-limit requests with 429. Meant for the login and
// sign-up endpoints, not the whole API.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Please try again shortly."})
			c.Abort()
			return
		}
		c.Next()
	}
}
