package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdle  = 10 * time.Minute
	sweepEvery   = 5 * time.Minute
	iconPathBase = "/image/"
)

// Limiter hands out one token bucket per client IP.
type Limiter struct {
	r rate.Limit
	b int

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows r requests per second per IP with bursts of b.
func NewLimiter(r rate.Limit, b int) *Limiter {
	return &Limiter{r: r, b: b, clients: make(map[string]*client), now: time.Now}
}

// Allow spends one token from ip's bucket.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{bucket: rate.NewLimiter(l.r, l.b)}
		l.clients[ip] = cl
	}
	now := l.now()
	cl.lastSeen = now
	l.mu.Unlock()
	return cl.bucket.AllowN(now, 1)
}

// Sweep forgets IPs not seen for idle and returns how many were dropped.
func (l *Limiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// RateLimit limits each client IP to r requests per second with bursts of
// b. Icon fetches are exempt since one grid page loads dozens of them.
// Idle IPs are forgotten until ctx is cancelled. r <= 0 disables limiting.
func RateLimit(ctx context.Context, r rate.Limit, b int) gin.HandlerFunc {
	if r <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := NewLimiter(r, b)
	go func() {
		t := time.NewTicker(sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep(limiterIdle)
			}
		}
	}()

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && strings.HasPrefix(c.Request.URL.Path, iconPathBase) {
			c.Next()
			return
		}
		if !l.Allow(c.ClientIP()) {
			abortWith(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
