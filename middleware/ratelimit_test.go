package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLimiter_BurstPerIP(t *testing.T) {
	l := NewLimiter(0.001, 2)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per IP")
}

func TestLimiter_Refill(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(6 * time.Minute)
	l.Allow("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Sweep(limiterIdle))
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.2")
}

func newRateLimitRouter(t *testing.T, r rate.Limit, b int) *gin.Engine {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eng := gin.New()
	eng.Use(RateLimit(ctx, r, b))
	eng.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	eng.GET("/image/:filename", func(c *gin.Context) { c.Status(http.StatusOK) })
	return eng
}

func hit(r *gin.Engine, path, ip string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Real-IP", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	r := newRateLimitRouter(t, 0.001, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/", "10.0.1.1"), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/", "10.0.1.1"))
	assert.Equal(t, http.StatusOK, hit(r, "/", "10.0.1.2"))
}

func TestRateLimit_IconsExempt(t *testing.T) {
	r := newRateLimitRouter(t, 0.001, 1)
	assert.Equal(t, http.StatusOK, hit(r, "/", "10.0.3.3"))
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/image/bread.png", "10.0.3.3"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/", "10.0.3.3"))
}

func TestRateLimit_ZeroDisables(t *testing.T) {
	r := newRateLimitRouter(t, 0, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/", "10.2.2.2"))
	}
}
