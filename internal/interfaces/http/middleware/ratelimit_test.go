package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketLimiter_Burst(t *testing.T) {
	l := NewTokenBucketLimiter(1, 3, time.Minute)
	fixed := time.Now()
	l.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		ok, info := l.Allow("10.0.0.1")
		assert.True(t, ok, "request %d", i)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	ok, info := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, time.Second.Seconds(), info.RetryAfter.Seconds(), 0.01)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "keys are independent")

	fixed = fixed.Add(time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok, "token refilled")
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, time.Minute)
	start := time.Now()
	l.now = func() time.Time { return start }
	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Cleanup())

	l.now = func() time.Time { return start.Add(2 * time.Minute) }
	l.Allow("b")
	assert.Equal(t, 1, l.Cleanup())
}

func TestRateLimit_Middleware(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.RequestsPerSecond = 0.001
	config.BurstSize = 1
	handler := NewRateLimitMiddleware(config).Handler(okHandler())

	send := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, path, nil)
		r.RemoteAddr = "192.0.2.7:5555"
		handler.ServeHTTP(w, r)
		return w
	}

	first := send("/api/v1/generations")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := send("/api/v1/generations")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusOK, send("/healthz").Code)
}

func TestClientIPKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.4:443"
	assert.Equal(t, "198.51.100.4", ClientIPKey(r))

	r.RemoteAddr = "unix"
	assert.Equal(t, "unix", ClientIPKey(r))
}

//Personal.AI order the ending
