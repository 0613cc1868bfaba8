package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether a request for key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state for one key after a decision.
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// KeyFunc extracts the limiter key.  Nil uses the client IP.
	KeyFunc func(r *http.Request) string
	// SkipPaths bypass the limiter.
	SkipPaths []string
	// IdleTTL drops limiters of clients not seen for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
		KeyFunc:           ClientIPKey,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

// ClientIPKey keys by the remote host.  chi's RealIP middleware has already
// rewritten RemoteAddr from X-Forwarded-For or X-Real-IP.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketLimiter keeps one rate.Limiter per key.
type TokenBucketLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewTokenBucketLimiter creates a limiter allowing rps requests per second
// per key with bursts of burst.
func NewTokenBucketLimiter(rps float64, burst int, idleTTL time.Duration) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow consumes one token for key when available.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	info := RateLimitInfo{Limit: l.burst}
	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, info
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		info.RetryAfter = delay
		return false, info
	}
	info.Remaining = int(v.limiter.TokensAt(now))
	if info.Remaining < 0 {
		info.Remaining = 0
	}
	return true, info
}

// Cleanup drops limiters idle for longer than the idle TTL and returns how
// many remain.
func (l *TokenBucketLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idleTTL > 0 {
		cutoff := l.now().Add(-l.idleTTL)
		for k, v := range l.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(l.visitors, k)
			}
		}
	}
	return len(l.visitors)
}

// RateLimit returns middleware that answers 429 once a client exhausts its
// bucket.
func RateLimit(limiter RateLimiter, config RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ok, info := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			if !ok {
				secs := int(info.RetryAfter.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":{"code":"COMMON_007","message":"rate limit exceeded, please retry later"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware wraps RateLimit for the router configuration.
type RateLimitMiddleware struct {
	limiter *TokenBucketLimiter
	handler func(http.Handler) http.Handler
}

// NewRateLimitMiddleware creates a token bucket limiter and its middleware.
func NewRateLimitMiddleware(config RateLimitConfig) *RateLimitMiddleware {
	l := NewTokenBucketLimiter(config.RequestsPerSecond, config.BurstSize, config.IdleTTL)
	return &RateLimitMiddleware{limiter: l, handler: RateLimit(l, config)}
}

// Handler returns the middleware handler function.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return m.handler(next)
}

// Limiter exposes the underlying limiter for periodic cleanup.
func (m *RateLimitMiddleware) Limiter() *TokenBucketLimiter { return m.limiter }

//Personal.AI order the ending
