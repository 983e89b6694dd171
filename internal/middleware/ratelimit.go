// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/spryng/elevyn/internal/core"
)

// RateLimitConfig describes one client-IP budget. Name namespaces the redis
// keys so limiters with different budgets never share a counter.
type RateLimitConfig struct {
	Name  string
	Limit redis_rate.Limit
}

// RateLimiter counts requests in redis and falls back to an in-process
// token bucket per client while redis is unreachable.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	fallback *localBuckets
	cfg      RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.Name == "" {
		cfg.Name = "global"
	}
	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalBuckets(cfg.Limit),
		cfg:      cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := rl.allow(r, rl.key(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		if !allowed {
			writeRateLimited(w, retryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) key(r *http.Request) string {
	return "ratelimit:" + rl.cfg.Name + ":" + ClientIP(r)
}

func (rl *RateLimiter) allow(r *http.Request, key string) (bool, time.Duration) {
	res, err := rl.redis.Allow(r.Context(), key, rl.cfg.Limit)
	if err == nil {
		return res.Allowed > 0, res.RetryAfter
	}

	slog.Warn("rate limiter using local buckets", "error", err, "key", key)
	return rl.fallback.allow(key)
}

// ClientIP returns the address the nearest trusted proxy saw, which is the
// last X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	secs := max(int(retryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(secs))
	core.JSONError(w, core.NewAppError(
		core.ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", secs),
		http.StatusTooManyRequests,
		core.CodeRateLimited,
	))
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets mirrors the redis budget per key. Idle buckets are swept on
// access once per bucketIdleTTL.
type localBuckets struct {
	every rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	every := rate.Inf
	if limit.Rate > 0 && limit.Period > 0 {
		every = rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	}
	return &localBuckets{
		every:     every,
		burst:     max(limit.Burst, 1),
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (l *localBuckets) allow(key string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > bucketIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}
	return false, time.Duration(float64(time.Second) / float64(l.every))
}
