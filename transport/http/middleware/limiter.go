package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"todolist/config"
	"todolist/shared"
	"todolist/shared/cache"
	"todolist/shared/constant"
	"todolist/transport/http/response"
)

const (
	cacheKeyRateLimit = "limiter"
	breakerName       = "rate-limiter-redis"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

// Limiter counts requests per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Backend() string
}

// NewLimiter builds the limiter for the configured backend.
func NewLimiter(cfg *config.Config, redisCache cache.RedisCache) Limiter {
	limiterConfig := cfg.App.RateLimiter
	window := time.Duration(limiterConfig.WindowSeconds) * time.Second

	if limiterConfig.Backend == config.RateLimiterBackendRedis {
		return newRedisLimiter(redisCache, limiterConfig.MaxRequests, window,
			limiterConfig.CircuitBreaker.MaxFailures, time.Duration(limiterConfig.CircuitBreaker.OpenSeconds)*time.Second)
	}

	return newMemoryLimiter(limiterConfig.MaxRequests, window)
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// memoryLimiter is a token bucket per client that refills maxRequests tokens every window.
// State is local to the process.
type memoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:   maxRequests,
		window:  window,
		now:     time.Now,
	}
}

func (m *memoryLimiter) Backend() string {
	return config.RateLimiterBackendMemory
}

func (m *memoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	client, ok := m.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[key] = client
	}

	client.lastAccess = now
	allowed := client.limiter.AllowN(now, 1)

	return Decision{
		Allowed:   allowed,
		Limit:     m.burst,
		Remaining: max(0, int(client.limiter.TokensAt(now))),
		Reset:     m.window / time.Duration(m.burst),
	}, nil
}

// sweep drops clients idle for longer than two windows. It runs at most once per window.
func (m *memoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}

	m.lastSweep = now

	for key, client := range m.clients {
		if now.Sub(client.lastAccess) > 2*m.window {
			delete(m.clients, key)
		}
	}
}

type redisCount struct {
	count int64
	ttl   time.Duration
}

// redisLimiter is a fixed window counter shared by every instance. Calls go through a
// circuit breaker so an unavailable redis is skipped instead of being hit on every request.
type redisLimiter struct {
	cache       cache.RedisCache
	breaker     *gobreaker.CircuitBreaker[redisCount]
	maxRequests int
	window      time.Duration
}

func newRedisLimiter(redisCache cache.RedisCache, maxRequests int, window time.Duration, maxFailures int, openFor time.Duration) *redisLimiter {
	breaker := gobreaker.NewCircuitBreaker[redisCount](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &redisLimiter{
		cache:       redisCache,
		breaker:     breaker,
		maxRequests: maxRequests,
		window:      window,
	}
}

func (l *redisLimiter) Backend() string {
	return config.RateLimiterBackendRedis
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := l.breaker.Execute(func() (redisCount, error) {
		count, ttl, err := l.cache.Increment(ctx, shared.BuildCacheKey(cacheKeyRateLimit, key), l.window)

		return redisCount{count: count, ttl: ttl}, err
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	return Decision{
		Allowed:   res.count <= int64(l.maxRequests),
		Limit:     l.maxRequests,
		Remaining: max(0, l.maxRequests-int(res.count)),
		Reset:     res.ttl,
	}, nil
}

// RateLimit rejects clients over their request budget with 429. A limiter error lets the
// request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	if !a.config.App.RateLimiter.Enable {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(a.getClientIP(r), a.getUA(r))

			decision, err := a.limiter.Allow(r.Context(), key)
			if err != nil {
				if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
					log.Warn().Err(err).Str("backend", a.limiter.Backend()).Msg("rate limiter unavailable, allowing request")
				}

				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(decision.Limit))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			reset := strconv.Itoa(resetSeconds(decision.Reset))
			w.Header().Set(constant.RequestHeaderRateLimitReset, reset)

			if !decision.Allowed {
				a.recorder.RecordRateLimited(a.limiter.Backend())
				w.Header().Set(constant.RequestHeaderRetryAfter, reset)
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resetSeconds rounds up to whole seconds, at least 1.
func resetSeconds(reset time.Duration) int {
	return max(1, int(math.Ceil(reset.Seconds())))
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, the first one is the client
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return r.RemoteAddr
}
