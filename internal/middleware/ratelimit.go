package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether one more request for key fits the budget. When
// it does not, retryAfter tells how long to wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimiter is an in-memory sliding window limiter
type RateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow records an attempt for key if it is under the limit
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := rl.validAttempts(key, now)

	if len(valid) >= rl.maxAttempts {
		rl.attempts[key] = valid
		return false, valid[0].Add(rl.window).Sub(now), nil
	}

	rl.attempts[key] = append(valid, now)
	return true, 0, nil
}

func (rl *RateLimiter) validAttempts(key string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	var valid []time.Time
	for _, attempt := range rl.attempts[key] {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	return valid
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes old entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mutex.Lock()
		now := rl.now()
		for key := range rl.attempts {
			if valid := rl.validAttempts(key, now); len(valid) == 0 {
				delete(rl.attempts, key)
			} else {
				rl.attempts[key] = valid
			}
		}
		rl.mutex.Unlock()
	}
}

const rateLimitKeyPrefix = "storefront:ratelimit:"

// RedisRateLimiter is a fixed window limiter shared by all replicas
type RedisRateLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// RateLimitKey returns the Redis key counting attempts for key
func RateLimitKey(key string) string {
	return rateLimitKeyPrefix + key
}

// Allow increments the window counter for key
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := RateLimitKey(key)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count attempt: %w", err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	if count <= int64(rl.maxAttempts) {
		return true, 0, nil
	}

	ttl, err := rl.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	return false, ttl, nil
}

// SubmissionRateLimit limits POST requests per visitor, falling back to the
// client address when no visitor is known. Limiter errors let the request
// through.
func SubmissionRateLimit(limiter Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := "ip:" + clientIP(r)
			if visitor := GetVisitor(r.Context()); visitor != nil {
				key = "customer:" + visitor.CustomerID
			}

			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				seconds := int(retryAfter.Round(time.Second).Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeProblem(w, r, http.StatusTooManyRequests,
					fmt.Sprintf("Muitas tentativas. Aguarde %d segundos e tente novamente.", seconds))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
