package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ticket-storefront/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MemorySubmissionGuard tracks in-flight submissions inside one process
type MemorySubmissionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMemorySubmissionGuard creates an empty guard
func NewMemorySubmissionGuard() *MemorySubmissionGuard {
	return &MemorySubmissionGuard{inFlight: make(map[string]struct{})}
}

// Acquire marks key as in flight or returns ErrSubmissionInFlight
func (g *MemorySubmissionGuard) Acquire(ctx context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.inFlight[key]; held {
		return nil, models.ErrSubmissionInFlight
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}

const guardKeyPrefix = "storefront:submit:"

// releaseScript deletes the lock only if it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisSubmissionGuard shares the in-flight marker across storefront
// replicas. The marker expires after ttl in case a holder dies.
type RedisSubmissionGuard struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewRedisSubmissionGuard creates a Redis-backed guard
func NewRedisSubmissionGuard(client *redis.Client, ttl time.Duration) *RedisSubmissionGuard {
	return &RedisSubmissionGuard{
		client:   client,
		ttl:      ttl,
		newToken: func() string { return uuid.NewString() },
	}
}

// GuardKey returns the Redis key marking a submission in flight
func GuardKey(key string) string {
	return guardKeyPrefix + key
}

// Acquire sets the marker with SET NX PX
func (g *RedisSubmissionGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := g.newToken()
	redisKey := GuardKey(key)

	ok, err := g.client.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission guard: %w", err)
	}
	if !ok {
		return nil, models.ErrSubmissionInFlight
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, g.client, []string{redisKey}, token).Err()
		})
	}, nil
}
