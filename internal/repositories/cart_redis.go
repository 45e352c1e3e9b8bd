package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-storefront/internal/models"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "storefront:cart:"

	maxCartUpdateAttempts = 5
)

// ErrCartContention is returned when a cart keeps changing underneath an update
var ErrCartContention = errors.New("cart is being modified concurrently")

var (
	cartEncMode cbor.EncMode
	cartDecMode cbor.DecMode
)

func init() {
	var err error
	cartEncMode, err = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	cartDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// RedisCartRepository stores CBOR-encoded carts in Redis with a sliding TTL
type RedisCartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCartRepository creates a Redis-backed cart repository. Every save
// resets the key's expiry to ttl.
func NewRedisCartRepository(client redis.UniversalClient, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// CartKey returns the Redis key holding a cart
func CartKey(id string) string {
	return cartKeyPrefix + id
}

// EncodeCart serializes a cart the way it is stored in Redis
func EncodeCart(cart *models.Cart) ([]byte, error) {
	data, err := cartEncMode.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// DecodeCart parses a stored cart
func DecodeCart(data []byte) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := cartDecMode.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return cart, nil
}

// Get loads a cart or returns ErrCartNotFound
func (r *RedisCartRepository) Get(ctx context.Context, id string) (*models.Cart, error) {
	return loadCart(ctx, r.client, id)
}

func loadCart(ctx context.Context, client redis.Cmdable, id string) (*models.Cart, error) {
	data, err := client.Get(ctx, CartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return DecodeCart(data)
}

// Save writes the cart and refreshes its TTL
func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	data, err := EncodeCart(cart)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, CartKey(cart.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Update applies mutate inside WATCH/MULTI so a concurrent write to the same
// cart aborts and retries this one instead of being lost
func (r *RedisCartRepository) Update(ctx context.Context, id, eventID string, mutate CartMutation) (*models.Cart, error) {
	key := CartKey(id)

	var updated *models.Cart
	txf := func(tx *redis.Tx) error {
		cart, err := loadCart(ctx, tx, id)
		if errors.Is(err, models.ErrCartNotFound) {
			cart = models.NewCart(id, eventID)
		} else if err != nil {
			return err
		}

		if err := mutate(cart); err != nil {
			return err
		}

		data, err := EncodeCart(cart)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}

		updated = cart
		return nil
	}

	for attempt := 0; attempt < maxCartUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, ErrCartContention
}

// Delete removes a cart
func (r *RedisCartRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, CartKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
