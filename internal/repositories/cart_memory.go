package repositories

import (
	"context"
	"sync"

	"ticket-storefront/internal/models"
)

// MemoryCartRepository keeps carts in process memory. Carts are copied on
// the way in and out so callers never share backing arrays.
type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

// NewMemoryCartRepository creates an empty in-memory cart repository
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string]*models.Cart)}
}

// Get returns a copy of the stored cart or ErrCartNotFound
func (r *MemoryCartRepository) Get(ctx context.Context, id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

// Save stores a copy of the cart
func (r *MemoryCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.ID] = cloneCart(cart)
	return nil
}

// Update runs mutate while holding the repository lock
func (r *MemoryCartRepository) Update(ctx context.Context, id, eventID string, mutate CartMutation) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := models.NewCart(id, eventID)
	if stored, ok := r.carts[id]; ok {
		cart = cloneCart(stored)
	}
	if err := mutate(cart); err != nil {
		return nil, err
	}

	r.carts[id] = cloneCart(cart)
	return cart, nil
}

// Delete removes a cart; deleting an unknown id is not an error
func (r *MemoryCartRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, id)
	return nil
}

// Len reports how many carts are stored
func (r *MemoryCartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
