package repositories

import (
	"context"

	"ticket-storefront/internal/models"
)

// CartMutation changes a loaded cart in place. Returning an error discards
// the change.
type CartMutation func(cart *models.Cart) error

// CartRepository persists session carts keyed by cart id
type CartRepository interface {
	Get(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
	// Update applies mutate to the stored cart, or to an empty cart of
	// eventID when none exists, and saves the result. Concurrent updates of
	// the same cart never overwrite each other.
	Update(ctx context.Context, id, eventID string, mutate CartMutation) (*models.Cart, error)
}

func cloneCart(cart *models.Cart) *models.Cart {
	clone := *cart
	if cart.Items != nil {
		clone.Items = make([]models.CartItem, len(cart.Items))
		copy(clone.Items, cart.Items)
	}
	return &clone
}
