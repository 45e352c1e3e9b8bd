package services

import (
	"context"
	"errors"
	"fmt"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/repositories"

	"go.uber.org/zap"
)

// CartService applies cart operations to persisted session carts
type CartService struct {
	repo    repositories.CartRepository
	catalog CatalogServiceInterface
	eventID string
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(repo repositories.CartRepository, catalog CatalogServiceInterface, eventID string, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		repo:    repo,
		catalog: catalog,
		eventID: eventID,
		logger:  logger.Named("cart"),
	}
}

// GetCart loads a cart, returning an empty one when none is stored yet
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.repo.Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			return models.NewCart(cartID, s.eventID), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddToCart adds a ticket type using the current inventory. The requested
// quantity is clamped to what is available; inactive or sold out types are
// refused.
func (s *CartService) AddToCart(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}

	ticketTypes, err := s.catalog.ListTicketTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket types: %w", err)
	}

	ticketType, err := models.FindTicketType(ticketTypes, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if !ticketType.CanPurchase() {
		return nil, models.ErrTicketUnavailable
	}

	quantity = models.ClampQuantity(quantity, ticketType.AvailableQuantity)
	cart, err := s.update(ctx, cartID, func(cart *models.Cart) error {
		return cart.Add(*ticketType, quantity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("ticket added to cart",
		zap.String("cart_id", cartID),
		zap.String("ticket_type_id", ticketTypeID),
		zap.Int("quantity", quantity))

	return cart, nil
}

// UpdateQuantity sets an entry's quantity; zero or less removes it
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
	return s.update(ctx, cartID, func(cart *models.Cart) error {
		cart.UpdateQuantity(ticketTypeID, quantity)
		return nil
	})
}

// RemoveFromCart drops an entry
func (s *CartService) RemoveFromCart(ctx context.Context, cartID, ticketTypeID string) (*models.Cart, error) {
	return s.update(ctx, cartID, func(cart *models.Cart) error {
		cart.Remove(ticketTypeID)
		return nil
	})
}

// update changes the cart atomically. Errors from mutate come back as is.
func (s *CartService) update(ctx context.Context, cartID string, mutate repositories.CartMutation) (*models.Cart, error) {
	var mutateErr error
	cart, err := s.repo.Update(ctx, cartID, s.eventID, func(cart *models.Cart) error {
		mutateErr = mutate(cart)
		return mutateErr
	})
	if mutateErr != nil {
		return nil, mutateErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// ClearCart deletes the stored cart
func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
