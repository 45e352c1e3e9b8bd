package services

import (
	"context"

	"ticket-storefront/internal/models"
)

// CatalogServiceInterface defines the interface for ticket type lookups
type CatalogServiceInterface interface {
	ListTicketTypes(ctx context.Context) ([]models.TicketType, error)
}

// CartServiceInterface defines the interface for session cart operations
type CartServiceInterface interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddToCart(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, cartID, ticketTypeID string) (*models.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

// CheckoutServiceInterface defines the interface for order submission
type CheckoutServiceInterface interface {
	Submit(ctx context.Context, req *SubmitOrderRequest) (*CheckoutResult, error)
}

// OrderServiceInterface defines the interface for order and ticket views
type OrderServiceInterface interface {
	ListOrders(ctx context.Context, customerID string) ([]OrderView, error)
	GetOrder(ctx context.Context, customerID, orderID string) (*OrderView, error)
	MyTickets(ctx context.Context, customerID string) ([]models.Ticket, error)
}

// CheckoutAuditor records order submissions
type CheckoutAuditor interface {
	RecordAttempt(ctx context.Context, attempt *AttemptRecord) error
}

// OrderEventPublisher announces order submissions to other systems
type OrderEventPublisher interface {
	Publish(ctx context.Context, event *models.OrderSubmittedEvent) error
	Close() error
}

// SubmissionGuard allows a single in-flight submission per key
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
