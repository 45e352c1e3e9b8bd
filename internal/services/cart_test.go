package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCartService(t *testing.T) (*CartService, *mockCatalog) {
	t.Helper()
	catalog := &mockCatalog{}
	catalog.On("ListTicketTypes", mock.Anything).Return(testTicketTypes(), nil)
	return NewCartService(repositories.NewMemoryCartRepository(), catalog, testEventID, nil), catalog
}

func TestCartService_GetCartEmpty(t *testing.T) {
	service, _ := newTestCartService(t)

	cart, err := service.GetCart(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, testEventID, cart.EventID)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestCartService(t)

	cart, err := service.AddToCart(ctx, "cart-1", "tt-full", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems())

	cart, err = service.AddToCart(ctx, "cart-1", "tt-half", 1)
	require.NoError(t, err)
	assert.Equal(t, models.Money(37500), cart.TotalPrice())

	stored, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, stored.Items)
}

func TestCartService_AddToCartClampsToAvailable(t *testing.T) {
	service, _ := newTestCartService(t)

	cart, err := service.AddToCart(context.Background(), "cart-1", "tt-full", 50)
	require.NoError(t, err)

	item, ok := cart.Item("tt-full")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
}

func TestCartService_AddToCartRejects(t *testing.T) {
	tests := []struct {
		name         string
		ticketTypeID string
		quantity     int
		wantErr      error
	}{
		{name: "sold out", ticketTypeID: "tt-soldout", quantity: 1, wantErr: models.ErrTicketUnavailable},
		{name: "inactive", ticketTypeID: "tt-inactive", quantity: 1, wantErr: models.ErrTicketUnavailable},
		{name: "unknown", ticketTypeID: "tt-nope", quantity: 1, wantErr: models.ErrTicketTypeNotFound},
		{name: "zero quantity", ticketTypeID: "tt-full", quantity: 0, wantErr: models.ErrInvalidQuantity},
		{name: "negative quantity", ticketTypeID: "tt-full", quantity: -3, wantErr: models.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestCartService(t)

			_, err := service.AddToCart(context.Background(), "cart-1", tt.ticketTypeID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)

			cart, err := service.GetCart(context.Background(), "cart-1")
			require.NoError(t, err)
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestCartService_AddToCartCatalogError(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListTicketTypes", mock.Anything).Return(nil, errors.New("unreachable"))
	service := NewCartService(repositories.NewMemoryCartRepository(), catalog, testEventID, nil)

	_, err := service.AddToCart(context.Background(), "cart-1", "tt-full", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load ticket types")
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestCartService(t)

	_, err := service.AddToCart(ctx, "cart-1", "tt-full", 1)
	require.NoError(t, err)
	_, err = service.AddToCart(ctx, "cart-1", "tt-half", 1)
	require.NoError(t, err)

	cart, err := service.UpdateQuantity(ctx, "cart-1", "tt-half", 4)
	require.NoError(t, err)
	assert.Equal(t, models.Money(45000), cart.TotalPrice())

	cart, err = service.UpdateQuantity(ctx, "cart-1", "tt-half", 0)
	require.NoError(t, err)
	_, ok := cart.Item("tt-half")
	assert.False(t, ok)

	cart, err = service.RemoveFromCart(ctx, "cart-1", "tt-full")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_ClearCart(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestCartService(t)

	_, err := service.AddToCart(ctx, "cart-1", "tt-full", 1)
	require.NoError(t, err)

	require.NoError(t, service.ClearCart(ctx, "cart-1"))

	cart, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_ConcurrentChangesAreNotLost(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestCartService(t)

	_, err := service.AddToCart(ctx, "cart-1", "tt-full", 1)
	require.NoError(t, err)

	const adds = 20
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.AddToCart(ctx, "cart-1", "tt-half", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := service.RemoveFromCart(ctx, "cart-1", "tt-full")
		assert.NoError(t, err)
	}()
	wg.Wait()

	cart, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	_, hasFull := cart.Item("tt-full")
	assert.False(t, hasFull)
	half, ok := cart.Item("tt-half")
	require.True(t, ok)
	assert.Equal(t, adds, half.Quantity)
}
