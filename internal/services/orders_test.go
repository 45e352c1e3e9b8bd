package services

import (
	"context"
	"errors"
	"testing"

	"ticket-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o-1", PaymentStatus: models.PaymentAuthorized, Tickets: []models.Ticket{{ID: "t-1"}, {ID: "t-2"}}},
		{ID: "o-2", PaymentStatus: models.PaymentDenied, Tickets: []models.Ticket{{ID: "t-3"}}},
		{ID: "o-3", PaymentStatus: "APPROVED", Tickets: []models.Ticket{{ID: "t-4"}}},
		{ID: "o-4", PaymentStatus: "OnHold"},
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	api := &mockOrdersAPI{}
	api.On("ListOrders", mock.Anything, testCustomerID).Return(sampleOrders(), nil)
	service := NewOrderService(api)

	views, err := service.ListOrders(context.Background(), testCustomerID)
	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.Equal(t, "o-1", views[0].ID)
	assert.Equal(t, models.StatusApproved, views[0].StatusInfo.Category)
	assert.Equal(t, models.StatusFailed, views[1].StatusInfo.Category)
	assert.Equal(t, models.StatusApproved, views[2].StatusInfo.Category)
	assert.Equal(t, models.StatusUnknown, views[3].StatusInfo.Category)
	assert.Equal(t, "OnHold", views[3].StatusInfo.Label())
}

func TestOrderService_ListOrdersError(t *testing.T) {
	api := &mockOrdersAPI{}
	api.On("ListOrders", mock.Anything, testCustomerID).Return(nil, errors.New("unreachable"))
	service := NewOrderService(api)

	views, err := service.ListOrders(context.Background(), testCustomerID)
	assert.Error(t, err)
	assert.Nil(t, views)
}

func TestOrderService_GetOrder(t *testing.T) {
	api := &mockOrdersAPI{}
	api.On("ListOrders", mock.Anything, testCustomerID).Return(sampleOrders(), nil)
	service := NewOrderService(api)

	view, err := service.GetOrder(context.Background(), testCustomerID, "o-2")
	require.NoError(t, err)
	assert.Equal(t, "o-2", view.ID)
	assert.True(t, view.StatusInfo.IsFailed())

	_, err = service.GetOrder(context.Background(), testCustomerID, "missing")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestOrderService_MyTickets(t *testing.T) {
	api := &mockOrdersAPI{}
	api.On("ListOrders", mock.Anything, testCustomerID).Return(sampleOrders(), nil)
	service := NewOrderService(api)

	tickets, err := service.MyTickets(context.Background(), testCustomerID)
	require.NoError(t, err)

	ids := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}
	assert.Equal(t, []string{"t-1", "t-2", "t-4"}, ids)
}
