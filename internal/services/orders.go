package services

import (
	"context"

	"ticket-storefront/internal/models"
)

// OrderView is an order prepared for display
type OrderView struct {
	models.Order
	StatusInfo models.OrderStatus
}

// OrderService reads a customer's orders and tickets from the orders API
type OrderService struct {
	api OrdersAPI
}

// NewOrderService creates a new order service
func NewOrderService(api OrdersAPI) *OrderService {
	return &OrderService{api: api}
}

// ListOrders returns the customer's orders in the order the API sent them
func (s *OrderService) ListOrders(ctx context.Context, customerID string) ([]OrderView, error) {
	orders, err := s.api.ListOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, OrderView{Order: order, StatusInfo: order.Status()})
	}
	return views, nil
}

// GetOrder finds one of the customer's orders. The orders API has no
// single-order route, so the full list is fetched.
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID string) (*OrderView, error) {
	views, err := s.ListOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for i := range views {
		if views[i].ID == orderID {
			return &views[i], nil
		}
	}
	return nil, models.ErrOrderNotFound
}

// MyTickets returns the tickets of every approved order
func (s *OrderService) MyTickets(ctx context.Context, customerID string) ([]models.Ticket, error) {
	orders, err := s.api.ListOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	for _, order := range orders {
		if !order.Status().IsApproved() {
			continue
		}
		tickets = append(tickets, order.Tickets...)
	}
	return tickets, nil
}
