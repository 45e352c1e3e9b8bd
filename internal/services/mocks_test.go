package services

import (
	"context"
	"sync"

	"ticket-storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockOrdersAPI struct {
	mock.Mock
}

func (m *mockOrdersAPI) ListTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TicketType), args.Error(1)
}

func (m *mockOrdersAPI) SubmitOrder(ctx context.Context, req *models.OrderRequest) (*SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SubmitResult), args.Error(1)
}

func (m *mockOrdersAPI) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListTicketTypes(ctx context.Context) ([]models.TicketType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TicketType), args.Error(1)
}

type recordingAuditor struct {
	mu       sync.Mutex
	attempts []*AttemptRecord
	err      error
}

func (a *recordingAuditor) RecordAttempt(ctx context.Context, attempt *AttemptRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attempts = append(a.attempts, attempt)
	return a.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.OrderSubmittedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.OrderSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

const (
	testEventID    = "1f116a2b-69b2-41e7-a362-55eb8ce5a2f4"
	testCustomerID = "d4e5f6a7-b8c9-4123-9def-456789012345"
)

func testTicketTypes() []models.TicketType {
	return []models.TicketType{
		{ID: "tt-full", Name: "Inteira", Price: models.Money(15000), AvailableQuantity: 5, Active: true},
		{ID: "tt-half", Name: "Meia", Price: models.Money(7500), AvailableQuantity: 10, Active: true},
		{ID: "tt-soldout", Name: "VIP", Price: models.Money(30000), AvailableQuantity: 0, Active: true},
		{ID: "tt-inactive", Name: "Lote 1", Price: models.Money(5000), AvailableQuantity: 10, Active: false},
	}
}
