package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/utils"

	"github.com/google/uuid"
)

// DeclinedCardSuffix makes MockOrdersAPI reject a submission, so the failure
// path can be exercised without a real payment provider.
const DeclinedCardSuffix = "0000"

// MockOrdersAPI provides an in-memory orders API for demo mode and tests.
// Accepted orders reduce inventory and are issued tickets immediately.
type MockOrdersAPI struct {
	mu          sync.Mutex
	eventName   string
	ticketTypes []models.TicketType
	orders      map[string][]models.Order
	submissions []models.OrderRequest
	now         func() time.Time
}

// NewMockOrdersAPI creates a mock API seeded with the given ticket types
func NewMockOrdersAPI(eventName string, ticketTypes []models.TicketType) *MockOrdersAPI {
	seeded := make([]models.TicketType, len(ticketTypes))
	copy(seeded, ticketTypes)
	return &MockOrdersAPI{
		eventName:   eventName,
		ticketTypes: seeded,
		orders:      make(map[string][]models.Order),
		now:         time.Now,
	}
}

// DemoTicketTypes is the catalog served in demo mode
func DemoTicketTypes() []models.TicketType {
	return []models.TicketType{
		{ID: "a3c1d6b2-1f0e-4c1a-9a57-0c4f7f1b2e01", Name: "Inteira", Description: "Acesso a todos os dias da exposição", Price: models.Money(15000), AvailableQuantity: 120, Active: true},
		{ID: "a3c1d6b2-1f0e-4c1a-9a57-0c4f7f1b2e02", Name: "Meia-entrada", Description: "Estudantes e maiores de 60 anos", Price: models.Money(7500), AvailableQuantity: 80, Active: true},
		{ID: "a3c1d6b2-1f0e-4c1a-9a57-0c4f7f1b2e03", Name: "VIP", Description: "Área exclusiva e estacionamento", Price: models.Money(32050), AvailableQuantity: 0, Active: true},
		{ID: "a3c1d6b2-1f0e-4c1a-9a57-0c4f7f1b2e04", Name: "Pré-venda", Description: "Lote encerrado", Price: models.Money(9999), AvailableQuantity: 40, Active: false},
	}
}

// ListTicketTypes returns the current catalog
func (m *MockOrdersAPI) ListTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticketTypes := make([]models.TicketType, len(m.ticketTypes))
	copy(ticketTypes, m.ticketTypes)
	return ticketTypes, nil
}

// SubmitOrder accepts an order unless the card ends in DeclinedCardSuffix
// or the inventory cannot cover it
func (m *MockOrdersAPI) SubmitOrder(ctx context.Context, req *models.OrderRequest) (*SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions = append(m.submissions, *req)

	if strings.HasSuffix(utils.DigitsOnly(req.Payment.CardNumber), DeclinedCardSuffix) {
		return nil, &APIError{Operation: "submit order", StatusCode: http.StatusPaymentRequired, Body: "card declined"}
	}

	var total models.Money
	for _, item := range req.Items {
		ticketType := m.findLocked(item.TicketTypeID)
		if ticketType == nil || !ticketType.CanPurchase() || ticketType.AvailableQuantity < item.Quantity {
			return nil, &APIError{Operation: "submit order", StatusCode: http.StatusConflict, Body: "insufficient inventory"}
		}
		total = total.Add(ticketType.Price.Mul(item.Quantity))
	}

	now := m.now().UTC()
	transactionID := fmt.Sprintf("mock_txn_%d", now.UnixNano())
	order := models.Order{
		ID:            uuid.NewString(),
		EventName:     m.eventName,
		PaymentStatus: models.PaymentAuthorized,
		TotalValue:    total,
		Installments:  req.Payment.Installments,
		CreatedAt:     models.Timestamp{Time: now},
		TransactionID: &transactionID,
		ClientName:    req.Payment.CardHolderName,
	}

	for _, item := range req.Items {
		ticketType := m.findLocked(item.TicketTypeID)
		ticketType.AvailableQuantity -= item.Quantity
		for i := 0; i < item.Quantity; i++ {
			ticketID := uuid.NewString()
			order.Tickets = append(order.Tickets, models.Ticket{
				ID:             ticketID,
				TicketTypeName: ticketType.Name,
				CustomerName:   req.Payment.CardHolderName,
				EventName:      m.eventName,
				StartDateEvent: models.Timestamp{Time: now.AddDate(0, 1, 0)},
				Status:         models.TicketActive,
				QRCodeURL:      "https://api.qrserver.com/v1/create-qr-code/?size=240x240&data=" + url.QueryEscape(ticketID),
			})
		}
	}

	m.orders[req.CustomerID] = append(m.orders[req.CustomerID], order)
	return &SubmitResult{StatusCode: http.StatusAccepted}, nil
}

// ListOrders returns the customer's orders, oldest first
func (m *MockOrdersAPI) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]models.Order, len(m.orders[customerID]))
	copy(orders, m.orders[customerID])
	return orders, nil
}

// AddOrder seeds an order for a customer
func (m *MockOrdersAPI) AddOrder(customerID string, order models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[customerID] = append(m.orders[customerID], order)
}

// Submissions returns every order request received so far
func (m *MockOrdersAPI) Submissions() []models.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	submissions := make([]models.OrderRequest, len(m.submissions))
	copy(submissions, m.submissions)
	return submissions
}

func (m *MockOrdersAPI) findLocked(id string) *models.TicketType {
	for i := range m.ticketTypes {
		if m.ticketTypes[i].ID == id {
			return &m.ticketTypes[i]
		}
	}
	return nil
}
