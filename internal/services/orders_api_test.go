package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OrdersAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOrdersAPIClient(OrdersAPIConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, nil)
}

func TestOrdersAPIClient_ListTicketTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/events/"+testEventID+"/tickets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"tt-1","name":"Inteira","description":"Acesso geral","price":150,"availableQuantity":12,"active":true},
			{"id":"tt-2","name":"Meia","description":"","price":"75.50","availableQuantity":0,"active":false}
		]`)
	})

	ticketTypes, err := client.ListTicketTypes(context.Background(), testEventID)
	require.NoError(t, err)
	require.Len(t, ticketTypes, 2)

	assert.Equal(t, "tt-1", ticketTypes[0].ID)
	assert.Equal(t, models.Money(15000), ticketTypes[0].Price)
	assert.Equal(t, 12, ticketTypes[0].AvailableQuantity)
	assert.True(t, ticketTypes[0].CanPurchase())

	assert.Equal(t, models.Money(7550), ticketTypes[1].Price)
	assert.False(t, ticketTypes[1].CanPurchase())
}

func TestOrdersAPIClient_SubmitOrder(t *testing.T) {
	var received map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ReceiveOrderFunction", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	})

	req := &models.OrderRequest{
		CustomerID: testCustomerID,
		EventID:    testEventID,
		Items:      []models.OrderItem{{TicketTypeID: "tt-1", Quantity: 2}},
		Payment: models.PaymentPayload{
			CardNumber:     "4111111111111111",
			CardHolderName: "Maria Silva",
			CardExpiry:     "12/2030",
			CardCVV:        "123",
			Installments:   3,
		},
	}

	result, err := client.SubmitOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, result.StatusCode)

	assert.Equal(t, testCustomerID, received["customerId"])
	assert.Equal(t, testEventID, received["eventId"])
	items := received["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "tt-1", items[0].(map[string]interface{})["ticketTypeId"])
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])
	payment := received["payment"].(map[string]interface{})
	assert.Equal(t, "4111111111111111", payment["cardNumber"])
	assert.Equal(t, "Maria Silva", payment["cardHolderName"])
	assert.Equal(t, "12/2030", payment["cardExpiry"])
	assert.Equal(t, "123", payment["cardCVV"])
	assert.Equal(t, float64(3), payment["installments"])
}

func TestOrdersAPIClient_SubmitOrderRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	})

	_, err := client.SubmitOrder(context.Background(), &models.OrderRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Body)
}

func TestOrdersAPIClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewOrdersAPIClient(OrdersAPIConfig{BaseURL: baseURL, Timeout: time.Second}, nil)
	_, err := client.SubmitOrder(context.Background(), &models.OrderRequest{})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestOrdersAPIClient_ListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/"+testCustomerID+"/orders", r.URL.Path)
		io.WriteString(w, `[{
			"id":"o-1","eventName":"Expoflora","paymentStatus":"Authorized","totalValue":300.5,
			"installments":2,"createdAt":"2025-09-01T10:30:00.1234567","transactionId":"tx-9",
			"clientName":"Maria","clientEmail":null,
			"tickets":[{"id":"t-1","ticketTypeName":"Inteira","customerName":"Maria","eventName":"Expoflora",
				"startDateEvent":"2025-09-10T09:00:00","status":"ACTIVE","qrCodeUrl":"https://qr.example/t-1","validatedAt":null}]
		}]`)
	})

	orders, err := client.ListOrders(context.Background(), testCustomerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, models.Money(30050), order.TotalValue)
	assert.Equal(t, models.StatusApproved, order.Status().Category)
	assert.Equal(t, "Não informado", order.ClientEmailOrFallback())
	require.Len(t, order.Tickets, 1)
	assert.Equal(t, "Ativo", order.Tickets[0].StatusLabel())
	assert.Nil(t, order.Tickets[0].ValidatedAt)
}

func TestOrdersAPIClient_ListOrdersError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	orders, err := client.ListOrders(context.Background(), testCustomerID)
	assert.Nil(t, orders)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "list orders", apiErr.Operation)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestOrdersAPIClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"not":"a list"`)
	})

	_, err := client.ListTicketTypes(context.Background(), testEventID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}
