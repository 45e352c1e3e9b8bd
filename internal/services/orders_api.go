package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ticket-storefront/internal/models"

	"go.uber.org/zap"
)

// OrdersAPI is the remote system that owns inventory, payments, orders and
// ticket issuance.
type OrdersAPI interface {
	ListTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error)
	SubmitOrder(ctx context.Context, req *models.OrderRequest) (*SubmitResult, error)
	ListOrders(ctx context.Context, customerID string) ([]models.Order, error)
}

// OrdersAPIConfig represents the orders API client configuration
type OrdersAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SubmitResult is the outcome of an accepted order submission
type SubmitResult struct {
	StatusCode int
}

// APIError is returned when the orders API answers with a non-2xx status
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orders API %s: unexpected status %d", e.Operation, e.StatusCode)
}

// maxErrorBody bounds how much of an error response is kept for logging
const maxErrorBody = 2048

// OrdersAPIClient talks to the orders API over HTTP
type OrdersAPIClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewOrdersAPIClient creates a new orders API client
func NewOrdersAPIClient(config OrdersAPIConfig, logger *zap.Logger) *OrdersAPIClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrdersAPIClient{
		baseURL: config.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("orders_api"),
	}
}

// ListTicketTypes fetches the ticket types on sale for an event
func (c *OrdersAPIClient) ListTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	path := "/api/events/" + url.PathEscape(eventID) + "/tickets"

	var ticketTypes []models.TicketType
	if err := c.getJSON(ctx, "list tickets", path, &ticketTypes); err != nil {
		return nil, err
	}
	return ticketTypes, nil
}

// ListOrders fetches every order placed by a customer
func (c *OrdersAPIClient) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	path := "/api/users/" + url.PathEscape(customerID) + "/orders"

	var orders []models.Order
	if err := c.getJSON(ctx, "list orders", path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SubmitOrder posts an order. Any 2xx answer counts as success; the body is
// ignored because the API documents none.
func (c *OrdersAPIClient) SubmitOrder(ctx context.Context, req *models.OrderRequest) (*SubmitResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ReceiveOrderFunction", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("order submission failed",
			zap.String("customer_id", req.CustomerID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to send order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("order submission rejected",
			zap.String("customer_id", req.CustomerID),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return nil, &APIError{Operation: "submit order", StatusCode: resp.StatusCode, Body: string(body)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	c.logger.Info("order submitted",
		zap.String("customer_id", req.CustomerID),
		zap.Int("items", len(req.Items)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return &SubmitResult{StatusCode: resp.StatusCode}, nil
}

func (c *OrdersAPIClient) getJSON(ctx context.Context, operation, path string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed", zap.String("operation", operation), zap.Error(err))
		return fmt.Errorf("failed to %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("unexpected status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}
