package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/mock"

	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/models"
	"ticket-storefront/internal/services"
	"ticket-storefront/web/templates/pages"
)

const (
	testCustomerID = "d4e5f6a7-b8c9-4123-9def-456789012345"
	testCartID     = "7b0e4d4c-58a4-4f7e-9a0e-0f1c2d3e4f50"
	testEventID    = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
)

var testShop = pages.Storefront{Brand: "ExpoFlora", Currency: "R$"}

// MockCatalogService for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTicketTypes(ctx context.Context) ([]models.TicketType, error) {
	args := m.Called(ctx)
	ticketTypes, _ := args.Get(0).([]models.TicketType)
	return ticketTypes, args.Error(1)
}

// MockCartService for testing
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	args := m.Called(ctx, cartID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *MockCartService) AddToCart(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, cartID, ticketTypeID, quantity)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
	args := m.Called(ctx, cartID, ticketTypeID, quantity)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, cartID, ticketTypeID string) (*models.Cart, error) {
	args := m.Called(ctx, cartID, ticketTypeID)
	cart, _ := args.Get(0).(*models.Cart)
	return cart, args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockCheckoutService for testing
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, req *services.SubmitOrderRequest) (*services.CheckoutResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*services.CheckoutResult)
	return result, args.Error(1)
}

// MockOrderService for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ListOrders(ctx context.Context, customerID string) ([]services.OrderView, error) {
	args := m.Called(ctx, customerID)
	views, _ := args.Get(0).([]services.OrderView)
	return views, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, customerID, orderID string) (*services.OrderView, error) {
	args := m.Called(ctx, customerID, orderID)
	view, _ := args.Get(0).(*services.OrderView)
	return view, args.Error(1)
}

func (m *MockOrderService) MyTickets(ctx context.Context, customerID string) ([]models.Ticket, error) {
	args := m.Called(ctx, customerID)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func newTestStore() sessions.Store {
	return sessions.NewCookieStore([]byte("handlers-test-secret-0123456789ab"))
}

func testTicketTypes() []models.TicketType {
	return []models.TicketType{
		{ID: "inteira", Name: "Inteira", Price: 15000, AvailableQuantity: 120, Active: true},
		{ID: "meia", Name: "Meia-entrada", Price: 7500, AvailableQuantity: 80, Active: true},
		{ID: "vip", Name: "VIP", Price: 32050, AvailableQuantity: 0, Active: true},
	}
}

func cartWith(items ...models.CartItem) *models.Cart {
	cart := models.NewCart(testCartID, testEventID)
	cart.Items = append(cart.Items, items...)
	return cart
}

// newVisitorRequest builds a request already bound to the test visitor
func newVisitorRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ctx := middleware.SetVisitorContext(req.Context(), &middleware.Visitor{
		CustomerID: testCustomerID,
		CartID:     testCartID,
	})
	return req.WithContext(ctx)
}

// latestCookies keeps the last Set-Cookie per name; a handler may save the
// session more than once per request.
func latestCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, cookie := range rec.Result().Cookies() {
		if _, seen := byName[cookie.Name]; !seen {
			order = append(order, cookie.Name)
		}
		byName[cookie.Name] = cookie
	}
	cookies := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookies = append(cookies, byName[name])
	}
	return cookies
}
