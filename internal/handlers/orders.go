package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/services"
	"ticket-storefront/web/templates/pages"
)

const (
	ordersLoadErrorText   = "Não foi possível carregar seus pedidos. Tente novamente."
	ticketsFetchErrorText = "Não foi possível carregar seus ingressos. Tente novamente."
	orderNotFoundText     = "Pedido não encontrado."
)

// OrdersHandler serves the my-orders and my-tickets pages
type OrdersHandler struct {
	orders services.OrderServiceInterface
	shop   pages.Storefront
	logger *zap.Logger
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orders services.OrderServiceInterface, shop pages.Storefront, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{
		orders: orders,
		shop:   shop,
		logger: logger.Named("orders"),
	}
}

// OrdersPage lists the customer's orders. Rows named by repeated "open"
// query parameters are rendered expanded.
func (h *OrdersHandler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	open := models.ParseExpandedSet(r.URL.Query())
	data := pages.OrdersPageData{Storefront: h.shop, Open: open}

	views, err := h.orders.ListOrders(r.Context(), visitor.CustomerID)
	if requestGone(r) {
		return
	}
	if err != nil {
		h.logger.Error("failed to list orders", zap.String("customer_id", visitor.CustomerID), zap.Error(err))
		data.LoadError = ordersLoadErrorText
		render(w, r, h.logger, http.StatusBadGateway, pages.OrdersPage(data))
		return
	}

	data.Orders = make([]pages.OrderRow, 0, len(views))
	for _, view := range views {
		data.Orders = append(data.Orders, h.orderRow(view, open.Has(view.ID)))
	}

	render(w, r, h.logger, http.StatusOK, pages.OrdersPage(data))
}

// OrderDetailPage shows a single order with its tickets
func (h *OrdersHandler) OrderDetailPage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	orderID := chi.URLParam(r, "id")
	data := pages.OrderDetailPageData{Storefront: h.shop}

	view, err := h.orders.GetOrder(r.Context(), visitor.CustomerID, orderID)
	if requestGone(r) {
		return
	}
	switch {
	case err == nil:
	case errors.Is(err, models.ErrOrderNotFound):
		render(w, r, h.logger, http.StatusNotFound, pages.ErrorPage(h.shop, models.PageMyOrders, orderNotFoundText, "/orders"))
		return
	default:
		h.logger.Error("failed to load order",
			zap.String("customer_id", visitor.CustomerID),
			zap.String("order_id", orderID),
			zap.Error(err))
		data.LoadError = ordersLoadErrorText
		render(w, r, h.logger, http.StatusBadGateway, pages.OrderDetailPage(data))
		return
	}

	row := h.orderRow(*view, true)
	data.Order = &row
	render(w, r, h.logger, http.StatusOK, pages.OrderDetailPage(data))
}

// MyTicketsPage lists the tickets of the customer's approved orders
func (h *OrdersHandler) MyTicketsPage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	data := pages.MyTicketsPageData{Storefront: h.shop}

	tickets, err := h.orders.MyTickets(r.Context(), visitor.CustomerID)
	if requestGone(r) {
		return
	}
	if err != nil {
		h.logger.Error("failed to list tickets", zap.String("customer_id", visitor.CustomerID), zap.Error(err))
		data.LoadError = ticketsFetchErrorText
		render(w, r, h.logger, http.StatusBadGateway, pages.MyTicketsPage(data))
		return
	}

	data.Tickets = tickets
	render(w, r, h.logger, http.StatusOK, pages.MyTicketsPage(data))
}

func (h *OrdersHandler) orderRow(view services.OrderView, expanded bool) pages.OrderRow {
	return pages.OrderRow{
		Currency: h.shop.Currency,
		Order:    view.Order,
		Status:   view.StatusInfo,
		Expanded: expanded,
	}
}
