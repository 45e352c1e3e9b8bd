package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/models"
	"ticket-storefront/internal/services"
	"ticket-storefront/web/templates/pages"
)

const (
	ticketsLoadErrorText = "Não foi possível carregar os ingressos. Tente novamente."
	cartErrorText        = "Não foi possível atualizar o carrinho. Tente novamente."
)

// StorefrontHandler serves the ticket list and the cart
type StorefrontHandler struct {
	catalog   services.CatalogServiceInterface
	carts     services.CartServiceInterface
	store     sessions.Store
	shop      pages.Storefront
	eventName string
	logger    *zap.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(
	catalog services.CatalogServiceInterface,
	carts services.CartServiceInterface,
	store sessions.Store,
	shop pages.Storefront,
	eventName string,
	logger *zap.Logger,
) *StorefrontHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontHandler{
		catalog:   catalog,
		carts:     carts,
		store:     store,
		shop:      shop,
		eventName: eventName,
		logger:    logger.Named("storefront"),
	}
}

// TicketsPage renders the ticket list with the cart summary
func (h *StorefrontHandler) TicketsPage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), visitor.CartID)
	if err != nil {
		if requestGone(r) {
			return
		}
		h.logger.Error("failed to load cart", zap.String("cart_id", visitor.CartID), zap.Error(err))
		cart = models.NewCart(visitor.CartID, "")
	}

	current := loadShell(h.store, r)
	if shell := current.Navigate(models.PageBuyTickets).BackToTickets(); shell != current {
		if err := saveShell(h.store, w, r, shell); err != nil {
			h.logger.Error("failed to save session", zap.Error(err))
		}
	}

	h.renderTickets(w, r, http.StatusOK, cart, "")
}

// AddToCart adds tickets to the session cart
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.changeCart(w, r, func(cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
		return h.carts.AddToCart(r.Context(), cartID, ticketTypeID, quantity)
	})
}

// UpdateCartItem sets the quantity of a cart entry; zero removes it
func (h *StorefrontHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	h.changeCart(w, r, func(cartID, ticketTypeID string, quantity int) (*models.Cart, error) {
		return h.carts.UpdateQuantity(r.Context(), cartID, ticketTypeID, quantity)
	})
}

// RemoveFromCart drops a ticket type from the cart
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.changeCart(w, r, func(cartID, ticketTypeID string, _ int) (*models.Cart, error) {
		return h.carts.RemoveFromCart(r.Context(), cartID, ticketTypeID)
	})
}

type cartChange func(cartID, ticketTypeID string, quantity int) (*models.Cart, error)

func (h *StorefrontHandler) changeCart(w http.ResponseWriter, r *http.Request, change cartChange) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ticketTypeID := strings.TrimSpace(r.FormValue("ticket_type_id"))
	if ticketTypeID == "" {
		http.Error(w, "Invalid ticket type ID", http.StatusBadRequest)
		return
	}

	quantity := 0
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}
		quantity = parsed
	}

	cart, err := change(visitor.CartID, ticketTypeID, quantity)
	if requestGone(r) {
		return
	}
	if err != nil {
		h.logger.Warn("cart change refused",
			zap.String("cart_id", visitor.CartID),
			zap.String("ticket_type_id", ticketTypeID),
			zap.Int("quantity", quantity),
			zap.Error(err))

		current, loadErr := h.carts.GetCart(r.Context(), visitor.CartID)
		if loadErr != nil {
			current = models.NewCart(visitor.CartID, "")
		}
		h.respondCart(w, r, http.StatusUnprocessableEntity, current, cartErrorMessage(err))
		return
	}

	if !middleware.IsHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.respondCart(w, r, http.StatusOK, cart, "")
}

// respondCart answers HTMX requests with the cart fragment and regular
// requests with the whole ticket page. HTMX only swaps 2xx responses, so
// fragment errors are sent with 200.
func (h *StorefrontHandler) respondCart(w http.ResponseWriter, r *http.Request, status int, cart *models.Cart, message string) {
	if middleware.IsHTMXRequest(r) {
		render(w, r, h.logger, http.StatusOK, pages.CartSummary(pages.CartSummaryData{
			Currency: h.shop.Currency,
			Cart:     cart,
			Error:    message,
		}))
		return
	}
	h.renderTickets(w, r, status, cart, message)
}

func (h *StorefrontHandler) renderTickets(w http.ResponseWriter, r *http.Request, status int, cart *models.Cart, cartError string) {
	data := pages.TicketsPageData{
		Storefront: h.shop,
		EventName:  h.eventName,
		Cart: pages.CartSummaryData{
			Currency: h.shop.Currency,
			Cart:     cart,
			Error:    cartError,
		},
	}

	ticketTypes, err := h.catalog.ListTicketTypes(r.Context())
	if requestGone(r) {
		return
	}
	if err != nil {
		h.logger.Error("failed to list ticket types", zap.Error(err))
		data.LoadError = ticketsLoadErrorText
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}
	data.TicketTypes = ticketTypes

	render(w, r, h.logger, status, pages.TicketsPage(data))
}

func cartErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrTicketUnavailable):
		return "Este ingresso não está disponível no momento."
	case errors.Is(err, models.ErrTicketTypeNotFound):
		return "Ingresso não encontrado."
	case errors.Is(err, models.ErrInvalidQuantity):
		return "Informe uma quantidade válida."
	default:
		return cartErrorText
	}
}
