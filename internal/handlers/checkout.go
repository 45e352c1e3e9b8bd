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
	"ticket-storefront/internal/utils"
	"ticket-storefront/web/templates/pages"
)

const (
	missingFieldsText   = "Preencha todos os dados do cartão."
	inFlightText        = "Seu pedido já está sendo processado. Aguarde."
	checkoutLoadErrText = "Não foi possível carregar o carrinho. Tente novamente."
)

// CheckoutHandler handles the payment step and order submission
type CheckoutHandler struct {
	carts    services.CartServiceInterface
	checkout services.CheckoutServiceInterface
	store    sessions.Store
	shop     pages.Storefront
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	carts services.CartServiceInterface,
	checkout services.CheckoutServiceInterface,
	store sessions.Store,
	shop pages.Storefront,
	logger *zap.Logger,
) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkout,
		store:    store,
		shop:     shop,
		logger:   logger.Named("checkout"),
	}
}

// CheckoutPage renders the payment form. An empty cart goes back to the
// ticket list.
func (h *CheckoutHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	cart, ok := h.loadCheckoutCart(w, r, visitor)
	if !ok {
		return
	}

	checkout := models.NewCheckout(models.PaymentForm{Installments: models.MinInstallments})
	render(w, r, h.logger, http.StatusOK, pages.CheckoutPage(pages.NewCheckoutPageData(h.shop, cart, checkout)))
}

// ProcessCheckout submits the order. Success redirects to the confirmation
// screen; failure re-renders the form as entered with the error message.
func (h *CheckoutHandler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requestVisitor(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	cart, ok := h.loadCheckoutCart(w, r, visitor)
	if !ok {
		return
	}

	form := paymentFormFromRequest(r)
	result, err := h.checkout.Submit(r.Context(), &services.SubmitOrderRequest{
		CustomerID: visitor.CustomerID,
		CartID:     visitor.CartID,
		Form:       form,
	})

	switch {
	case err == nil:
	case errors.Is(err, models.ErrEmptyCart):
		handleRedirect(w, r, "/", http.StatusSeeOther)
		return
	case errors.Is(err, models.ErrMissingPaymentFields):
		h.handleCheckoutError(w, r, http.StatusUnprocessableEntity, cart, result, form, missingFieldsText)
		return
	case errors.Is(err, models.ErrSubmissionInFlight):
		h.handleCheckoutError(w, r, http.StatusConflict, cart, result, form, inFlightText)
		return
	default:
		if requestGone(r) {
			return
		}
		h.logger.Error("checkout failed", zap.String("cart_id", visitor.CartID), zap.Error(err))
		h.handleCheckoutError(w, r, http.StatusInternalServerError, cart, result, form, models.CheckoutFailureMessage)
		return
	}

	if !result.Succeeded() {
		if requestGone(r) {
			return
		}
		h.handleCheckoutError(w, r, http.StatusUnprocessableEntity, result.Cart, result, form, result.Checkout.Error)
		return
	}

	shell, err := loadShell(h.store, r).CompleteOrder()
	if err != nil {
		h.logger.Warn("order completed outside the checkout step", zap.Error(err))
	}
	if err := saveShell(h.store, w, r, shell); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
	}

	handleRedirect(w, r, "/checkout/complete", http.StatusSeeOther)
}

// FormatField masks a single payment field, for HTMX keystroke swaps
func (h *CheckoutHandler) FormatField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	field := r.FormValue("field")
	switch field {
	case utils.FieldCardNumber, utils.FieldCardHolderName, utils.FieldCardExpiry, utils.FieldCardCVV:
	default:
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	value := r.FormValue("value")
	if _, ok := r.Form["value"]; !ok {
		value = r.FormValue(field)
	}

	render(w, r, h.logger, http.StatusOK, pages.FormattedField(field, utils.FormatField(field, value)))
}

// CompletePage shows the order confirmation after a successful submission
func (h *CheckoutHandler) CompletePage(w http.ResponseWriter, r *http.Request) {
	if loadShell(h.store, r).Step != models.StepCompleted {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, h.logger, http.StatusOK, pages.CheckoutCompletePage(h.shop))
}

// NewOrder leaves the confirmation screen for a fresh ticket list
func (h *CheckoutHandler) NewOrder(w http.ResponseWriter, r *http.Request) {
	shell := loadShell(h.store, r).StartNewOrder()
	if err := saveShell(h.store, w, r, shell); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
	}
	handleRedirect(w, r, "/", http.StatusSeeOther)
}

// loadCheckoutCart loads the visitor's cart and moves the session to the
// checkout step. Empty carts are redirected to the ticket list.
func (h *CheckoutHandler) loadCheckoutCart(w http.ResponseWriter, r *http.Request, visitor *middleware.Visitor) (*models.Cart, bool) {
	cart, err := h.carts.GetCart(r.Context(), visitor.CartID)
	if requestGone(r) {
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to load cart", zap.String("cart_id", visitor.CartID), zap.Error(err))
		render(w, r, h.logger, http.StatusInternalServerError,
			pages.ErrorPage(h.shop, models.PageBuyTickets, checkoutLoadErrText, "/checkout"))
		return nil, false
	}

	current := loadShell(h.store, r).Navigate(models.PageBuyTickets)
	shell, err := current.ProceedToCheckout(cart)
	if err != nil {
		handleRedirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	if shell != current {
		if err := saveShell(h.store, w, r, shell); err != nil {
			h.logger.Error("failed to save session", zap.Error(err))
		}
	}
	return cart, true
}

// handleCheckoutError re-renders the checkout page keeping what was typed
func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, r *http.Request, status int, cart *models.Cart, result *services.CheckoutResult, form models.PaymentForm, message string) {
	var checkout *models.Checkout
	if result != nil && result.Checkout != nil {
		checkout = result.Checkout
	} else {
		checkout = models.NewCheckout(services.NormalizePaymentForm(form))
	}
	if checkout.State != models.CheckoutEditing || checkout.Error == "" {
		checkout.Fail(message)
	}
	if result != nil && result.Cart != nil {
		cart = result.Cart
	}

	render(w, r, h.logger, status, pages.CheckoutPage(pages.NewCheckoutPageData(h.shop, cart, checkout)))
}

func paymentFormFromRequest(r *http.Request) models.PaymentForm {
	installments, err := strconv.Atoi(strings.TrimSpace(r.FormValue(utils.FieldInstallments)))
	if err != nil {
		installments = models.MinInstallments
	}
	return models.PaymentForm{
		CardNumber:     r.FormValue(utils.FieldCardNumber),
		CardHolderName: r.FormValue(utils.FieldCardHolderName),
		CardExpiry:     r.FormValue(utils.FieldCardExpiry),
		CardCVV:        r.FormValue(utils.FieldCardCVV),
		Installments:   installments,
	}
}
