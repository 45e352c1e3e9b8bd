package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/services"
)

func filledCart() *models.Cart {
	return cartWith(models.CartItem{TicketTypeID: "inteira", Name: "Inteira", Price: 15000, Quantity: 2})
}

func paymentValues() url.Values {
	return url.Values{
		"cardNumber":     {"4111 1111 1111 1111"},
		"cardHolderName": {"Maria Silva"},
		"cardExpiry":     {"12/2030"},
		"cardCVV":        {"123"},
		"installments":   {"2"},
	}
}

func paymentForm() models.PaymentForm {
	return models.PaymentForm{
		CardNumber:     "4111 1111 1111 1111",
		CardHolderName: "Maria Silva",
		CardExpiry:     "12/2030",
		CardCVV:        "123",
		Installments:   2,
	}
}

func TestCheckoutHandler_CheckoutPage(t *testing.T) {
	t.Run("empty cart goes back to the ticket list", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("GetCart", mock.Anything, testCartID).Return(cartWith(), nil)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, new(MockCheckoutService), newTestStore(), testShop, nil).
			CheckoutPage(rec, newVisitorRequest(http.MethodGet, "/checkout", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("renders the payment form", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("GetCart", mock.Anything, testCartID).Return(filledCart(), nil)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, new(MockCheckoutService), newTestStore(), testShop, nil).
			CheckoutPage(rec, newVisitorRequest(http.MethodGet, "/checkout", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Dados do Pagamento")
		assert.Contains(t, body, "3x de R$ 100.00")
		assert.Contains(t, body, `<button type="submit" disabled>`)
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("cart store failure renders an error page", func(t *testing.T) {
		carts := new(MockCartService)
		carts.On("GetCart", mock.Anything, testCartID).Return(nil, errors.New("redis down"))

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, new(MockCheckoutService), newTestStore(), testShop, nil).
			CheckoutPage(rec, newVisitorRequest(http.MethodGet, "/checkout", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), checkoutLoadErrText)
	})
}

func TestCheckoutHandler_ProcessCheckout(t *testing.T) {
	matchRequest := mock.MatchedBy(func(req *services.SubmitOrderRequest) bool {
		return req.CustomerID == testCustomerID && req.CartID == testCartID && req.Form == paymentForm()
	})

	t.Run("success redirects to the confirmation", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)
		store := newTestStore()

		checkout := models.NewCheckout(paymentForm())
		require.NoError(t, checkout.Begin())
		checkout.Succeed()

		carts.On("GetCart", mock.Anything, testCartID).Return(filledCart(), nil)
		checkouts.On("Submit", mock.Anything, matchRequest).
			Return(&services.CheckoutResult{Checkout: checkout, Cart: cartWith()}, nil)

		handler := NewCheckoutHandler(carts, checkouts, store, testShop, nil)
		rec := httptest.NewRecorder()
		handler.ProcessCheckout(rec, newVisitorRequest(http.MethodPost, "/checkout", paymentValues()))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/checkout/complete", rec.Header().Get("Location"))
		checkouts.AssertExpectations(t)

		// the session now holds the completed step
		complete := newVisitorRequest(http.MethodGet, "/checkout/complete", nil)
		for _, cookie := range latestCookies(rec) {
			complete.AddCookie(cookie)
		}
		rec = httptest.NewRecorder()
		handler.CompletePage(rec, complete)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Pedido Confirmado!")
	})

	t.Run("htmx success uses HX-Redirect", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)

		checkout := models.NewCheckout(paymentForm())
		require.NoError(t, checkout.Begin())
		checkout.Succeed()

		carts.On("GetCart", mock.Anything, testCartID).Return(filledCart(), nil)
		checkouts.On("Submit", mock.Anything, matchRequest).
			Return(&services.CheckoutResult{Checkout: checkout, Cart: cartWith()}, nil)

		req := newVisitorRequest(http.MethodPost, "/checkout", paymentValues())
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, checkouts, newTestStore(), testShop, nil).ProcessCheckout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/checkout/complete", rec.Header().Get("HX-Redirect"))
	})

	t.Run("failure keeps the form and cart", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)
		cart := filledCart()

		checkout := models.NewCheckout(paymentForm())
		require.NoError(t, checkout.Begin())
		checkout.Fail(models.CheckoutFailureMessage)

		carts.On("GetCart", mock.Anything, testCartID).Return(cart, nil)
		checkouts.On("Submit", mock.Anything, matchRequest).
			Return(&services.CheckoutResult{Checkout: checkout, Cart: cart, Err: errors.New("status 402")}, nil)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, checkouts, newTestStore(), testShop, nil).
			ProcessCheckout(rec, newVisitorRequest(http.MethodPost, "/checkout", paymentValues()))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, models.CheckoutFailureMessage)
		assert.Contains(t, body, `value="4111 1111 1111 1111"`)
		assert.Contains(t, body, `value="Maria Silva"`)
		assert.Contains(t, body, `value="12/2030"`)
		assert.Contains(t, body, `value="123"`)
		assert.Contains(t, body, `<option value="2" selected>`)
		assert.Contains(t, body, "R$ 300.00")
	})

	t.Run("missing fields are reported without leaving the form", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)
		cart := filledCart()
		form := models.PaymentForm{CardNumber: "4111", Installments: 1}

		carts.On("GetCart", mock.Anything, testCartID).Return(cart, nil)
		checkouts.On("Submit", mock.Anything, mock.Anything).
			Return(&services.CheckoutResult{Checkout: models.NewCheckout(form), Cart: cart}, models.ErrMissingPaymentFields)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, checkouts, newTestStore(), testShop, nil).
			ProcessCheckout(rec, newVisitorRequest(http.MethodPost, "/checkout", url.Values{"cardNumber": {"4111"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), missingFieldsText)
		assert.Contains(t, rec.Body.String(), `value="4111"`)
	})

	t.Run("concurrent submission is refused", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)
		cart := filledCart()

		checkout := models.NewCheckout(paymentForm())
		carts.On("GetCart", mock.Anything, testCartID).Return(cart, nil)
		checkouts.On("Submit", mock.Anything, matchRequest).
			Return(&services.CheckoutResult{Checkout: checkout, Cart: cart}, models.ErrSubmissionInFlight)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, checkouts, newTestStore(), testShop, nil).
			ProcessCheckout(rec, newVisitorRequest(http.MethodPost, "/checkout", paymentValues()))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), inFlightText)
	})

	t.Run("empty cart never reaches the service", func(t *testing.T) {
		carts := new(MockCartService)
		checkouts := new(MockCheckoutService)
		carts.On("GetCart", mock.Anything, testCartID).Return(cartWith(), nil)

		rec := httptest.NewRecorder()
		NewCheckoutHandler(carts, checkouts, newTestStore(), testShop, nil).
			ProcessCheckout(rec, newVisitorRequest(http.MethodPost, "/checkout", paymentValues()))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		checkouts.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})
}

func TestCheckoutHandler_FormatField(t *testing.T) {
	handler := NewCheckoutHandler(new(MockCartService), new(MockCheckoutService), newTestStore(), testShop, nil)

	tests := []struct {
		name     string
		form     url.Values
		expected string
	}{
		{"card number from value", url.Values{"field": {"cardNumber"}, "value": {"41111111"}}, `value="4111 1111"`},
		{"card number from field input", url.Values{"field": {"cardNumber"}, "cardNumber": {"4111-1111-1111-1111-99"}}, `value="4111 1111 1111 1111"`},
		{"expiry", url.Values{"field": {"cardExpiry"}, "value": {"122030"}}, `value="12/2030"`},
		{"cvv", url.Values{"field": {"cardCVV"}, "value": {"12a34"}}, `value="123"`},
		{"holder name untouched", url.Values{"field": {"cardHolderName"}, "value": {"Ana 2"}}, `value="Ana 2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.FormatField(rec, newVisitorRequest(http.MethodPost, "/checkout/format", tt.form))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expected)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.FormatField(rec, newVisitorRequest(http.MethodPost, "/checkout/format", url.Values{"field": {"email"}}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCheckoutHandler_CompleteAndNewOrder(t *testing.T) {
	handler := NewCheckoutHandler(new(MockCartService), new(MockCheckoutService), newTestStore(), testShop, nil)

	rec := httptest.NewRecorder()
	handler.CompletePage(rec, newVisitorRequest(http.MethodGet, "/checkout/complete", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	handler.NewOrder(rec, newVisitorRequest(http.MethodPost, "/checkout/new", url.Values{}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
