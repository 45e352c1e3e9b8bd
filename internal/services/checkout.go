package services

import (
	"context"
	"errors"
	"time"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/utils"

	"go.uber.org/zap"
)

// sideChannelTimeout bounds audit and event writes after a submission
const sideChannelTimeout = 3 * time.Second

// SubmitOrderRequest carries one checkout submission
type SubmitOrderRequest struct {
	CustomerID string
	CartID     string
	Form       models.PaymentForm
}

// CheckoutResult is the state after a submission. When the orders API
// refused or could not be reached, Checkout is back in editing with Error
// set and Err holds the cause.
type CheckoutResult struct {
	Checkout *models.Checkout
	Cart     *models.Cart
	Err      error
}

// Succeeded reports whether the order was accepted
func (r *CheckoutResult) Succeeded() bool {
	return r.Checkout != nil && r.Checkout.State == models.CheckoutCompleted
}

// CheckoutService submits orders to the orders API
type CheckoutService struct {
	api       OrdersAPI
	carts     CartServiceInterface
	guard     SubmissionGuard
	auditor   CheckoutAuditor
	publisher OrderEventPublisher
	eventID   string
	logger    *zap.Logger
}

// CheckoutOption customizes a CheckoutService
type CheckoutOption func(*CheckoutService)

// WithAuditor records every submission
func WithAuditor(auditor CheckoutAuditor) CheckoutOption {
	return func(s *CheckoutService) { s.auditor = auditor }
}

// WithPublisher announces every submission
func WithPublisher(publisher OrderEventPublisher) CheckoutOption {
	return func(s *CheckoutService) { s.publisher = publisher }
}

// WithGuard replaces the in-process submission guard
func WithGuard(guard SubmissionGuard) CheckoutOption {
	return func(s *CheckoutService) { s.guard = guard }
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(api OrdersAPI, carts CartServiceInterface, eventID string, logger *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CheckoutService{
		api:       api,
		carts:     carts,
		guard:     NewMemorySubmissionGuard(),
		auditor:   NoopAuditor{},
		publisher: NoopPublisher{},
		eventID:   eventID,
		logger:    logger.Named("checkout"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizePaymentForm re-applies the input masks to every card field
func NormalizePaymentForm(form models.PaymentForm) models.PaymentForm {
	form.CardNumber = utils.FormatCardNumber(form.CardNumber)
	form.CardExpiry = utils.FormatExpiry(form.CardExpiry)
	form.CardCVV = utils.FormatCVV(form.CardCVV)
	form.Installments = models.ClampInstallments(form.Installments)
	return form
}

// Submit validates and sends an order. Empty carts, missing card fields and
// concurrent submissions are refused before the orders API is called. A
// successful submission always clears the cart, even if ctx is cancelled
// meanwhile.
func (s *CheckoutService) Submit(ctx context.Context, req *SubmitOrderRequest) (*CheckoutResult, error) {
	checkout := models.NewCheckout(NormalizePaymentForm(req.Form))

	cart, err := s.carts.GetCart(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	result := &CheckoutResult{Checkout: checkout, Cart: cart}

	if cart.IsEmpty() {
		return result, models.ErrEmptyCart
	}

	if err := checkout.Begin(); err != nil {
		return result, err
	}

	release, err := s.guard.Acquire(ctx, req.CartID)
	if err != nil {
		checkout.Fail("")
		return result, err
	}
	defer release()

	// reload under the guard: a submission holding it may have cleared the cart
	cart, err = s.carts.GetCart(ctx, req.CartID)
	if err != nil {
		checkout.Fail("")
		return result, err
	}
	result.Cart = cart
	if cart.IsEmpty() {
		checkout.Fail("")
		return result, models.ErrEmptyCart
	}

	orderReq := &models.OrderRequest{
		CustomerID: req.CustomerID,
		EventID:    s.eventID,
		Items:      models.OrderItemsFromCart(cart),
		Payment:    checkout.Form.Payload(),
	}

	attempt := &AttemptRecord{
		CustomerID:   req.CustomerID,
		EventID:      s.eventID,
		CartID:       req.CartID,
		ItemCount:    cart.TotalItems(),
		Total:        cart.TotalPrice(),
		Installments: orderReq.Payment.Installments,
		CardNumber:   orderReq.Payment.CardNumber,
	}

	submitResult, apiErr := s.api.SubmitOrder(ctx, orderReq)
	switch {
	case apiErr == nil:
		attempt.Outcome = models.OutcomeSucceeded
		attempt.UpstreamStatus = submitResult.StatusCode
	default:
		attempt.Outcome = models.OutcomeFailed
		attempt.Err = apiErr
		var statusErr *APIError
		if errors.As(apiErr, &statusErr) {
			attempt.Outcome = models.OutcomeRejected
			attempt.UpstreamStatus = statusErr.StatusCode
		}
	}

	s.recordSideChannels(ctx, attempt, orderReq.Items)

	if apiErr != nil {
		s.logger.Warn("order submission failed",
			zap.String("customer_id", req.CustomerID),
			zap.String("cart_id", req.CartID),
			zap.String("card_last_four", utils.CardLastFour(orderReq.Payment.CardNumber)),
			zap.Error(apiErr))
		checkout.Fail(models.CheckoutFailureMessage)
		result.Err = apiErr
		return result, nil
	}

	checkout.Succeed()

	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideChannelTimeout)
	defer cancel()
	if err := s.carts.ClearCart(clearCtx, req.CartID); err != nil {
		s.logger.Error("failed to clear cart after order", zap.String("cart_id", req.CartID), zap.Error(err))
	}
	cart.Clear()

	s.logger.Info("order placed",
		zap.String("customer_id", req.CustomerID),
		zap.String("cart_id", req.CartID),
		zap.Int("items", attempt.ItemCount),
		zap.String("total", attempt.Total.String()),
		zap.Int("installments", attempt.Installments))

	return result, nil
}

func (s *CheckoutService) recordSideChannels(ctx context.Context, attempt *AttemptRecord, items []models.OrderItem) {
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideChannelTimeout)
	defer cancel()

	if err := s.auditor.RecordAttempt(sideCtx, attempt); err != nil {
		s.logger.Warn("failed to record checkout attempt", zap.Error(err))
	}

	event := &models.OrderSubmittedEvent{
		CustomerID:   attempt.CustomerID,
		EventID:      attempt.EventID,
		CartID:       attempt.CartID,
		Items:        items,
		TotalCents:   attempt.Total.Cents(),
		Installments: attempt.Installments,
		Outcome:      attempt.Outcome,
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(sideCtx, event); err != nil {
		s.logger.Warn("failed to publish order event", zap.Error(err))
	}
}
