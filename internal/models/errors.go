package models

import "errors"

// Common errors used throughout the application
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrTicketUnavailable    = errors.New("ticket type is not available for purchase")
	ErrCartNotFound         = errors.New("cart not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingPaymentFields = errors.New("card number, holder name, expiry and CVV are required")
	ErrSubmissionInFlight   = errors.New("an order submission is already in progress")
	ErrCheckoutNotEditable  = errors.New("checkout is not accepting changes")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStepChange    = errors.New("invalid storefront step transition")
)
