package models

import "time"

// CheckoutOutcome is the result of one order submission
type CheckoutOutcome string

const (
	// OutcomeSucceeded means the orders API accepted the order
	OutcomeSucceeded CheckoutOutcome = "succeeded"
	// OutcomeRejected means the orders API answered with a non-2xx status
	OutcomeRejected CheckoutOutcome = "rejected"
	// OutcomeFailed means the request never got an answer
	OutcomeFailed CheckoutOutcome = "failed"
)

// CheckoutAttempt is an audit record of an order submission. Card data is
// kept only as a salted fingerprint and the last four digits.
type CheckoutAttempt struct {
	ID              int64           `json:"id" db:"id"`
	CustomerID      string          `json:"customer_id" db:"customer_id"`
	EventID         string          `json:"event_id" db:"event_id"`
	CartID          string          `json:"cart_id" db:"cart_id"`
	ItemCount       int             `json:"item_count" db:"item_count"`
	TotalCents      int64           `json:"total_cents" db:"total_cents"`
	Installments    int             `json:"installments" db:"installments"`
	CardFingerprint string          `json:"card_fingerprint" db:"card_fingerprint"`
	CardLastFour    string          `json:"card_last_four" db:"card_last_four"`
	Outcome         CheckoutOutcome `json:"outcome" db:"outcome"`
	UpstreamStatus  int             `json:"upstream_status" db:"upstream_status"`
	ErrorMessage    string          `json:"error_message" db:"error_message"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// CheckoutAttemptCreateRequest represents the data needed to record an attempt
type CheckoutAttemptCreateRequest struct {
	CustomerID      string
	EventID         string
	CartID          string
	ItemCount       int
	TotalCents      int64
	Installments    int
	CardFingerprint string
	CardLastFour    string
	Outcome         CheckoutOutcome
	UpstreamStatus  int
	ErrorMessage    string
}

// OrderSubmittedEvent is published after every order submission
type OrderSubmittedEvent struct {
	CustomerID   string          `json:"customer_id"`
	EventID      string          `json:"event_id"`
	CartID       string          `json:"cart_id"`
	Items        []OrderItem     `json:"items"`
	TotalCents   int64           `json:"total_cents"`
	Installments int             `json:"installments"`
	Outcome      CheckoutOutcome `json:"outcome"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
