package models

import (
	"strings"
)

// PaymentStatus is the raw payment status string reported by the orders API.
type PaymentStatus string

// Payment statuses known to the orders API
const (
	PaymentAuthorized        PaymentStatus = "Authorized"
	PaymentConfirmed         PaymentStatus = "PaymentConfirmed"
	PaymentPending           PaymentStatus = "Pending"
	PaymentScheduled         PaymentStatus = "Scheduled"
	PaymentDenied            PaymentStatus = "Denied"
	PaymentVoided            PaymentStatus = "Voided"
	PaymentRefunded          PaymentStatus = "Refunded"
	PaymentAborted           PaymentStatus = "Aborted"
	PaymentFailed            PaymentStatus = "Failed"
	PaymentNotFinished       PaymentStatus = "NotFinished"
	legacyPaymentApproved    PaymentStatus = "APPROVED"
	legacyPaymentPaid        PaymentStatus = "PAID"
	legacyPaymentPending     PaymentStatus = "PENDING"
	legacyPaymentFailed      PaymentStatus = "FAILED"
	legacyPaymentNotFinished PaymentStatus = "NOTFINISHED"
)

// StatusCategory is the closed set of payment outcomes shown to customers.
type StatusCategory int

const (
	// StatusUnknown marks a status this storefront does not recognise; the
	// raw label is displayed as received.
	StatusUnknown StatusCategory = iota
	StatusApproved
	StatusPending
	StatusFailed
	StatusNotFinished
)

var statusCategories = map[PaymentStatus]StatusCategory{
	PaymentAuthorized:        StatusApproved,
	PaymentConfirmed:         StatusApproved,
	PaymentPending:           StatusPending,
	PaymentScheduled:         StatusPending,
	PaymentDenied:            StatusFailed,
	PaymentVoided:            StatusFailed,
	PaymentRefunded:          StatusFailed,
	PaymentAborted:           StatusFailed,
	PaymentFailed:            StatusFailed,
	PaymentNotFinished:       StatusNotFinished,
	legacyPaymentApproved:    StatusApproved,
	legacyPaymentPaid:        StatusApproved,
	legacyPaymentPending:     StatusPending,
	legacyPaymentFailed:      StatusFailed,
	legacyPaymentNotFinished: StatusNotFinished,
}

// OrderStatus is a payment status resolved to its display category
type OrderStatus struct {
	Category StatusCategory
	Raw      PaymentStatus
}

// MapPaymentStatus resolves a raw payment status. It never fails: statuses
// outside the known set come back as StatusUnknown carrying the raw value.
func MapPaymentStatus(raw PaymentStatus) OrderStatus {
	if category, ok := statusCategories[PaymentStatus(strings.TrimSpace(string(raw)))]; ok {
		return OrderStatus{Category: category, Raw: raw}
	}
	return OrderStatus{Category: StatusUnknown, Raw: raw}
}

// Label returns the customer-facing status text
func (s OrderStatus) Label() string {
	switch s.Category {
	case StatusApproved:
		return "Aprovado"
	case StatusPending:
		return "Pendente"
	case StatusFailed:
		return "Falhou"
	case StatusNotFinished:
		return "Não finalizado"
	default:
		return string(s.Raw)
	}
}

// Tone returns a style hint for the status badge
func (s OrderStatus) Tone() string {
	switch s.Category {
	case StatusApproved:
		return "success"
	case StatusPending:
		return "warning"
	case StatusFailed:
		return "danger"
	default:
		return "neutral"
	}
}

// IsApproved returns true for paid or authorized orders
func (s OrderStatus) IsApproved() bool {
	return s.Category == StatusApproved
}

// IsFailed returns true for orders whose payment did not go through
func (s OrderStatus) IsFailed() bool {
	return s.Category == StatusFailed
}

// Order is a submitted purchase as reported by the orders API.
type Order struct {
	ID            string        `json:"id"`
	EventName     string        `json:"eventName"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	TotalValue    Money         `json:"totalValue"`
	Installments  int           `json:"installments"`
	CreatedAt     Timestamp     `json:"createdAt"`
	TransactionID *string       `json:"transactionId,omitempty"`
	ClientName    string        `json:"clientName"`
	ClientEmail   *string       `json:"clientEmail,omitempty"`
	Tickets       []Ticket      `json:"tickets"`
}

const (
	notInformedText = "Não informado"
	processingText  = "Processando"
)

// Status returns the mapped payment status
func (o Order) Status() OrderStatus {
	return MapPaymentStatus(o.PaymentStatus)
}

// ClientEmailOrFallback returns the client email or a fallback text
func (o Order) ClientEmailOrFallback() string {
	if o.ClientEmail == nil || strings.TrimSpace(*o.ClientEmail) == "" {
		return notInformedText
	}
	return *o.ClientEmail
}

// TransactionIDOrFallback returns the transaction id or a fallback text
func (o Order) TransactionIDOrFallback() string {
	if o.TransactionID == nil || strings.TrimSpace(*o.TransactionID) == "" {
		return processingText
	}
	return *o.TransactionID
}

// HasTransactionID reports whether the payment provider assigned an id yet
func (o Order) HasTransactionID() bool {
	return o.TransactionID != nil && strings.TrimSpace(*o.TransactionID) != ""
}

// HasTickets reports whether tickets have been issued for the order
func (o Order) HasTickets() bool {
	return len(o.Tickets) > 0
}

// InstallmentsOrDefault returns the installment count, at least 1
func (o Order) InstallmentsOrDefault() int {
	if o.Installments < 1 {
		return 1
	}
	return o.Installments
}

// OrderItem is one line of an order submission
type OrderItem struct {
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}

// PaymentPayload is the card data sent with an order submission
type PaymentPayload struct {
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	CardExpiry     string `json:"cardExpiry"`
	CardCVV        string `json:"cardCVV"`
	Installments   int    `json:"installments"`
}

// OrderRequest is the body of an order submission
type OrderRequest struct {
	CustomerID string         `json:"customerId"`
	EventID    string         `json:"eventId"`
	Items      []OrderItem    `json:"items"`
	Payment    PaymentPayload `json:"payment"`
}

// OrderItemsFromCart lists the cart entries in submission form
func OrderItemsFromCart(cart *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, OrderItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
		})
	}
	return items
}
