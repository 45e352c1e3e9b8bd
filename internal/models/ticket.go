package models

import "strings"

// TicketStatus is the status of an issued ticket as reported by the orders API.
type TicketStatus string

// TicketActive is the status of a ticket that can still be used at the gate.
const TicketActive TicketStatus = "ACTIVE"

// TicketType represents a purchasable category of admission for the event.
// It is read-only on this side; inventory is owned by the orders API.
type TicketType struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Price             Money  `json:"price"`
	AvailableQuantity int    `json:"availableQuantity"`
	Active            bool   `json:"active"`
}

// CanPurchase returns true if the ticket type may be added to a cart
func (tt TicketType) CanPurchase() bool {
	return tt.Active && tt.AvailableQuantity > 0
}

// IsSoldOut returns true if no units are left
func (tt TicketType) IsSoldOut() bool {
	return tt.AvailableQuantity <= 0
}

// Ticket is an issued admission credential bound to one order.
type Ticket struct {
	ID             string       `json:"id"`
	TicketTypeName string       `json:"ticketTypeName"`
	CustomerName   string       `json:"customerName"`
	EventName      string       `json:"eventName"`
	StartDateEvent Timestamp    `json:"startDateEvent"`
	Status         TicketStatus `json:"status"`
	QRCodeURL      string       `json:"qrCodeUrl"`
	ValidatedAt    *Timestamp   `json:"validatedAt,omitempty"`
}

// IsActive returns true if the ticket is active
func (t Ticket) IsActive() bool {
	return strings.EqualFold(string(t.Status), string(TicketActive))
}

// StatusLabel returns the display label for the ticket status. Unknown
// statuses are shown as received.
func (t Ticket) StatusLabel() string {
	if t.IsActive() {
		return "Ativo"
	}
	return string(t.Status)
}

// HasQRCode reports whether the API provided a QR code image URL.
func (t Ticket) HasQRCode() bool {
	return strings.TrimSpace(t.QRCodeURL) != ""
}

// FindTicketType returns the ticket type with the given id from a listing.
func FindTicketType(ticketTypes []TicketType, id string) (*TicketType, error) {
	for i := range ticketTypes {
		if ticketTypes[i].ID == id {
			return &ticketTypes[i], nil
		}
	}
	return nil, ErrTicketTypeNotFound
}
