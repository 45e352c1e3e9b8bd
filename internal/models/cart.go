package models

import "time"

// Cart is the session-local list of selected ticket types pending checkout.
// Items keep insertion order and hold at most one entry per ticket type.
type Cart struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem represents an item in the shopping cart. Name and Price are
// snapshots taken when the ticket type was first added.
type CartItem struct {
	TicketTypeID string `json:"ticket_type_id"`
	Name         string `json:"name"`
	Price        Money  `json:"price"`
	Quantity     int    `json:"quantity"`
}

// Subtotal returns price times quantity
func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// NewCart creates an empty cart for an event
func NewCart(id, eventID string) *Cart {
	return &Cart{ID: id, EventID: eventID}
}

// Add increments the quantity of an existing entry or appends a new one with
// the ticket type's current name and price. No upper bound is applied here;
// callers clamp against available inventory.
func (c *Cart) Add(ticketType TicketType, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].TicketTypeID == ticketType.ID {
			c.Items[i].Quantity += quantity
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		TicketTypeID: ticketType.ID,
		Name:         ticketType.Name,
		Price:        ticketType.Price,
		Quantity:     quantity,
	})
	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of an entry. A quantity of zero (or less)
// removes the entry. Updating an id that is not in the cart is a no-op.
func (c *Cart) UpdateQuantity(ticketTypeID string, quantity int) {
	if quantity <= 0 {
		c.Remove(ticketTypeID)
		return
	}

	for i := range c.Items {
		if c.Items[i].TicketTypeID == ticketTypeID {
			c.Items[i].Quantity = quantity
			c.touch()
			return
		}
	}
}

// Remove deletes the entry for a ticket type if present
func (c *Cart) Remove(ticketTypeID string) {
	for i := range c.Items {
		if c.Items[i].TicketTypeID == ticketTypeID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return
		}
	}
}

// Item returns the entry for a ticket type, if any
func (c *Cart) Item(ticketTypeID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.TicketTypeID == ticketTypeID {
			return item, true
		}
	}
	return CartItem{}, false
}

// TotalPrice returns the sum of price * quantity over all entries
func (c *Cart) TotalPrice() Money {
	var total Money
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalItems returns the sum of quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty returns true if the cart holds no entries
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear removes every entry
func (c *Cart) Clear() {
	c.Items = nil
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
