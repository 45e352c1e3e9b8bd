package models

// Page is a top-level section of the storefront
type Page string

const (
	PageBuyTickets Page = "buy-tickets"
	PageMyOrders   Page = "my-orders"
	PageMyTickets  Page = "my-tickets"
)

// Step is the position within the buy-tickets page
type Step string

const (
	StepTickets   Step = "tickets"
	StepCheckout  Step = "checkout"
	StepCompleted Step = "completed"
)

// ParseStep reads a stored step, defaulting to StepTickets
func ParseStep(s string) Step {
	switch Step(s) {
	case StepCheckout, StepCompleted:
		return Step(s)
	default:
		return StepTickets
	}
}

// Shell is the navigation state of a browser session. Changes go through
// the transition methods only.
type Shell struct {
	Page Page
	Step Step
}

// NewShell returns the initial navigation state
func NewShell() Shell {
	return Shell{Page: PageBuyTickets, Step: StepTickets}
}

// Navigate switches page. Returning to buy-tickets from a finished order
// starts over at the ticket list.
func (s Shell) Navigate(page Page) Shell {
	s.Page = page
	if page == PageBuyTickets && s.Step == StepCompleted {
		s.Step = StepTickets
	}
	return s
}

// ProceedToCheckout moves from the ticket list to checkout. The cart must
// not be empty.
func (s Shell) ProceedToCheckout(cart *Cart) (Shell, error) {
	if cart == nil || cart.IsEmpty() {
		return s, ErrEmptyCart
	}
	if s.Step == StepCompleted {
		return s, ErrInvalidStepChange
	}
	s.Page = PageBuyTickets
	s.Step = StepCheckout
	return s, nil
}

// BackToTickets leaves checkout without submitting
func (s Shell) BackToTickets() Shell {
	s.Page = PageBuyTickets
	s.Step = StepTickets
	return s
}

// CompleteOrder records a successful submission
func (s Shell) CompleteOrder() (Shell, error) {
	if s.Step != StepCheckout {
		return s, ErrInvalidStepChange
	}
	s.Step = StepCompleted
	return s, nil
}

// StartNewOrder leaves the completion screen for a fresh ticket list
func (s Shell) StartNewOrder() Shell {
	s.Page = PageBuyTickets
	s.Step = StepTickets
	return s
}
