package models

import "strings"

// Installment bounds offered at checkout
const (
	MinInstallments = 1
	MaxInstallments = 3
)

// CheckoutFailureMessage is shown for any rejected or failed submission.
// The orders API has no error body contract, so no detail is available.
const CheckoutFailureMessage = "Erro ao processar pedido. Tente novamente."

// PaymentForm holds the card fields as displayed, already masked.
type PaymentForm struct {
	CardNumber     string
	CardHolderName string
	CardExpiry     string
	CardCVV        string
	Installments   int
}

// HasRequiredFields reports whether all four card fields are filled in
func (f PaymentForm) HasRequiredFields() bool {
	return strings.TrimSpace(f.CardNumber) != "" &&
		strings.TrimSpace(f.CardHolderName) != "" &&
		strings.TrimSpace(f.CardExpiry) != "" &&
		strings.TrimSpace(f.CardCVV) != ""
}

// Payload converts the form into the wire representation. Grouping spaces
// are stripped from the card number.
func (f PaymentForm) Payload() PaymentPayload {
	return PaymentPayload{
		CardNumber:     strings.Join(strings.Fields(f.CardNumber), ""),
		CardHolderName: strings.TrimSpace(f.CardHolderName),
		CardExpiry:     f.CardExpiry,
		CardCVV:        f.CardCVV,
		Installments:   ClampInstallments(f.Installments),
	}
}

// ClampInstallments bounds an installment count to the offered range
func ClampInstallments(n int) int {
	if n < MinInstallments {
		return MinInstallments
	}
	if n > MaxInstallments {
		return MaxInstallments
	}
	return n
}

// InstallmentOption is one entry of the installment selector
type InstallmentOption struct {
	Count    int
	Value    Money
	Selected bool
}

// InstallmentOptions lists every installment count with its per-charge value
func InstallmentOptions(total Money, selected int) []InstallmentOption {
	selected = ClampInstallments(selected)
	options := make([]InstallmentOption, 0, MaxInstallments)
	for n := MinInstallments; n <= MaxInstallments; n++ {
		options = append(options, InstallmentOption{
			Count:    n,
			Value:    total.Split(n),
			Selected: n == selected,
		})
	}
	return options
}

// CheckoutState is a step of the checkout state machine
type CheckoutState string

const (
	CheckoutEditing    CheckoutState = "editing"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutCompleted  CheckoutState = "completed"
)

// Checkout tracks one checkout session:
// editing -> submitting -> completed | editing (with Error set).
type Checkout struct {
	State CheckoutState
	Form  PaymentForm
	Error string
}

// NewCheckout starts a checkout in the editing state
func NewCheckout(form PaymentForm) *Checkout {
	form.Installments = ClampInstallments(form.Installments)
	return &Checkout{State: CheckoutEditing, Form: form}
}

// Begin moves the checkout into submitting. It is refused while another
// submission is in flight, after completion, or when a required field is
// empty.
func (c *Checkout) Begin() error {
	switch c.State {
	case CheckoutSubmitting:
		return ErrSubmissionInFlight
	case CheckoutEditing:
	default:
		return ErrCheckoutNotEditable
	}

	if !c.Form.HasRequiredFields() {
		return ErrMissingPaymentFields
	}

	c.State = CheckoutSubmitting
	c.Error = ""
	return nil
}

// Succeed completes the checkout and discards the card data
func (c *Checkout) Succeed() {
	c.State = CheckoutCompleted
	c.Form = PaymentForm{}
	c.Error = ""
}

// Fail returns to editing with a user-visible message; the form is kept so
// the customer can resubmit.
func (c *Checkout) Fail(message string) {
	c.State = CheckoutEditing
	c.Error = message
}

// CanSubmit reports whether the submit action should be enabled
func (c *Checkout) CanSubmit() bool {
	return c.State == CheckoutEditing && c.Form.HasRequiredFields()
}
