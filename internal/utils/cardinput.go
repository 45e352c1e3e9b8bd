package utils

import "strings"

// Card field limits
const (
	MaxCardDigits   = 16
	MaxExpiryDigits = 6 // MM + four digit year
	MaxCVVDigits    = 3
	cardGroupSize   = 4
)

// Field names accepted by FormatField
const (
	FieldCardNumber     = "cardNumber"
	FieldCardHolderName = "cardHolderName"
	FieldCardExpiry     = "cardExpiry"
	FieldCardCVV        = "cardCVV"
	FieldInstallments   = "installments"
)

// DigitsOnly strips every non-digit character
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func capDigits(digits string, max int) string {
	if len(digits) > max {
		return digits[:max]
	}
	return digits
}

// FormatCardNumber masks a card number into groups of four digits separated
// by single spaces, keeping at most 16 digits. Fewer than four digits are
// returned as typed, without grouping.
func FormatCardNumber(value string) string {
	digits := capDigits(DigitsOnly(value), MaxCardDigits)
	if len(digits) < cardGroupSize {
		return digits
	}

	groups := make([]string, 0, MaxCardDigits/cardGroupSize)
	for i := 0; i < len(digits); i += cardGroupSize {
		end := i + cardGroupSize
		if end > len(digits) {
			end = len(digits)
		}
		groups = append(groups, digits[i:end])
	}
	return strings.Join(groups, " ")
}

// FormatExpiry masks an expiry date as MM/AAAA. The slash appears once two
// digits have been typed.
func FormatExpiry(value string) string {
	digits := capDigits(DigitsOnly(value), MaxExpiryDigits)
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps at most three digits
func FormatCVV(value string) string {
	return capDigits(DigitsOnly(value), MaxCVVDigits)
}

// FormatField applies the mask for a named payment field. Unmasked fields
// (such as the holder name) are returned unchanged.
func FormatField(field, value string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(value)
	case FieldCardExpiry:
		return FormatExpiry(value)
	case FieldCardCVV:
		return FormatCVV(value)
	default:
		return value
	}
}

// RawCardNumber removes display grouping from a card number
func RawCardNumber(display string) string {
	return strings.Join(strings.Fields(display), "")
}

// CardLastFour returns the last four digits of a card number, or all of
// them when fewer are present.
func CardLastFour(cardNumber string) string {
	digits := DigitsOnly(cardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
