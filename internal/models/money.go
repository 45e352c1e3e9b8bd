package models

import (
	"fmt"
	"math/big"
	"strings"
)

// Money is an amount in cents. All cart and order arithmetic is done on
// Money so totals never drift; conversion to a decimal string happens only
// when rendering.
type Money int64

// DefaultCurrencySymbol is the symbol prefixed to rendered amounts.
const DefaultCurrencySymbol = "R$"

var hundred = big.NewInt(100)

// MoneyFromDecimal parses a decimal string such as "50", "19.99" or "1e2"
// into cents. Digits past the second decimal place are rounded half away
// from zero.
func MoneyFromDecimal(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	num := new(big.Int).Mul(r.Num(), hundred)
	den := r.Denom()

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	rem.Abs(rem).Mul(rem, big.NewInt(2))
	if rem.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}

	if !q.IsInt64() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Money(q.Int64()), nil
}

// Cents returns the raw number of cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Mul returns m multiplied by a quantity.
func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

// Split returns the value of one of n equal installments, rounded half up
// to the cent.
func (m Money) Split(n int) Money {
	if n <= 1 {
		return m
	}
	c := int64(m)
	d := int64(n)
	if c < 0 {
		return -Money((-c*2 + d) / (2 * d))
	}
	return Money((c*2 + d) / (2 * d))
}

// String renders the amount with two decimals and a dot separator.
func (m Money) String() string {
	c := int64(m)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts JSON numbers and numeric strings. The value is never
// routed through float64.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*m = 0
		return nil
	}
	s = strings.Trim(s, `"`)

	v, err := MoneyFromDecimal(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FormatMoney renders an amount for display, e.g. "R$ 150.00".
func FormatMoney(m Money, symbol string) string {
	if symbol == "" {
		return m.String()
	}
	return symbol + " " + m.String()
}

// ClampQuantity bounds a requested quantity to [1, available]. When nothing
// is available the result is 0.
func ClampQuantity(quantity, available int) int {
	if available <= 0 {
		return 0
	}
	if quantity < 1 {
		return 1
	}
	if quantity > available {
		return available
	}
	return quantity
}
