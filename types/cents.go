package types

import "fmt"

// Cents is an integer-cents monetary value for Concord's single-currency,
// USD-pegged token. Unlike Money it carries no currency tag — every ledger
// quantity is denominated in the same unit, so arithmetic never needs a
// currency check.
type Cents int64

// Add returns the sum of two Cents values.
func (c Cents) Add(other Cents) Cents { return c + other }

// Subtract returns the difference of two Cents values.
func (c Cents) Subtract(other Cents) Cents { return c - other }

// Negate returns the negated value.
func (c Cents) Negate() Cents { return -c }

// IsZero reports whether the value is zero.
func (c Cents) IsZero() bool { return c == 0 }

// IsPositive reports whether the value is strictly greater than zero.
func (c Cents) IsPositive() bool { return c > 0 }

// IsNegative reports whether the value is strictly less than zero.
func (c Cents) IsNegative() bool { return c < 0 }

// LessThan reports whether c is less than other.
func (c Cents) LessThan(other Cents) bool { return c < other }

// GreaterThanOrEqual reports whether c is at least other.
func (c Cents) GreaterThanOrEqual(other Cents) bool { return c >= other }

// FormatMajor renders the value as a 2-decimal major-unit string, e.g.
// Cents(4954).FormatMajor() == "49.54".
func (c Cents) FormatMajor() string {
	neg := c < 0
	abs := int64(c)
	if neg {
		abs = -abs
	}
	major := abs / 100
	minor := abs % 100
	s := fmt.Sprintf("%d.%02d", major, minor)
	if neg {
		return "-" + s
	}
	return s
}

// String implements fmt.Stringer.
func (c Cents) String() string { return c.FormatMajor() }

// SumCents adds a list of Cents values.
func SumCents(values ...Cents) Cents {
	var total Cents
	for _, v := range values {
		total += v
	}
	return total
}

// RoundHalfUp rounds a fractional cent quantity to the nearest whole cent,
// ties rounding away from zero. Callers pass amounts already expressed in
// cents but carrying fractional precision from a rate multiplication
// (e.g. amount_cents * rate).
func RoundHalfUp(fractionalCents float64) Cents {
	if fractionalCents >= 0 {
		return Cents(int64(fractionalCents + 0.5))
	}
	return Cents(int64(fractionalCents - 0.5))
}
