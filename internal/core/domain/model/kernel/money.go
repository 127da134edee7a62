package kernel

import "fmt"

// Money represents a monetary amount in the smallest currency unit.
// Arithmetic on Money is plain integer arithmetic; negative amounts are legal
// as intermediate values (discounts) but order totals must never be negative.
type Money int64

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String returns the raw amount for logging and display formatting upstream.
func (m Money) String() string {
	return fmt.Sprintf("%d", int64(m))
}
