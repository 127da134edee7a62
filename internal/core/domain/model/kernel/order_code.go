package kernel

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"fulfillment/internal/pkg/errs"
)

const (
	// orderCodePrefix is the fixed human-readable prefix for order codes.
	orderCodePrefix = "MOV-"
	// orderCodeLength is the number of random characters after the prefix.
	orderCodeLength = 4
	// orderCodeAlphabet excludes visually ambiguous characters (0/O, 1/I/L)
	// so codes can be read over the phone without confusion.
	orderCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// ErrOrderCodeIsNotConstructed is returned when validating a zero-value OrderCode.
var ErrOrderCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"order code must be created via NewOrderCode or OrderCodeFromString")

// OrderCode is the human-readable identifier customers and merchants use to
// refer to an order, e.g. "MOV-7KQ2". It complements the internal UUID: the
// UUID is the primary key, the code is what appears on receipts and support
// conversations.
//
// OrderCode is an immutable value object; the zero value is invalid.
type OrderCode struct {
	value string
}

// NewOrderCode generates a new random order code.
// Codes are short and not guaranteed globally unique by construction; the
// persistence layer enforces uniqueness with a unique index and callers retry
// on collision.
func NewOrderCode() OrderCode {
	var b strings.Builder
	b.WriteString(orderCodePrefix)
	for range orderCodeLength {
		b.WriteByte(orderCodeAlphabet[rand.IntN(len(orderCodeAlphabet))]) //nolint:gosec // not security sensitive
	}
	return OrderCode{value: b.String()}
}

// OrderCodeFromString parses and validates an order code from its string form.
// Used when reconstructing orders from persistence or parsing client input.
func OrderCodeFromString(s string) (OrderCode, error) {
	if !strings.HasPrefix(s, orderCodePrefix) {
		return OrderCode{}, errs.NewValueIsInvalidErrorWithCause("order code",
			fmt.Errorf("%q does not start with %q", s, orderCodePrefix))
	}

	suffix := strings.TrimPrefix(s, orderCodePrefix)
	if len(suffix) != orderCodeLength {
		return OrderCode{}, errs.NewValueIsInvalidErrorWithCause("order code",
			fmt.Errorf("%q must have %d characters after the prefix", s, orderCodeLength))
	}

	for _, r := range suffix {
		if !strings.ContainsRune(orderCodeAlphabet, r) {
			return OrderCode{}, errs.NewValueIsInvalidErrorWithCause("order code",
				fmt.Errorf("%q contains character %q outside the code alphabet", s, r))
		}
	}

	return OrderCode{value: s}, nil
}

// String returns the code in its canonical form, e.g. "MOV-7KQ2".
// Implements the fmt.Stringer interface.
func (c OrderCode) String() string {
	return c.value
}

// IsEqual compares two order codes for equality.
func (c OrderCode) IsEqual(other OrderCode) bool {
	return c.value == other.value
}

// Validate checks if the OrderCode was created through a constructor.
func (c OrderCode) Validate() error {
	if c.value == "" {
		return ErrOrderCodeIsNotConstructed
	}
	return nil
}
