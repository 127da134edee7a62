package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentStatus is the payment state flag attached to an order.
// Payment-provider integration lives outside this system; only the resulting
// flag is tracked here.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending indicates payment has not been settled yet.
	PaymentPending

	// PaymentPaid indicates payment was settled.
	PaymentPaid

	// PaymentRefunded indicates a settled payment was returned,
	// typically after cancellation.
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "UNKNOWN",
		PaymentPending:  "PENDING",
		PaymentPaid:     "PAID",
		PaymentRefunded: "REFUNDED",
	}
}

// PaymentStatusFromString parses a PaymentStatus from its wire name.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if name == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the PaymentStatus value is one of the defined states.
func (p PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[p]; !ok || p == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

// String returns the wire name of the payment status.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
