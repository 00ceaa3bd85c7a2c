// internal/domain/order/errors.go
package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound indicates the order does not exist or is not visible
	// to the caller.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyCart indicates checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrVoucherInvalid indicates the supplied voucher code was rejected
	// under the strict voucher policy.
	ErrVoucherInvalid = errors.New("voucher is invalid")

	// ErrInvalidStateTransition indicates an operation not permitted from
	// the order's current status. The order is left unchanged.
	ErrInvalidStateTransition = errors.New("invalid order state transition")
)

// ValidationError is a field-level input error the caller can correct
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
