package payments

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrOrderNotPayable   = errors.New("order not payable")
	ErrInvalidTransition = errors.New("invalid status transition")

	// errDuplicatePending is returned by the repository when an insert trips
	// the unique pending-per-order index. The service never surfaces it; it is
	// translated into returning the entry that won the race.
	errDuplicatePending = errors.New("pending payment already exists for order")
)

// ValidationError reports a missing or malformed input field. It is detected
// before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func requiredField(field string) ValidationError {
	return ValidationError{Field: field, Reason: "is required"}
}
