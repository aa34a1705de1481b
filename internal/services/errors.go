package services

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("access denied")
)

// ValidationError reports caller-supplied input the service refuses to act on.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports an operation that clashes with the order's current
// payment or delivery state.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func conflictErrorf(format string, args ...interface{}) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// amountTolerance absorbs float rounding when comparing money values.
const amountTolerance = 0.01

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < amountTolerance
}
