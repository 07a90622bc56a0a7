package service

import (
	"errors"
	"fmt"

	"hostel-admin/internal/util"
)

// Base error kinds, checked with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries the failed operation, its kind and a message safe to show to clients.
type Error struct {
	Op      string // e.g. "fees.RecordPayment"
	Kind    error  // one of the kinds above, nil for persistence failures
	Message string
	Err     error // underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && errors.Is(e.Kind, target)
}

func validationf(op, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(op, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(op, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// storeErr wraps a persistence failure. Errors that already carry a kind pass through
// so a rejection raised inside a transaction keeps its meaning after rollback.
func storeErr(op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Message: "database error", Err: err}
}

// checkAmount validates a positive money amount in cents; field is the client-facing name.
func checkAmount(op, field string, cents int64) error {
	err := util.ValidateAmountCent(cents)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, util.ErrAmountTooLarge):
		return &Error{Op: op, Kind: ErrValidation, Err: err,
			Message: fmt.Sprintf("%s must be less than %s", field, util.FormatCents(util.MaxAmountCent))}
	default:
		return &Error{Op: op, Kind: ErrValidation, Err: err,
			Message: fmt.Sprintf("%s must be greater than 0", field)}
	}
}

// Message returns the client-facing text of err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind != nil {
		return se.Message
	}
	return "internal server error"
}
