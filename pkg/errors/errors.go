package errors

import "fmt"

// ErrInvalidStateTransition is returned when an order or reservation action
// is not allowed from its current status
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	if e.From == "" {
		return fmt.Sprintf("cannot %s: no current order", e.To)
	}
	return fmt.Sprintf("cannot %s from status %s", e.To, e.From)
}

// ErrValidation carries a field-level validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnauthorized is returned when staff credentials are missing or wrong
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
