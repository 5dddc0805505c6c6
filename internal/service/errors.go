package service

import (
	"errors"

	"github.com/ekoelbar/barclient/internal/barapi"
)

// ErrSubmitInProgress is returned when a form is submitted while an earlier
// submission has not finished yet
var ErrSubmitInProgress = errors.New("submission already in progress")

// ActionError is a failed backend call as the customer should see it:
// Message is the server's explanation or a localized fallback.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func newActionError(err error, fallback string) *ActionError {
	msg := barapi.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &ActionError{Message: msg, Err: err}
}
