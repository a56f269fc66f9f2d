package notify

import (
	"errors"
	"fmt"
)

// ErrNoRecipients indicates the recipient spec resolved to an empty list.
var ErrNoRecipients = errors.New("recipient list is empty")

// ErrNoBody indicates a message with neither a body nor a readable body file.
var ErrNoBody = errors.New("no message body and no readable body file")

// NotifyError is returned when a message could not be sent: a transport or
// send failure, or a recipient list that could not be resolved. Sends are
// attempted at most once; the caller decides whether to retry.
type NotifyError struct {
	Subject   string
	Recipient string
	Err       error
}

// Error implements the error interface.
func (e *NotifyError) Error() string {
	if e.Recipient != "" {
		return fmt.Sprintf("notify %q to %s: %v", e.Subject, e.Recipient, e.Err)
	}
	return fmt.Sprintf("notify %q: %v", e.Subject, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *NotifyError) Unwrap() error {
	return e.Err
}
