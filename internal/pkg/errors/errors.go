package errors

import (
	"errors"
	"fmt"
	"time"
)

// Custom application errors
var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrTimezoneNotFound  = errors.New("timezone not found")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrNotifier          = errors.New("message delivery failed")
	ErrScheduling        = errors.New("scheduling failed")
	ErrInternalServer    = errors.New("internal server error")
)

// TimeTravelError reports a request whose resolved instant is not strictly
// in the future. Message is safe to surface to the requester; the full
// attempted instant stays in the logs.
type TimeTravelError struct {
	Message   string
	Attempted time.Time
}

func (e *TimeTravelError) Error() string {
	return fmt.Sprintf("time travel requested: attempted instant %s is not in the future", e.Attempted.Format(time.RFC3339))
}

// ReminderParsingError reports timestamp text that no parser understood.
type ReminderParsingError struct {
	Raw string
}

func (e *ReminderParsingError) Error() string {
	return fmt.Sprintf("could not parse reminder timestamp %q", e.Raw)
}

// TlderNotFoundError reports a requester with no configured timezone.
type TlderNotFoundError struct {
	UserID string
}

func (e *TlderNotFoundError) Error() string {
	return fmt.Sprintf("no TLDer registered for user %s", e.UserID)
}
