package meeting

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindInvalidField         Kind = "InvalidField"
	KindInvalidDuration      Kind = "InvalidDuration"
	KindInvalidStartTime     Kind = "InvalidStartTime"
	KindInvalidAttendeeEmail Kind = "InvalidAttendeeEmail"
)

// Sentinels for errors.Is against a *ValidationError.
var (
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidDuration      = errors.New("invalid default duration")
	ErrInvalidStartTime     = errors.New("invalid start time")
	ErrInvalidAttendeeEmail = errors.New("invalid attendee email")
)

// ValidationError describes why a Request was rejected.
type ValidationError struct {
	Kind  Kind
	Field string
	// InvalidEmails lists every rejected attendee address, in input order.
	InvalidEmails []string
	Err           error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindInvalidAttendeeEmail:
		return fmt.Sprintf("invalid attendee email address(es): %s", strings.Join(e.InvalidEmails, ", "))
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Field, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Field, e.Kind)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case KindInvalidField:
		return target == ErrInvalidField
	case KindInvalidDuration:
		return target == ErrInvalidDuration
	case KindInvalidStartTime:
		return target == ErrInvalidStartTime
	case KindInvalidAttendeeEmail:
		return target == ErrInvalidAttendeeEmail
	}
	return false
}
