package availability

import "errors"

var (
	// ErrInvalidDuration is returned when the meeting duration is below one minute.
	ErrInvalidDuration = errors.New("duration must be at least 1 minute")

	// ErrInvalidHorizon is returned when the horizon start is not before its end.
	ErrInvalidHorizon = errors.New("horizon start must be before horizon end")

	// ErrInvalidWorkingHours is returned for hours outside 0..23 or a start hour
	// that is not before the end hour.
	ErrInvalidWorkingHours = errors.New("invalid working hours")

	// ErrInvalidInterval marks a raw busy interval that cannot be used.
	ErrInvalidInterval = errors.New("invalid busy interval")
)
