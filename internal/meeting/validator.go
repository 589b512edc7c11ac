package meeting

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validateOnce    sync.Once
	structValidator *validator.Validate
)

func structs() *validator.Validate {
	validateOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

// IsValidEmail reports whether addr looks like local-part@domain.tld.
func IsValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// ValidateMeetingRequest checks req and returns the parsed request. When the
// end is missing, unparsable or not after the start it is set to
// start + defaultDurationMinutes. Every invalid attendee is reported at once.
// Timestamps without an offset are read as UTC.
func ValidateMeetingRequest(req Request, defaultDurationMinutes int) (ValidatedRequest, error) {
	return ValidateMeetingRequestIn(req, defaultDurationMinutes, time.UTC)
}

// ValidateMeetingRequestIn is ValidateMeetingRequest with timestamps that
// carry no offset read in loc. A nil loc means UTC.
func ValidateMeetingRequestIn(req Request, defaultDurationMinutes int, loc *time.Location) (ValidatedRequest, error) {
	if loc == nil {
		loc = time.UTC
	}
	req.Summary = strings.TrimSpace(req.Summary)
	req.Description = strings.TrimSpace(req.Description)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if err := structs().Struct(req); err != nil {
		return ValidatedRequest{}, fieldError(err)
	}

	if defaultDurationMinutes < 1 {
		return ValidatedRequest{}, &ValidationError{
			Kind:  KindInvalidDuration,
			Field: "defaultDurationMinutes",
			Err:   fmt.Errorf("must be at least 1 minute, got %d", defaultDurationMinutes),
		}
	}

	start, _, err := availability.ParseTimestamp(req.Start, loc)
	if err != nil {
		return ValidatedRequest{}, &ValidationError{Kind: KindInvalidStartTime, Field: "start", Err: err}
	}

	out := ValidatedRequest{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       start,
		PhoneNumber: req.PhoneNumber,
	}

	end, _, err := availability.ParseTimestamp(req.End, loc)
	if err != nil || !end.After(start) {
		end = start.Add(time.Duration(defaultDurationMinutes) * time.Minute)
		out.EndDerived = true
	}
	out.End = end

	var invalid []string
	for _, a := range req.Attendees {
		addr := strings.TrimSpace(a)
		if !IsValidEmail(addr) {
			invalid = append(invalid, a)
			continue
		}
		out.Attendees = append(out.Attendees, addr)
	}
	if len(invalid) > 0 {
		return ValidatedRequest{}, &ValidationError{
			Kind:          KindInvalidAttendeeEmail,
			Field:         "attendees",
			InvalidEmails: invalid,
		}
	}

	return out, nil
}

func fieldError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Kind: KindInvalidField, Field: "summary", Err: err}
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	var reason error
	switch fe.Tag() {
	case "required":
		reason = errors.New("is required")
	case "max":
		reason = fmt.Errorf("must be at most %s characters", fe.Param())
	default:
		reason = fmt.Errorf("failed %q check", fe.Tag())
	}
	return &ValidationError{Kind: KindInvalidField, Field: field, Err: reason}
}
