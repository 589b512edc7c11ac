package meeting

import "time"

// Request is a booking request as supplied by the agent. Timestamps are raw
// strings; ValidateMeetingRequest parses them.
type Request struct {
	Summary     string   `json:"summary" validate:"required,max=1024"`
	Description string   `json:"description,omitempty" validate:"max=8192"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty" validate:"omitempty,max=32"`
}

// ValidatedRequest is a Request that passed validation.
type ValidatedRequest struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	PhoneNumber string

	// EndDerived is set when End was computed from the default duration.
	EndDerived bool
}

// Duration returns the meeting length.
func (v ValidatedRequest) Duration() time.Duration {
	return v.End.Sub(v.Start)
}
