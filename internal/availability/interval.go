package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultStartHour is the first working hour when none is configured.
	DefaultStartHour = 9
	// DefaultEndHour is the hour working days end when none is configured.
	DefaultEndHour = 17
	// DefaultDurationMinutes is the meeting length used when the caller gives none.
	DefaultDurationMinutes = 60

	dateLayout      = "2006-01-02"
	localTimeLayout = "2006-01-02T15:04:05"
)

// BusyInterval is a validated occupied period. Start is always before End.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (b BusyInterval) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Overlaps reports whether the half-open windows [b.Start, b.End) and
// [start, end) share any instant.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// valid reports whether the interval occupies any time at all.
func (b BusyInterval) valid() bool {
	return b.End.After(b.Start)
}

// RawInterval is a busy period as reported by a calendar. Each side holds
// either an RFC 3339 date-time or a date-only value, and may be empty.
type RawInterval struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// WorkingHours is the daily clock-hour window in which slots may be offered.
type WorkingHours struct {
	StartHour int `json:"start" yaml:"start"`
	EndHour   int `json:"end" yaml:"end"`
}

// DefaultWorkingHours returns the 9 to 17 window.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// Validate checks both hours are within 0..23 and start before end.
func (w WorkingHours) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("%w: hours must be between 0 and 23 (got %d-%d)", ErrInvalidWorkingHours, w.StartHour, w.EndHour)
	}
	if w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: start hour %d must be before end hour %d", ErrInvalidWorkingHours, w.StartHour, w.EndHour)
	}
	return nil
}

// SearchWindow is the span searched for slots and the free time each slot needs.
type SearchWindow struct {
	HorizonStart    time.Time
	HorizonEnd      time.Time
	DurationMinutes int
}

// Duration returns the meeting length.
func (s SearchWindow) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Validate rejects non-positive durations and empty or inverted horizons.
func (s SearchWindow) Validate() error {
	if s.DurationMinutes < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidDuration, s.DurationMinutes)
	}
	if !s.HorizonStart.Before(s.HorizonEnd) {
		return fmt.Errorf("%w (got %s to %s)", ErrInvalidHorizon,
			s.HorizonStart.Format(time.RFC3339), s.HorizonEnd.Format(time.RFC3339))
	}
	return nil
}

// ParseTimestamp parses an RFC 3339 date-time, a zone-less date-time, or a
// date-only value. Zone-less and date-only values are read in loc.
// dateOnly is true for date-only input.
func ParseTimestamp(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(localTimeLayout, value, loc); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", value)
}

// ParseInterval validates a raw interval. A date-only start begins at midnight;
// a date-only end is an exclusive midnight, unless it falls on the start date,
// in which case the interval covers that whole day.
func ParseInterval(raw RawInterval, loc *time.Location) (BusyInterval, error) {
	start, startDateOnly, err := ParseTimestamp(raw.Start, loc)
	if err != nil {
		return BusyInterval{}, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	end, endDateOnly, err := ParseTimestamp(raw.End, loc)
	if err != nil {
		return BusyInterval{}, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}

	if endDateOnly && startDateOnly && end.Equal(start) {
		end = end.AddDate(0, 0, 1)
	}

	b := BusyInterval{Start: start, End: end}
	if !b.valid() {
		return BusyInterval{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInterval, raw.Start, raw.End)
	}
	return b, nil
}

// NormalizeIntervals parses every raw interval, drops the unusable ones and
// returns the rest sorted by start. Each dropped interval yields one error.
func NormalizeIntervals(raw []RawInterval, loc *time.Location) ([]BusyInterval, []error) {
	busy := make([]BusyInterval, 0, len(raw))
	var dropped []error
	for i, r := range raw {
		b, err := ParseInterval(r, loc)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("interval %d: %w", i, err))
			continue
		}
		busy = append(busy, b)
	}
	sortIntervals(busy)
	return busy, dropped
}

func sortIntervals(busy []BusyInterval) {
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
}
