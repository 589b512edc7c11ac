package availability

import (
	"iter"
	"time"
)

// FindAvailableSlots returns, in chronological order, the earliest start of
// every free gap in the horizon that can hold a meeting of durationMinutes
// inside working hours. Wall-clock hours are read in horizonStart's location.
func FindAvailableSlots(busy []BusyInterval, durationMinutes int, horizonStart, horizonEnd time.Time, wh WorkingHours) ([]time.Time, error) {
	window := SearchWindow{
		HorizonStart:    horizonStart,
		HorizonEnd:      horizonEnd,
		DurationMinutes: durationMinutes,
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	var slots []time.Time
	for slot := range Slots(busy, window, wh) {
		slots = append(slots, slot)
	}
	return slots, nil
}

// Slots returns the lazy slot sequence behind FindAvailableSlots. The
// sequence may be ranged over any number of times. Invalid windows or
// working hours produce an empty sequence; use FindAvailableSlots to get
// the error instead.
func Slots(busy []BusyInterval, window SearchWindow, wh WorkingHours) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if window.Validate() != nil || wh.Validate() != nil {
			return
		}
		s := newSweep(busy, window, wh)
		for {
			slot, ok := s.next()
			if !ok || !yield(slot) {
				return
			}
		}
	}
}

// sweep walks the horizon gap by gap.
type sweep struct {
	busy     []BusyInterval // sorted, coalesced
	idx      int
	cursor   time.Time
	end      time.Time
	duration time.Duration
	hours    WorkingHours
	loc      *time.Location
}

func newSweep(busy []BusyInterval, window SearchWindow, wh WorkingHours) *sweep {
	return &sweep{
		busy:     coalesce(busy),
		cursor:   window.HorizonStart,
		end:      window.HorizonEnd,
		duration: window.Duration(),
		hours:    wh,
		loc:      window.HorizonStart.Location(),
	}
}

// next advances to the next qualifying gap and returns its start.
func (s *sweep) next() (time.Time, bool) {
	for s.cursor.Before(s.end) {
		dayStart := s.at(s.cursor, 0, s.hours.StartHour)
		dayEnd := s.at(s.cursor, 0, s.hours.EndHour)

		if s.cursor.Before(dayStart) {
			s.cursor = dayStart
			continue
		}
		if !s.cursor.Before(dayEnd) {
			s.cursor = s.at(s.cursor, 1, s.hours.StartHour)
			continue
		}

		// Intervals already behind the cursor no longer matter.
		for s.idx < len(s.busy) && !s.busy[s.idx].End.After(s.cursor) {
			s.idx++
		}

		if s.idx < len(s.busy) && !s.busy[s.idx].Start.After(s.cursor) {
			// Occupied right now: resume where the interval ends.
			s.cursor = s.busy[s.idx].End
			s.idx++
			continue
		}

		boundary := dayEnd
		advance := dayEnd
		if s.idx < len(s.busy) && s.busy[s.idx].Start.Before(dayEnd) {
			boundary = s.busy[s.idx].Start
			advance = s.busy[s.idx].End
		}

		slot := s.cursor
		s.cursor = advance
		if boundary.Sub(slot) >= s.duration {
			return slot, true
		}
	}
	return time.Time{}, false
}

// at returns the given hour on t's calendar day plus dayOffset days. An hour
// skipped by a daylight saving transition resolves to the first instant
// after the gap.
func (s *sweep) at(t time.Time, dayOffset, hour int) time.Time {
	y, m, d := t.In(s.loc).Date()
	got := time.Date(y, m, d+dayOffset, hour, 0, 0, 0, s.loc)
	if short := wallClock(time.Date(y, m, d+dayOffset, hour, 0, 0, 0, time.UTC)).Sub(wallClock(got.In(s.loc))); short > 0 {
		got = got.Add(short)
	}
	return got
}

// wallClock reinterprets t's local date and time as UTC.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// coalesce sorts a copy of busy and merges overlapping or touching intervals.
// Zero-length and inverted intervals are dropped.
func coalesce(busy []BusyInterval) []BusyInterval {
	valid := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		if b.valid() {
			valid = append(valid, b)
		}
	}
	sortIntervals(valid)

	merged := valid[:0]
	for _, b := range valid {
		if n := len(merged); n > 0 && !b.Start.After(merged[n-1].End) {
			if b.End.After(merged[n-1].End) {
				merged[n-1].End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}
