// Package availability turns busy calendar periods into proposable meeting slots.
//
// The package is pure: it performs no I/O and holds no state between calls.
// Raw intervals reported by a calendar are normalized into BusyInterval values,
// a gap-jumping sweep walks the working-hours windows of the search horizon,
// and the first open slots are assembled into a ScheduleRecommendation.
//
// Example usage:
//
//	busy, dropped := availability.NormalizeIntervals(raw, time.UTC)
//	slots, err := availability.FindAvailableSlots(busy, 60, start, start.AddDate(0, 0, 7),
//	    availability.DefaultWorkingHours())
//	if err != nil {
//	    return err
//	}
//	rec := availability.BuildScheduleRecommendation(slots, raw, start)
package availability
