package availability

import "time"

// NoAvailabilityMessage accompanies a recommendation built from zero slots.
const NoAvailabilityMessage = "No open slot was found in the requested horizon; the recommended time is the horizon start and is not a confirmed free slot."

// ScheduleRecommendation is the result handed back to the agent.
type ScheduleRecommendation struct {
	RecommendedTime  time.Time     `json:"recommendedTime"`
	AlternativeTimes []time.Time   `json:"alternativeTimes"`
	BusyPeriods      []RawInterval `json:"busyPeriods"`
	NoAvailability   bool          `json:"noAvailability"`
	Message          string        `json:"message,omitempty"`
}

// BuildScheduleRecommendation assembles the recommendation. busy is echoed
// back exactly as the calendar reported it. Without any slot the
// recommendation falls back to horizonStart and is flagged NoAvailability.
func BuildScheduleRecommendation(slots []time.Time, busy []RawInterval, horizonStart time.Time) ScheduleRecommendation {
	periods := make([]RawInterval, len(busy))
	copy(periods, busy)

	sel, ok := Select(slots)
	if !ok {
		return ScheduleRecommendation{
			RecommendedTime:  horizonStart,
			AlternativeTimes: []time.Time{},
			BusyPeriods:      periods,
			NoAvailability:   true,
			Message:          NoAvailabilityMessage,
		}
	}
	return ScheduleRecommendation{
		RecommendedTime:  sel.Recommended,
		AlternativeTimes: sel.Alternatives,
		BusyPeriods:      periods,
	}
}
