package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	slots := []time.Time{at(0, 9, 0), at(0, 11, 0), at(1, 9, 0), at(2, 9, 0), at(3, 9, 0), at(4, 9, 0)}

	sel, ok := Select(slots)
	require.True(t, ok)
	assert.Equal(t, at(0, 9, 0), sel.Recommended)
	assert.Equal(t, []time.Time{at(0, 11, 0), at(1, 9, 0), at(2, 9, 0)}, sel.Alternatives)

	sel.Alternatives[0] = time.Time{}
	assert.Equal(t, at(0, 11, 0), slots[1], "selection must not alias the input")
}

func TestSelect_FewSlots(t *testing.T) {
	sel, ok := Select([]time.Time{at(0, 9, 0)})
	require.True(t, ok)
	assert.Empty(t, sel.Alternatives)

	_, ok = Select(nil)
	assert.False(t, ok)
}

func TestSelectSeq(t *testing.T) {
	window := SearchWindow{HorizonStart: at(0, 0, 0), HorizonEnd: at(30, 0, 0), DurationMinutes: 60}

	pulled := 0
	seq := func(yield func(time.Time) bool) {
		for s := range Slots(nil, window, DefaultWorkingHours()) {
			pulled++
			if !yield(s) {
				return
			}
		}
	}

	sel, ok := SelectSeq(seq)
	require.True(t, ok)
	assert.Equal(t, at(0, 9, 0), sel.Recommended)
	assert.Len(t, sel.Alternatives, MaxAlternatives)
	assert.Equal(t, MaxAlternatives+1, pulled)
}

func TestBuildScheduleRecommendation(t *testing.T) {
	raw := []RawInterval{
		{Start: "2024-10-07T10:00:00Z", End: "2024-10-07T11:00:00Z"},
		{Start: "2024-10-08"},
	}
	slots := []time.Time{at(0, 9, 0), at(0, 11, 0), at(1, 9, 0), at(2, 9, 0), at(3, 9, 0)}

	rec := BuildScheduleRecommendation(slots, raw, at(0, 0, 0))

	assert.False(t, rec.NoAvailability)
	assert.Empty(t, rec.Message)
	assert.Equal(t, at(0, 9, 0), rec.RecommendedTime)
	require.Len(t, rec.AlternativeTimes, 3)
	for _, alt := range rec.AlternativeTimes {
		assert.True(t, alt.After(rec.RecommendedTime))
	}
	assert.Equal(t, raw, rec.BusyPeriods, "busy periods are echoed unfiltered")
}

func TestBuildScheduleRecommendation_NoAvailability(t *testing.T) {
	horizon := at(0, 8, 15)
	rec := BuildScheduleRecommendation(nil, nil, horizon)

	assert.True(t, rec.NoAvailability)
	assert.Equal(t, NoAvailabilityMessage, rec.Message)
	assert.Equal(t, horizon, rec.RecommendedTime)
	assert.NotNil(t, rec.AlternativeTimes)
	assert.Empty(t, rec.AlternativeTimes)
	assert.NotNil(t, rec.BusyPeriods)
}

func TestScheduleRecommendation_EndToEnd(t *testing.T) {
	raw := []RawInterval{
		{Start: "2024-10-07T10:00:00Z", End: "2024-10-07T11:00:00Z"},
		{Start: "garbage", End: "2024-10-07T12:00:00Z"},
	}
	busy, dropped := NormalizeIntervals(raw, time.UTC)
	require.Len(t, dropped, 1)

	slots, err := FindAvailableSlots(busy, 60, at(0, 0, 0), at(1, 0, 0), DefaultWorkingHours())
	require.NoError(t, err)

	rec := BuildScheduleRecommendation(slots, raw, at(0, 0, 0))
	assert.Equal(t, at(0, 9, 0), rec.RecommendedTime)
	assert.Equal(t, []time.Time{at(0, 11, 0)}, rec.AlternativeTimes)
	assert.Len(t, rec.BusyPeriods, 2)
}
