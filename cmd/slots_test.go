package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

func defaultSlotsOptions() slotsOptions {
	return slotsOptions{
		durationMinutes:   60,
		horizonDays:       1,
		workingHoursStart: 9,
		workingHoursEnd:   17,
		timezone:          "UTC",
	}
}

func TestRunSlots(t *testing.T) {
	monday := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	yamlBusy := `
- start: "2024-06-03T09:00:00Z"
  end: "2024-06-03T10:00:00Z"
- start: "2024-06-03T13:00:00Z"
  end: "2024-06-03T14:00:00Z"
`
	jsonBusy := `[{"start":"2024-06-03T09:00:00Z","end":"2024-06-03T10:00:00Z"},{"start":"2024-06-03T13:00:00Z","end":"2024-06-03T14:00:00Z"}]`

	for name, input := range map[string]string{"yaml": yamlBusy, "json": jsonBusy} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runSlots(strings.NewReader(input), &out, defaultSlotsOptions(), monday))

			var rec availability.ScheduleRecommendation
			require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
			assert.True(t, rec.RecommendedTime.Equal(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)), rec.RecommendedTime)
			require.Len(t, rec.AlternativeTimes, 1)
			assert.True(t, rec.AlternativeTimes[0].Equal(time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)))
			assert.Len(t, rec.BusyPeriods, 2)
		})
	}
}

func TestRunSlots_EmptyFile(t *testing.T) {
	opts := defaultSlotsOptions()
	opts.start = "2024-06-03T16:30:00Z"
	opts.durationMinutes = 30

	var out bytes.Buffer
	require.NoError(t, runSlots(strings.NewReader(""), &out, opts, time.Time{}))

	var rec availability.ScheduleRecommendation
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.True(t, rec.RecommendedTime.Equal(time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC)))
	assert.NotNil(t, rec.BusyPeriods)
	assert.Contains(t, out.String(), `"busyPeriods": []`)
}

func TestRunSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		mutate  func(*slotsOptions)
		wantErr string
	}{
		{
			name:    "bad timezone",
			mutate:  func(o *slotsOptions) { o.timezone = "Nowhere/City" },
			wantErr: "invalid timezone",
		},
		{
			name:    "zero days",
			mutate:  func(o *slotsOptions) { o.horizonDays = 0 },
			wantErr: "days must be at least 1",
		},
		{
			name:    "malformed file",
			input:   "start: [",
			wantErr: "failed to parse busy periods",
		},
		{
			name:    "bad start",
			mutate:  func(o *slotsOptions) { o.start = "tomorrow" },
			wantErr: "invalid start",
		},
		{
			name:    "inverted working hours",
			mutate:  func(o *slotsOptions) { o.workingHoursStart, o.workingHoursEnd = 17, 9 },
			wantErr: "working hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultSlotsOptions()
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			err := runSlots(strings.NewReader(tt.input), &bytes.Buffer{}, opts, time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
