package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	tests := []struct {
		name         string
		value        string
		loc          *time.Location
		want         time.Time
		wantDateOnly bool
		wantErr      bool
	}{
		{
			name:  "rfc3339 with offset",
			value: "2024-10-07T10:00:00+02:00",
			want:  time.Date(2024, 10, 7, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with fractional seconds",
			value: "2024-10-07T10:00:00.500Z",
			want:  time.Date(2024, 10, 7, 10, 0, 0, 500000000, time.UTC),
		},
		{
			name:  "zone-less date-time uses location",
			value: "2024-10-07T10:00:00",
			loc:   berlin,
			want:  time.Date(2024, 10, 7, 10, 0, 0, 0, berlin),
		},
		{
			name:         "date only",
			value:        "2024-10-07",
			want:         time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC),
			wantDateOnly: true,
		},
		{
			name:  "surrounding whitespace",
			value: "  2024-10-07T10:00:00Z ",
			want:  time.Date(2024, 10, 7, 10, 0, 0, 0, time.UTC),
		},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "next tuesday", wantErr: true},
		{name: "impossible date", value: "2024-02-31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dateOnly, err := ParseTimestamp(tt.value, tt.loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, tt.wantDateOnly, dateOnly)
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawInterval
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "date-time interval",
			raw:       RawInterval{Start: "2024-10-07T10:00:00Z", End: "2024-10-07T11:00:00Z"},
			wantStart: time.Date(2024, 10, 7, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 10, 7, 11, 0, 0, 0, time.UTC),
		},
		{
			name:      "all-day event with exclusive end date",
			raw:       RawInterval{Start: "2024-10-07", End: "2024-10-08"},
			wantStart: time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "same date on both sides spans the whole day",
			raw:       RawInterval{Start: "2024-10-07", End: "2024-10-07"},
			wantStart: time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "missing end",
			raw:     RawInterval{Start: "2024-10-07T10:00:00Z"},
			wantErr: true,
		},
		{
			name:    "missing start",
			raw:     RawInterval{End: "2024-10-07T10:00:00Z"},
			wantErr: true,
		},
		{
			name:    "inverted",
			raw:     RawInterval{Start: "2024-10-07T11:00:00Z", End: "2024-10-07T10:00:00Z"},
			wantErr: true,
		},
		{
			name:    "zero length",
			raw:     RawInterval{Start: "2024-10-07T10:00:00Z", End: "2024-10-07T10:00:00Z"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.raw, time.UTC)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(got.Start), "start: want %s, got %s", tt.wantStart, got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end: want %s, got %s", tt.wantEnd, got.End)
		})
	}
}

func TestNormalizeIntervals(t *testing.T) {
	raw := []RawInterval{
		{Start: "2024-10-07T14:00:00Z", End: "2024-10-07T15:00:00Z"},
		{Start: "not a time", End: "2024-10-07T15:00:00Z"},
		{Start: "2024-10-07T09:00:00Z", End: "2024-10-07T09:30:00Z"},
		{Start: "2024-10-07T12:00:00Z"},
		{Start: "2024-10-07T11:00:00Z", End: "2024-10-07T10:00:00Z"},
		{Start: "2024-10-06", End: "2024-10-07"},
	}

	busy, dropped := NormalizeIntervals(raw, time.UTC)

	require.Len(t, busy, 3)
	assert.Len(t, dropped, 3)
	for _, err := range dropped {
		assert.ErrorIs(t, err, ErrInvalidInterval)
	}

	assert.Equal(t, time.Date(2024, 10, 6, 0, 0, 0, 0, time.UTC), busy[0].Start)
	assert.Equal(t, time.Date(2024, 10, 7, 9, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, time.Date(2024, 10, 7, 14, 0, 0, 0, time.UTC), busy[2].Start)
}

func TestNormalizeIntervals_Empty(t *testing.T) {
	busy, dropped := NormalizeIntervals(nil, time.UTC)
	assert.Empty(t, busy)
	assert.Empty(t, dropped)
}

func TestWorkingHoursValidate(t *testing.T) {
	tests := []struct {
		name    string
		hours   WorkingHours
		wantErr bool
	}{
		{name: "default", hours: DefaultWorkingHours()},
		{name: "full range", hours: WorkingHours{StartHour: 0, EndHour: 23}},
		{name: "equal", hours: WorkingHours{StartHour: 9, EndHour: 9}, wantErr: true},
		{name: "inverted", hours: WorkingHours{StartHour: 17, EndHour: 9}, wantErr: true},
		{name: "negative", hours: WorkingHours{StartHour: -1, EndHour: 9}, wantErr: true},
		{name: "end past 23", hours: WorkingHours{StartHour: 9, EndHour: 24}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hours.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWorkingHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBusyIntervalOverlaps(t *testing.T) {
	b := BusyInterval{
		Start: time.Date(2024, 10, 7, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 10, 7, 11, 0, 0, 0, time.UTC),
	}

	at := func(h, m int) time.Time { return time.Date(2024, 10, 7, h, m, 0, 0, time.UTC) }

	assert.False(t, b.Overlaps(at(9, 0), at(10, 0)), "touching before")
	assert.False(t, b.Overlaps(at(11, 0), at(12, 0)), "touching after")
	assert.True(t, b.Overlaps(at(9, 30), at(10, 30)))
	assert.True(t, b.Overlaps(at(10, 15), at(10, 45)))
	assert.True(t, b.Overlaps(at(9, 0), at(12, 0)))
	assert.Equal(t, time.Hour, b.Duration())
}
