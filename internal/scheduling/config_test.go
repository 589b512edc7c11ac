package scheduling

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.CalendarID = "owner@example.com"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.Equal(t, int64(250), cfg.MaxEvents)
	assert.Equal(t, availability.WorkingHours{StartHour: 9, EndHour: 17}, cfg.WorkingHours)
	assert.Equal(t, 60, cfg.DefaultDurationMinutes)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)

	// No calendar configured yet.
	assert.Error(t, cfg.Validate())
	assert.NoError(t, validConfig().Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
calendarId: team@example.com
timezone: Africa/Accra
horizonDays: 14
workingHours:
  start: 8
  end: 18
adminEmail: admin@example.com
addMeetLink: true
cacheTTL: 30s
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", cfg.CalendarID)
	assert.Equal(t, "Africa/Accra", cfg.TimeZone)
	assert.Equal(t, 14, cfg.HorizonDays)
	assert.Equal(t, availability.WorkingHours{StartHour: 8, EndHour: 18}, cfg.WorkingHours)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.True(t, cfg.AddMeetLink)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, int64(250), cfg.MaxEvents)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CALENDAR_ID", "legacy@example.com")
	t.Setenv("SCHEDULER_WORKING_HOURS_START", "10")
	t.Setenv("SCHEDULER_MAX_EVENTS", "50")
	t.Setenv("SCHEDULER_CACHE_TTL", "0s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "legacy@example.com", cfg.CalendarID)
	assert.Equal(t, 10, cfg.WorkingHours.StartHour)
	assert.Equal(t, int64(50), cfg.MaxEvents)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)

	t.Setenv("SCHEDULER_CALENDAR_ID", "new@example.com")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", cfg.CalendarID)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("horizonDays: [1, 2"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("SCHEDULER_HORIZON_DAYS", "a week")
		t.Setenv("SCHEDULER_ADD_MEET_LINK", "maybe")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SCHEDULER_HORIZON_DAYS")
		assert.Contains(t, err.Error(), "SCHEDULER_ADD_MEET_LINK")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero horizon", mutate: func(c *Config) { c.HorizonDays = 0 }},
		{name: "too many events", mutate: func(c *Config) { c.MaxEvents = 5000 }},
		{name: "inverted working hours", mutate: func(c *Config) { c.WorkingHours = availability.WorkingHours{StartHour: 17, EndHour: 9} }},
		{name: "minimum above default", mutate: func(c *Config) { c.MinDurationMinutes = 90 }},
		{name: "bad admin email", mutate: func(c *Config) { c.AdminEmail = "not-an-email" }},
		{name: "unknown timezone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }},
		{name: "negative ttl", mutate: func(c *Config) { c.CacheTTL = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := validConfig()
	cfg.TimeZone = ""
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
