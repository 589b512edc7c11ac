package scheduling

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

// Config holds the scheduler settings.
type Config struct {
	CalendarID string `yaml:"calendarId" validate:"required"`

	// TimeZone is the IANA zone working hours are evaluated in.
	TimeZone string `yaml:"timezone"`

	HorizonDays  int                       `yaml:"horizonDays" validate:"gte=1,lte=90"`
	MaxEvents    int64                     `yaml:"maxEvents" validate:"gte=1,lte=2500"`
	WorkingHours availability.WorkingHours `yaml:"workingHours"`

	DefaultDurationMinutes int `yaml:"defaultDurationMinutes" validate:"gte=1,lte=1440"`
	MinDurationMinutes     int `yaml:"minDurationMinutes" validate:"gte=1,ltefield=DefaultDurationMinutes"`

	// AdminEmail receives a notification for every booking.
	AdminEmail string `yaml:"adminEmail" validate:"omitempty,email"`

	// DefaultAttendee is confirmed when a booking names no attendees.
	DefaultAttendee string `yaml:"defaultAttendee" validate:"omitempty,email"`

	// AddMeetLink attaches a Google Meet conference to every booking.
	AddMeetLink bool `yaml:"addMeetLink"`

	CacheTTL      time.Duration `yaml:"cacheTTL" validate:"gte=0"`
	CalendarQPS   float64       `yaml:"calendarQPS" validate:"gte=0"`
	CalendarBurst int           `yaml:"calendarBurst" validate:"gte=0"`
}

// DefaultConfig returns the built-in defaults. CalendarID has no default.
func DefaultConfig() Config {
	return Config{
		TimeZone:               "UTC",
		HorizonDays:            7,
		MaxEvents:              250,
		WorkingHours:           availability.DefaultWorkingHours(),
		DefaultDurationMinutes: availability.DefaultDurationMinutes,
		MinDurationMinutes:     15,
		CacheTTL:               2 * time.Minute,
		CalendarQPS:            5,
		CalendarBurst:          10,
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path (when
// path is non-empty) and then with SCHEDULER_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.CalendarID = getEnvOrDefault("SCHEDULER_CALENDAR_ID", getEnvOrDefault("CALENDAR_ID", c.CalendarID))
	c.TimeZone = getEnvOrDefault("SCHEDULER_TIMEZONE", c.TimeZone)
	c.AdminEmail = getEnvOrDefault("SCHEDULER_ADMIN_EMAIL", c.AdminEmail)
	c.DefaultAttendee = getEnvOrDefault("SCHEDULER_DEFAULT_ATTENDEE", c.DefaultAttendee)

	var errs []error
	intEnv := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	intEnv("SCHEDULER_HORIZON_DAYS", &c.HorizonDays)
	intEnv("SCHEDULER_WORKING_HOURS_START", &c.WorkingHours.StartHour)
	intEnv("SCHEDULER_WORKING_HOURS_END", &c.WorkingHours.EndHour)
	intEnv("SCHEDULER_DEFAULT_DURATION_MINUTES", &c.DefaultDurationMinutes)
	intEnv("SCHEDULER_MIN_DURATION_MINUTES", &c.MinDurationMinutes)

	if v := os.Getenv("SCHEDULER_ADD_MEET_LINK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SCHEDULER_ADD_MEET_LINK: %w", err))
		} else {
			c.AddMeetLink = b
		}
	}

	maxEvents := int(c.MaxEvents)
	intEnv("SCHEDULER_MAX_EVENTS", &maxEvents)
	c.MaxEvents = int64(maxEvents)

	if v := os.Getenv("SCHEDULER_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SCHEDULER_CACHE_TTL: %w", err))
		} else {
			c.CacheTTL = d
		}
	}

	return errors.Join(errs...)
}

// Validate checks every field and that TimeZone names a known zone.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	if err := c.WorkingHours.Validate(); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}
	return nil
}

// Location returns the configured time zone, UTC when unset.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
