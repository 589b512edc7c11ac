package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Label values and exporter names.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	ServiceGmail        = "gmail"
	ServiceCalendar     = "calendar"
	ServiceCustomSearch = "customsearch"

	// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset.
	DefaultServiceName = "scheduling-agent"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// DefaultExportInterval is how often push exporters flush metrics.
	DefaultExportInterval = 30 * time.Second
)

// Config describes where scheduler telemetry goes.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// InstanceID defaults to the hostname.
	InstanceID string

	// Enabled is false when INSTRUMENTATION_ENABLED=false; metrics and
	// spans are then dropped.
	Enabled bool

	MetricsExporter string `validate:"omitempty,oneof=prometheus otlp stdout"`
	TracingExporter string `validate:"omitempty,oneof=otlp stdout none"`

	// OTLPEndpoint is host:port without a scheme. OTLPInsecure turns off
	// TLS and is meant for local collectors.
	OTLPEndpoint string
	OTLPInsecure bool

	// ExportInterval applies to the otlp and stdout metric exporters.
	ExportInterval time.Duration `validate:"gte=0"`

	TraceSamplingRate float64 `validate:"gte=0,lte=1"`

	// CalendarID and TimeZone name the calendar this process books against.
	// TimeZone is always a resource attribute; CalendarID is an address and
	// is only attached with DetailedLabels.
	CalendarID string
	TimeZone   string

	// DetailedLabels adds the calendar ID to metric labels and resources.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool invocation audit log.
type AuditLoggingConfig struct {
	Enabled bool
	// IncludePII logs attendee addresses instead of their domains.
	IncludePII bool
}

// DefaultConfig reads Config from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion:    "unknown",
		InstanceID:        getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		ExportInterval:    getEnvMillisOrDefault("OTEL_METRIC_EXPORT_INTERVAL", DefaultExportInterval),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludePII: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// WithScheduler returns a copy of c describing the given calendar and
// reference time zone.
func (c Config) WithScheduler(calendarID, timeZone string) Config {
	c.CalendarID = calendarID
	c.TimeZone = timeZone
	return c
}

// Validate checks exporter names, the sampling rate and that OTLP exporters
// have an endpoint.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid telemetry config: %w", err)
	}
	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return errors.New("invalid telemetry config: OTLP endpoint is required for the otlp exporter; set OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvMillisOrDefault reads a millisecond count, the unit the OTEL_*
// interval variables use.
func getEnvMillisOrDefault(key string, defaultValue time.Duration) time.Duration {
	ms, err := strconv.Atoi(os.Getenv(key))
	if err != nil || ms <= 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
