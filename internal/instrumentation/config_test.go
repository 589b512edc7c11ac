package instrumentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER", "TRACING_EXPORTER",
		"OTEL_TRACES_SAMPLER_ARG", "OTEL_METRIC_EXPORT_INTERVAL", "AUDIT_LOGGING_INCLUDE_PII",
	} {
		t.Setenv(key, "")
	}

	cfg := DefaultConfig()
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterPrometheus, cfg.MetricsExporter)
	assert.Equal(t, ExporterNone, cfg.TracingExporter)
	assert.Equal(t, 0.1, cfg.TraceSamplingRate)
	assert.Equal(t, DefaultExportInterval, cfg.ExportInterval)
	assert.True(t, cfg.AuditLogging.Enabled)
	assert.False(t, cfg.AuditLogging.IncludePII)
	assert.Empty(t, cfg.CalendarID)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "scheduler-eu")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "5000")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "true")

	cfg := DefaultConfig()
	assert.Equal(t, "scheduler-eu", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.MetricsExporter)
	assert.Equal(t, ExporterStdout, cfg.TracingExporter)
	assert.Equal(t, 0.5, cfg.TraceSamplingRate)
	assert.Equal(t, 5*time.Second, cfg.ExportInterval)
	assert.True(t, cfg.AuditLogging.IncludePII)
}

func TestDefaultConfig_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "sometimes")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "most")
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "-10")

	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.1, cfg.TraceSamplingRate)
	assert.Equal(t, DefaultExportInterval, cfg.ExportInterval)
}

func TestConfig_WithScheduler(t *testing.T) {
	base := Config{ServiceName: "scheduling-agent"}
	cfg := base.WithScheduler("owner@example.com", "Europe/Berlin")

	assert.Equal(t, "owner@example.com", cfg.CalendarID)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
	assert.Empty(t, base.CalendarID)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "prometheus without tracing",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone},
		},
		{
			name:   "otlp tracing with endpoint",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
		},
		{
			name:    "sampling rate below zero",
			config:  Config{TraceSamplingRate: -0.5},
			wantErr: "TraceSamplingRate",
		},
		{
			name:    "sampling rate above one",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: "TraceSamplingRate",
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: "MetricsExporter",
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "jaeger"},
			wantErr: "TracingExporter",
		},
		{
			name:    "negative export interval",
			config:  Config{ExportInterval: -time.Second},
			wantErr: "ExportInterval",
		},
		{
			name:    "otlp tracing without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
		{
			name:    "otlp metrics without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
