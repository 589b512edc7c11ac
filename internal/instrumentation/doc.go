// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the scheduling-agent MCP server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// Scheduling Metrics:
//   - schedule_requests_total: Counter of availability lookups by outcome
//   - schedule_slots_found: Histogram of open slots found per lookup
//   - busy_intervals_dropped_total: Counter of calendar intervals that could not be parsed
//   - bookings_total: Counter of booking attempts by status
//   - meeting_validation_failures_total: Counter of rejected booking requests by kind
//   - notifications_total: Counter of confirmation emails by kind and status
//   - calendar_cache_lookups_total: Counter of event cache lookups by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>), Google API calls
// (google.<service>.<operation>) and scheduling steps (scheduling.<step>).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: scheduling-agent)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	m := provider.Metrics()
//	m.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
//	m.RecordScheduleResult(ctx, len(slots), rec.NoAvailability)
package instrumentation
