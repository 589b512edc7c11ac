package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrOutcome   = "outcome"
	attrKind      = "kind"
	attrCalendar  = "calendar"
)

// Outcome label values for schedule lookups.
const (
	OutcomeAvailable      = "available"
	OutcomeNoAvailability = "no_availability"
	OutcomeCalendarError  = "calendar_error"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics records observability metrics. A zero Metrics or a nil *Metrics
// silently discards everything.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	scheduleRequestsTotal     metric.Int64Counter
	scheduleSlotsFound        metric.Int64Histogram
	busyIntervalsDroppedTotal metric.Int64Counter
	bookingsTotal             metric.Int64Counter
	validationFailuresTotal   metric.Int64Counter
	notificationsTotal        metric.Int64Counter
	cacheLookupsTotal         metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.scheduleRequestsTotal, err = meter.Int64Counter(
		"schedule_requests_total",
		metric.WithDescription("Total number of availability lookups by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule_requests_total counter: %w", err)
	}

	m.scheduleSlotsFound, err = meter.Int64Histogram(
		"schedule_slots_found",
		metric.WithDescription("Number of open slots found per availability lookup"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 4, 8, 16, 32, 64),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule_slots_found histogram: %w", err)
	}

	m.busyIntervalsDroppedTotal, err = meter.Int64Counter(
		"busy_intervals_dropped_total",
		metric.WithDescription("Total number of calendar intervals dropped as unparsable or empty"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create busy_intervals_dropped_total counter: %w", err)
	}

	m.bookingsTotal, err = meter.Int64Counter(
		"bookings_total",
		metric.WithDescription("Total number of meeting booking attempts"),
		metric.WithUnit("{booking}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings_total counter: %w", err)
	}

	m.validationFailuresTotal, err = meter.Int64Counter(
		"meeting_validation_failures_total",
		metric.WithDescription("Total number of rejected booking requests by failure kind"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting_validation_failures_total counter: %w", err)
	}

	m.notificationsTotal, err = meter.Int64Counter(
		"notifications_total",
		metric.WithDescription("Total number of confirmation emails sent"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications_total counter: %w", err)
	}

	m.cacheLookupsTotal, err = meter.Int64Counter(
		"calendar_cache_lookups_total",
		metric.WithDescription("Total number of calendar event cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_cache_lookups_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a Google API operation.
//
// Parameters:
//   - service: Google service name (calendar, gmail, customsearch)
//   - operation: Operation type (list, create, send, search)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordScheduleResult records one availability lookup and how many slots it found.
func (m *Metrics) RecordScheduleResult(ctx context.Context, slotCount int, noAvailability bool) {
	if m == nil || m.scheduleRequestsTotal == nil || m.scheduleSlotsFound == nil {
		return
	}

	outcome := OutcomeAvailable
	if noAvailability {
		outcome = OutcomeNoAvailability
	}

	m.scheduleRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
	m.scheduleSlotsFound.Record(ctx, int64(slotCount))
}

// RecordScheduleFailure records a lookup that never reached the slot finder.
func (m *Metrics) RecordScheduleFailure(ctx context.Context, outcome string) {
	if m == nil || m.scheduleRequestsTotal == nil {
		return
	}
	m.scheduleRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordDroppedIntervals counts busy intervals that were discarded.
func (m *Metrics) RecordDroppedIntervals(ctx context.Context, calendarID string, count int) {
	if m == nil || m.busyIntervalsDroppedTotal == nil || count == 0 {
		return
	}

	var attrs []attribute.KeyValue
	if m.detailedLabels && calendarID != "" {
		attrs = append(attrs, attribute.String(attrCalendar, calendarID))
	}
	m.busyIntervalsDroppedTotal.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordBooking records a booking attempt. Status is "success" or "error".
func (m *Metrics) RecordBooking(ctx context.Context, status string) {
	if m == nil || m.bookingsTotal == nil {
		return
	}
	m.bookingsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordValidationFailure records a rejected booking request by failure kind.
func (m *Metrics) RecordValidationFailure(ctx context.Context, kind string) {
	if m == nil || m.validationFailuresTotal == nil {
		return
	}
	m.validationFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrKind, kind)))
}

// RecordNotification records a confirmation email. Kind is "admin" or "attendee".
func (m *Metrics) RecordNotification(ctx context.Context, kind, status string) {
	if m == nil || m.notificationsTotal == nil {
		return
	}
	m.notificationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	))
}

// RecordCacheLookup records an event cache hit or miss.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil || m.cacheLookupsTotal == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)

	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// StatusFromError maps an error to StatusSuccess or StatusError.
func StatusFromError(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
