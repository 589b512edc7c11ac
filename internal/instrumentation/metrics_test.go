package instrumentation

import (
	"errors"
	"testing"
	"time"
)

func TestMetrics_RecordAll(t *testing.T) {
	ctx, provider := newTestProvider(t)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationSend, StatusError, 500*time.Millisecond)
	metrics.RecordScheduleResult(ctx, 4, false)
	metrics.RecordScheduleResult(ctx, 0, true)
	metrics.RecordScheduleFailure(ctx, OutcomeCalendarError)
	metrics.RecordDroppedIntervals(ctx, "primary", 2)
	metrics.RecordDroppedIntervals(ctx, "primary", 0)
	metrics.RecordBooking(ctx, StatusSuccess)
	metrics.RecordValidationFailure(ctx, "InvalidAttendeeEmail")
	metrics.RecordNotification(ctx, "attendee", StatusSuccess)
	metrics.RecordCacheLookup(ctx, true)
	metrics.RecordCacheLookup(ctx, false)
	metrics.RecordToolInvocation(ctx, "get_user_schedule", StatusSuccess, 250*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx, cancel := newContext()
	defer cancel()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	metrics.RecordScheduleResult(ctx, 3, false)
	metrics.RecordBooking(ctx, StatusError)
	metrics.RecordToolInvocation(ctx, "schedule_meeting", StatusError, time.Second)
}

func TestMetrics_NilReceiver(t *testing.T) {
	ctx, cancel := newContext()
	defer cancel()

	var metrics *Metrics
	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationCreate, StatusSuccess, time.Millisecond)
	metrics.RecordScheduleResult(ctx, 1, false)
	metrics.RecordCacheLookup(ctx, true)
	metrics.RecordNotification(ctx, "admin", StatusSuccess)
}

func TestStatusFromError(t *testing.T) {
	if got := StatusFromError(nil); got != StatusSuccess {
		t.Errorf("StatusFromError(nil) = %q, want %q", got, StatusSuccess)
	}
	if got := StatusFromError(errors.New("boom")); got != StatusError {
		t.Errorf("StatusFromError(err) = %q, want %q", got, StatusError)
	}
}
