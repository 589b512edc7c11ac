package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testCalendar = "primary"
	testTool     = "schedule_meeting"
)

func attrMap(attrs []slog.Attr) map[string]slog.Value {
	m := make(map[string]slog.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testTool)

	if ti.Tool != testTool {
		t.Errorf("Tool = %q, want %q", ti.Tool, testTool)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testTool).CompleteWithError(errors.New("calendar unavailable"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "calendar unavailable" {
		t.Errorf("Error = %q, want %q", ti.Error, "calendar unavailable")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs_HidesAttendees(t *testing.T) {
	ti := NewToolInvocation(testTool).
		WithCalendar(testCalendar).
		WithService(ServiceCalendar, OperationCreate).
		WithAttendees([]string{"jane@example.com", "joe@example.com"}).
		WithOutcome("booked").
		CompleteSuccess()

	m := attrMap(ti.LogAttrs())

	if _, ok := m["attendees"]; ok {
		t.Error("LogAttrs must not include attendee addresses")
	}
	domains, ok := m["attendee_domains"].Any().([]string)
	if !ok || len(domains) != 1 || domains[0] != "example.com" {
		t.Errorf("attendee_domains = %v, want [example.com]", m["attendee_domains"])
	}
	if got := m["calendar"].String(); got != testCalendar {
		t.Errorf("calendar = %q, want %q", got, testCalendar)
	}
	if got := m["outcome"].String(); got != "booked" {
		t.Errorf("outcome = %q, want %q", got, "booked")
	}
	if got := m["operation"].String(); got != OperationCreate {
		t.Errorf("operation = %q, want %q", got, OperationCreate)
	}
}

func TestToolInvocation_LogAuditAttrs_IncludesAttendees(t *testing.T) {
	ti := NewToolInvocation(testTool).
		WithAttendees([]string{"jane@example.com"}).
		CompleteWithError(errors.New("boom"))
	ti.SpanID = "span789"
	ti.TraceID = "abc123"

	m := attrMap(ti.LogAuditAttrs())

	attendees, ok := m["attendees"].Any().([]string)
	if !ok || len(attendees) != 1 || attendees[0] != "jane@example.com" {
		t.Errorf("attendees = %v, want [jane@example.com]", m["attendees"])
	}
	if m["span_id"].String() != "span789" {
		t.Errorf("span_id = %q, want span789", m["span_id"].String())
	}
	if m["error"].String() != "boom" {
		t.Errorf("error = %q, want boom", m["error"].String())
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation("web_search").CompleteSuccess()

	m := attrMap(ti.LogAttrs())
	for _, key := range []string{"calendar", "service", "operation", "outcome", "attendee_domains", "trace_id", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("unexpected attribute %q", key)
		}
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	tests := []struct {
		name       string
		config     AuditLoggingConfig
		success    bool
		wantOutput bool
		wantLevel  string
		wantPII    bool
	}{
		{name: "success", config: AuditLoggingConfig{Enabled: true}, success: true, wantOutput: true, wantLevel: "INFO"},
		{name: "failure", config: AuditLoggingConfig{Enabled: true}, success: false, wantOutput: true, wantLevel: "WARN"},
		{name: "with pii", config: AuditLoggingConfig{Enabled: true, IncludePII: true}, success: true, wantOutput: true, wantLevel: "INFO", wantPII: true},
		{name: "disabled", config: AuditLoggingConfig{Enabled: false}, success: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			al := NewAuditLoggerWithConfig(logger, tt.config)

			ti := NewToolInvocation(testTool).WithAttendees([]string{"jane@example.com"})
			ti.Complete(tt.success, nil)
			al.LogToolInvocation(ti)

			if !tt.wantOutput {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %s", buf.String())
				}
				return
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log line: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["component"] != "audit" {
				t.Errorf("component = %v, want audit", entry["component"])
			}
			if got := strings.Contains(buf.String(), "jane@example.com"); got != tt.wantPII {
				t.Errorf("address in output = %v, want %v", got, tt.wantPII)
			}
		})
	}
}

func TestAuditLogger_Nil(t *testing.T) {
	var al *AuditLogger
	// Should not panic
	al.LogToolInvocation(NewToolInvocation(testTool).CompleteSuccess())
	NewAuditLogger(nil).LogToolInvocation(nil)
}
