package schedule_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/PYAG1/scheduling-agent/internal/availability"
	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/meeting"
	"github.com/PYAG1/scheduling-agent/internal/scheduling"
	"github.com/PYAG1/scheduling-agent/internal/server"
	"github.com/PYAG1/scheduling-agent/internal/tools/common"
)

// Tool names.
const (
	ToolGetUserSchedule = "get_user_schedule"
	ToolScheduleMeeting = "schedule_meeting"
	ToolFindSlots       = "find_slots"
)

// ScheduleUnavailableMessage is returned instead of an error when the
// calendar cannot be read, so the agent can ask the user for a time.
const ScheduleUnavailableMessage = "Unable to fetch schedule. Please suggest a preferred time."

// Audit outcomes.
const (
	outcomeAvailable           = "available"
	outcomeNoAvailability      = "no_availability"
	outcomeCalendarUnavailable = "calendar_unavailable"
	outcomeBooked              = "booked"
	outcomeBookedPartial       = "booked_partial"
	outcomeRejected            = "rejected"
)

// RegisterScheduleTools registers the availability and booking tools with the MCP server
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getScheduleTool := mcp.NewTool(ToolGetUserSchedule,
		mcp.WithDescription("Get the calendar owner's availability for the coming days. Returns a recommended meeting time, up to three alternatives and the busy periods on the calendar."),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Meeting duration in minutes (default: configured default duration)"),
		),
		mcp.WithNumber("workingHoursStart",
			mcp.Description("First hour of the working day, 0-23 (default: configured working hours)"),
		),
		mcp.WithNumber("workingHoursEnd",
			mcp.Description("Hour the working day ends, 1-23 (default: configured working hours)"),
		),
	)

	s.AddTool(getScheduleTool, common.InstrumentedToolHandlerWithService(
		ToolGetUserSchedule, instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetUserSchedule(ctx, request, sc)
		}))

	scheduleMeetingTool := mcp.NewTool(ToolScheduleMeeting,
		mcp.WithDescription("Book a meeting on the calendar and send confirmation emails to the attendees"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Meeting title"),
		),
		mcp.WithString("description",
			mcp.Description("Meeting description or agenda"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2025-01-01T10:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Description("End time (RFC3339 format). Defaults to start plus the default meeting duration."),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithString("phoneNumber",
			mcp.Description("Contact phone number of the person requesting the meeting"),
		),
	)

	s.AddTool(scheduleMeetingTool, common.InstrumentedToolHandlerWithService(
		ToolScheduleMeeting, instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleMeeting(ctx, request, sc)
		}))

	findSlotsTool := mcp.NewTool(ToolFindSlots,
		mcp.WithDescription("Find open meeting slots given a list of busy periods, without reading any calendar"),
		mcp.WithString("busy",
			mcp.Required(),
			mcp.Description(`JSON array of busy periods, e.g. [{"start":"2025-01-01T09:00:00Z","end":"2025-01-01T10:00:00Z"}]. Date-only values mark all-day events.`),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Description("Meeting duration in minutes (default: 60)"),
		),
		mcp.WithString("horizonStart",
			mcp.Description("Start of the search horizon (RFC3339 format, default: now)"),
		),
		mcp.WithNumber("horizonDays",
			mcp.Description("Length of the search horizon in days (default: 7)"),
		),
		mcp.WithNumber("workingHoursStart",
			mcp.Description("First hour of the working day, 0-23 (default: 9)"),
		),
		mcp.WithNumber("workingHoursEnd",
			mcp.Description("Hour the working day ends, 1-23 (default: 17)"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA time zone that working hours refer to (default: UTC)"),
		),
	)

	s.AddTool(findSlotsTool, common.InstrumentedToolHandler(ToolFindSlots, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindSlots(ctx, request, sc)
		}))

	return nil
}

func handleGetUserSchedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	scheduler := sc.Scheduler()
	if scheduler == nil {
		return mcp.NewToolResultError("scheduling is not configured"), nil
	}

	args := request.GetArguments()
	var query scheduling.ScheduleQuery

	duration, ok, err := common.GetIntArg(args, "durationMinutes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok {
		if duration < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("durationMinutes must be positive, got %d", duration)), nil
		}
		query.DurationMinutes = duration
	}

	wh, err := workingHoursArgs(args, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query.WorkingHours = wh

	rec, err := scheduler.GetSchedule(ctx, query)
	if err != nil {
		if errors.Is(err, scheduling.ErrCalendarUnavailable) {
			common.RecordOutcome(ctx, outcomeCalendarUnavailable)
			return mcp.NewToolResultText(ScheduleUnavailableMessage), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to compute schedule: %v", err)), nil
	}

	return recommendationResult(ctx, rec.NoAvailability, rec)
}

func handleScheduleMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	scheduler := sc.Scheduler()
	if scheduler == nil {
		return mcp.NewToolResultError("scheduling is not configured"), nil
	}

	args := request.GetArguments()

	summary := common.GetStringArg(args, "summary")
	if summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	start := common.GetStringArg(args, "start")
	if start == "" {
		return mcp.NewToolResultError("start is required"), nil
	}

	req := meeting.Request{
		Summary:     summary,
		Description: common.GetStringArg(args, "description"),
		Start:       start,
		End:         common.GetStringArg(args, "end"),
		Attendees:   common.ParseCommaSeparated(common.GetStringArg(args, "attendees")),
		PhoneNumber: common.GetStringArg(args, "phoneNumber"),
	}

	result, err := scheduler.BookMeeting(ctx, req)
	if err != nil {
		var verr *meeting.ValidationError
		if errors.As(err, &verr) {
			common.RecordOutcome(ctx, outcomeRejected)
			return mcp.NewToolResultError(fmt.Sprintf("Invalid meeting request: %v", verr)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to schedule meeting: %v", err)), nil
	}

	if result.Status == scheduling.BookingStatusPartial {
		common.RecordOutcome(ctx, outcomeBookedPartial)
	} else {
		common.RecordOutcome(ctx, outcomeBooked)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode booking result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// workingHoursArgs reads the optional working hours override. Both bounds
// must be given unless defaults supplies the missing one.
func workingHoursArgs(args map[string]interface{}, defaults *availability.WorkingHours) (*availability.WorkingHours, error) {
	start, hasStart, err := common.GetIntArg(args, "workingHoursStart")
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := common.GetIntArg(args, "workingHoursEnd")
	if err != nil {
		return nil, err
	}

	switch {
	case !hasStart && !hasEnd:
		return defaults, nil
	case hasStart != hasEnd && defaults == nil:
		return nil, errors.New("workingHoursStart and workingHoursEnd must be given together")
	}

	wh := availability.WorkingHours{StartHour: start, EndHour: end}
	if !hasStart {
		wh.StartHour = defaults.StartHour
	}
	if !hasEnd {
		wh.EndHour = defaults.EndHour
	}
	if err := wh.Validate(); err != nil {
		return nil, err
	}
	return &wh, nil
}

func recommendationResult(ctx context.Context, noAvailability bool, rec any) (*mcp.CallToolResult, error) {
	if noAvailability {
		common.RecordOutcome(ctx, outcomeNoAvailability)
	} else {
		common.RecordOutcome(ctx, outcomeAvailable)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode schedule: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
