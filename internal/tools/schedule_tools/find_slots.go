package schedule_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PYAG1/scheduling-agent/internal/availability"
	"github.com/PYAG1/scheduling-agent/internal/logging"
	"github.com/PYAG1/scheduling-agent/internal/server"
	"github.com/PYAG1/scheduling-agent/internal/tools/common"
)

const defaultHorizonDays = 7

const maxHorizonDays = 90

var now = time.Now

// findSlotsResult is the find_slots payload: the recommendation plus the
// reason each unusable busy period was ignored.
type findSlotsResult struct {
	availability.ScheduleRecommendation
	DroppedIntervals []string `json:"droppedIntervals,omitempty"`
}

func handleFindSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	loc := time.UTC
	if tz := strings.TrimSpace(common.GetStringArg(args, "timezone")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timezone %q: %v", tz, err)), nil
		}
		loc = l
	}

	var raw []availability.RawInterval
	if err := json.Unmarshal([]byte(common.GetStringArg(args, "busy")), &raw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("busy must be a JSON array of {start, end} objects: %v", err)), nil
	}

	duration, ok, err := common.GetIntArg(args, "durationMinutes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		duration = availability.DefaultDurationMinutes
	}

	days, ok, err := common.GetIntArg(args, "horizonDays")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		days = defaultHorizonDays
	}
	if days < 1 || days > maxHorizonDays {
		return mcp.NewToolResultError(fmt.Sprintf("horizonDays must be between 1 and %d, got %d", maxHorizonDays, days)), nil
	}

	horizonStart := now().In(loc).Truncate(time.Minute)
	if s := common.GetStringArg(args, "horizonStart"); s != "" {
		t, _, err := availability.ParseTimestamp(s, loc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid horizonStart: %v", err)), nil
		}
		horizonStart = t.In(loc)
	}
	horizonEnd := horizonStart.AddDate(0, 0, days)

	defaults := availability.DefaultWorkingHours()
	wh, err := workingHoursArgs(args, &defaults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	busy, dropped := availability.NormalizeIntervals(raw, loc)
	if len(dropped) > 0 {
		sc.Metrics().RecordDroppedIntervals(ctx, "", len(dropped))
		logging.WithTool(sc.Logger(), ToolFindSlots).DebugContext(ctx, "dropped unusable busy intervals",
			slog.Int("count", len(dropped)),
			logging.Err(errors.Join(dropped...)))
	}

	slots, err := availability.FindAvailableSlots(busy, duration, horizonStart, horizonEnd, *wh)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find slots: %v", err)), nil
	}

	result := findSlotsResult{
		ScheduleRecommendation: availability.BuildScheduleRecommendation(slots, raw, horizonStart),
	}
	for _, err := range dropped {
		result.DroppedIntervals = append(result.DroppedIntervals, err.Error())
	}
	return recommendationResult(ctx, result.NoAvailability, result)
}
