package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/PYAG1/scheduling-agent/internal/scheduling"
	"github.com/PYAG1/scheduling-agent/internal/server"
)

// SettingsURI identifies the scheduling settings resource.
const SettingsURI = "scheduling://settings"

var errNoSettings = errors.New("scheduling settings are not available")

// configured is implemented by schedulers that expose their configuration.
type configured interface {
	Config() scheduling.Config
}

// Settings is the agent-facing view of scheduling.Config. Addresses and the
// calendar ID are left out.
type Settings struct {
	TimeZone               string `json:"timezone"`
	WorkingHoursStart      int    `json:"workingHoursStart"`
	WorkingHoursEnd        int    `json:"workingHoursEnd"`
	HorizonDays            int    `json:"horizonDays"`
	DefaultDurationMinutes int    `json:"defaultDurationMinutes"`
	MinDurationMinutes     int    `json:"minDurationMinutes"`
	AddMeetLink            bool   `json:"addMeetLink"`
	SearchEnabled          bool   `json:"searchEnabled"`
}

// RegisterSchedulingResources registers the scheduling resources with the MCP server
func RegisterSchedulingResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	settingsResource := mcp.NewResource(
		SettingsURI,
		"Scheduling Settings",
		mcp.WithResourceDescription("Time zone, working hours, booking horizon and meeting durations the scheduler uses"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})

	return nil
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	c, ok := sc.Scheduler().(configured)
	if !ok {
		return nil, errNoSettings
	}
	cfg := c.Config()

	settings := Settings{
		TimeZone:               cfg.TimeZone,
		WorkingHoursStart:      cfg.WorkingHours.StartHour,
		WorkingHoursEnd:        cfg.WorkingHours.EndHour,
		HorizonDays:            cfg.HorizonDays,
		DefaultDurationMinutes: cfg.DefaultDurationMinutes,
		MinDurationMinutes:     cfg.MinDurationMinutes,
		AddMeetLink:            cfg.AddMeetLink,
		SearchEnabled:          sc.Searcher() != nil,
	}

	jsonData, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
