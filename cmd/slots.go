package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

type slotsOptions struct {
	busyFile          string
	durationMinutes   int
	start             string
	horizonDays       int
	workingHoursStart int
	workingHoursEnd   int
	timezone          string
}

func newSlotsCmd() *cobra.Command {
	defaults := availability.DefaultWorkingHours()
	opts := slotsOptions{}

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Find open meeting slots in a file of busy periods",
		Long: `Run the slot finder over busy periods read from a YAML or JSON file and
print the recommendation as JSON. No calendar is contacted.

The file holds a list of {start, end} entries. Timestamps are RFC3339; a bare
date (2025-01-01) marks an all-day entry. Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if opts.busyFile != "-" {
				f, err := os.Open(opts.busyFile)
				if err != nil {
					return fmt.Errorf("failed to open busy file: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runSlots(in, cmd.OutOrStdout(), opts, time.Now())
		},
	}

	cmd.Flags().StringVarP(&opts.busyFile, "busy", "b", "", "YAML or JSON file of busy periods (\"-\" for stdin)")
	cmd.Flags().IntVarP(&opts.durationMinutes, "duration", "d", availability.DefaultDurationMinutes, "Meeting duration in minutes")
	cmd.Flags().StringVar(&opts.start, "start", "", "Horizon start, RFC3339 (default: now)")
	cmd.Flags().IntVar(&opts.horizonDays, "days", 7, "Horizon length in days")
	cmd.Flags().IntVar(&opts.workingHoursStart, "working-hours-start", defaults.StartHour, "First working hour (0-23)")
	cmd.Flags().IntVar(&opts.workingHoursEnd, "working-hours-end", defaults.EndHour, "Hour the working day ends (1-23)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "UTC", "IANA time zone working hours refer to")
	_ = cmd.MarkFlagRequired("busy")

	return cmd
}

func runSlots(in io.Reader, out io.Writer, opts slotsOptions, now time.Time) error {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.timezone, err)
	}
	if opts.horizonDays < 1 {
		return fmt.Errorf("days must be at least 1, got %d", opts.horizonDays)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read busy periods: %w", err)
	}
	// JSON is valid YAML, so one decoder covers both formats
	var raw []availability.RawInterval
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse busy periods: %w", err)
	}

	horizonStart := now.In(loc)
	if opts.start != "" {
		t, _, err := availability.ParseTimestamp(opts.start, loc)
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		horizonStart = t.In(loc)
	}
	horizonEnd := horizonStart.AddDate(0, 0, opts.horizonDays)

	busy, dropped := availability.NormalizeIntervals(raw, loc)
	for _, err := range dropped {
		fmt.Fprintf(os.Stderr, "skipping busy period: %v\n", err)
	}

	wh := availability.WorkingHours{StartHour: opts.workingHoursStart, EndHour: opts.workingHoursEnd}
	slots, err := availability.FindAvailableSlots(busy, opts.durationMinutes, horizonStart, horizonEnd, wh)
	if err != nil {
		return err
	}

	if raw == nil {
		raw = []availability.RawInterval{}
	}
	rec := availability.BuildScheduleRecommendation(slots, raw, horizonStart)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
