package main

import (
	"fmt"
	"time"

	"github.com/christopherklint97/studycal/internal/calendar"
	"github.com/christopherklint97/studycal/internal/report"
	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <calendar.ics>",
		Short: "List the study blocks in an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	cmd.Flags().String("from", "", "only blocks on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only blocks on or before this date (YYYY-MM-DD)")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	logger, err := newLogger(cmd, cfg, "show")
	if err != nil {
		return err
	}

	events, err := calendar.ReadFile(args[0])
	if err != nil {
		return err
	}

	from, err := dateFlag(cmd, "from", loc, 0)
	if err != nil {
		return err
	}
	to, err := dateFlag(cmd, "to", loc, 1)
	if err != nil {
		return err
	}
	shown := calendar.Between(events, from, to)
	logger.Debug().Int("events", len(events)).Int("shown", len(shown)).Msg("calendar read")

	fmt.Fprintln(cmd.OutOrStdout(), report.Events(shown, loc, cfg.Calendar.Footer))
	return nil
}

// dateFlag returns midnight in loc of the flag's date plus offset days, or
// the zero time when the flag is unset.
func dateFlag(cmd *cobra.Command, name string, loc *time.Location, offset int) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := scheduler.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d.AddDays(offset).At(0, 0, loc), nil
}
