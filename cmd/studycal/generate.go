package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/christopherklint97/studycal/internal/calendar"
	"github.com/christopherklint97/studycal/internal/config"
	"github.com/christopherklint97/studycal/internal/course"
	"github.com/christopherklint97/studycal/internal/report"
	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <course-file>",
		Short: "Schedule a course and write it as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}

	f := cmd.Flags()
	f.String("start", "", `first day to study: YYYY-MM-DD or a phrase like "next monday" (default today)`)
	f.IntSlice("days", nil, "study days, 0=Monday ... 6=Sunday (e.g. 0,2,4)")
	f.String("start-time", "", "time each study block starts, HH:MM")
	f.String("timezone", "", "IANA timezone of the study blocks")
	f.Duration("daily-limit", 0, "study time per day, e.g. 2h or 90m")
	f.Float64("multiplier", 0, "scale every class duration, e.g. 1.5 for pauses and notes")
	f.String("label", "", "calendar label (default: course name)")
	f.StringP("output", "o", "", `calendar file to write, "-" for stdout`)
	f.Bool("include-completed", false, "also schedule classes marked completed")
	f.Bool("save-defaults", false, "store the schedule settings used as the new defaults")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger, err := newLogger(cmd, cfg, "generate")
	if err != nil {
		return err
	}

	c, err := course.Load(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("label") && strings.TrimSpace(c.Name) != "" {
		cfg.Calendar.Label = c.Name
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}
	startFlag, _ := cmd.Flags().GetString("start")
	start, err := resolveStart(startFlag, time.Now(), loc)
	if err != nil {
		return err
	}
	includeCompleted, _ := cmd.Flags().GetBool("include-completed")

	p, err := buildPlan(cfg, c, start, includeCompleted, logger)
	if err != nil {
		return err
	}

	output := cfg.Calendar.Output
	if err := writeCalendar(cmd, output, p.Events, cfg.Calendar.ProductID); err != nil {
		return err
	}
	logger.Info().Str("output", output).Int("events", len(p.Events)).Msg("calendar written")

	fmt.Fprintln(reportWriter(cmd, output), report.Schedule(p.Schedule, p.Scheduler.DailyLimit()))

	if save, _ := cmd.Flags().GetBool("save-defaults"); save {
		if err := config.SaveSchedule(cfgPath, cfg.Schedule); err != nil {
			return fmt.Errorf("saving defaults: %w", err)
		}
		logger.Info().Str("config", cfgPath).Msg("schedule defaults saved")
	}

	return nil
}

// applyGenerateFlags overlays explicitly set flags on the loaded config.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("days") {
		cfg.Schedule.StudyDays, _ = f.GetIntSlice("days")
	}
	if f.Changed("start-time") {
		cfg.Schedule.StartTime, _ = f.GetString("start-time")
	}
	if f.Changed("timezone") {
		cfg.Schedule.Timezone, _ = f.GetString("timezone")
	}
	if f.Changed("daily-limit") {
		d, _ := f.GetDuration("daily-limit")
		if d <= 0 {
			return fmt.Errorf("--daily-limit must be positive, got %s", d)
		}
		cfg.Schedule.DailyLimitMinutes = d.Minutes()
	}
	if f.Changed("multiplier") {
		cfg.Schedule.Multiplier, _ = f.GetFloat64("multiplier")
	}
	if f.Changed("label") {
		cfg.Calendar.Label, _ = f.GetString("label")
	}
	if f.Changed("output") {
		cfg.Calendar.Output, _ = f.GetString("output")
	}
	return nil
}

// nowWords are the phrases that legitimately resolve to the reference time.
var nowWords = map[string]bool{"today": true, "now": true}

// resolveStart accepts an ISO date or a natural-language phrase resolved
// forward from now, both read as dates in loc. Empty means today.
func resolveStart(s string, now time.Time, loc *time.Location) (scheduler.Date, error) {
	now = now.In(loc)
	s = strings.TrimSpace(s)
	if s == "" {
		return scheduler.DateOf(now), nil
	}
	if d, err := scheduler.ParseDate(s); err == nil {
		return d, nil
	}

	invalid := fmt.Errorf("invalid start date %q: use YYYY-MM-DD or a phrase like \"next monday\"", s)
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return scheduler.Date{}, invalid
	}
	// Unrecognized text comes back as the reference time without an error.
	if t.Equal(now) && !nowWords[strings.ToLower(s)] {
		return scheduler.Date{}, invalid
	}
	return scheduler.DateOf(t.In(loc)), nil
}

type plan struct {
	Course    *course.Course
	Scheduler *scheduler.Scheduler
	Schedule  *scheduler.Schedule
	Events   []calendar.Event
}

// buildPlan runs the core: multiplier, packing, then materialization.
// cfg must already be validated.
func buildPlan(cfg *config.Config, c *course.Course, start scheduler.Date, includeCompleted bool, logger zerolog.Logger) (*plan, error) {
	days, err := scheduler.NewWeekdays(cfg.Schedule.StudyDays...)
	if err != nil {
		return nil, err
	}
	sched, err := scheduler.New(days, cfg.Schedule.DailyLimitMinutes)
	if err != nil {
		return nil, err
	}

	items := c.WorkItems(includeCompleted)
	if skipped := len(c.Items) - len(items); skipped > 0 {
		logger.Debug().Int("skipped", skipped).Msg("completed classes left out")
	}

	items, err = scheduler.ApplyMultiplier(items, cfg.Schedule.Multiplier)
	if err != nil {
		return nil, err
	}

	s, err := sched.Schedule(items, start)
	if err != nil {
		return nil, fmt.Errorf("scheduling classes: %w", err)
	}
	logger.Debug().
		Int("items", len(items)).
		Int("days", s.Len()).
		Str("study_days", sched.Weekdays().String()).
		Float64("daily_limit_min", sched.DailyLimit()).
		Str("start", start.String()).
		Msg("classes scheduled")

	clock, err := calendar.ParseClock(cfg.Schedule.StartTime)
	if err != nil {
		return nil, err
	}
	events, err := calendar.Materialize(s, calendar.Options{
		StartTime:         clock,
		Timezone:          cfg.Schedule.Timezone,
		DailyLimitMinutes: sched.DailyLimit(),
		Label:             cfg.Calendar.Label,
		Footer:            cfg.Calendar.Footer,
	})
	if err != nil {
		return nil, fmt.Errorf("building calendar events: %w", err)
	}

	return &plan{Course: c, Scheduler: sched, Schedule: s, Events: events}, nil
}

func writeCalendar(cmd *cobra.Command, output string, events []calendar.Event, productID string) error {
	opts := calendar.EncodeOptions{ProductID: productID}
	if output == "-" {
		return calendar.Encode(cmd.OutOrStdout(), events, opts)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating calendar file: %w", err)
	}
	if err := calendar.Encode(f, events, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing calendar file: %w", err)
	}
	return nil
}
