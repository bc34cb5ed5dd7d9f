package calendar

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/google/uuid"
)

const (
	DefaultLabel  = "Study"
	summarySuffix = " - Study Block"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("parsing time of day %q: expected HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Options controls how a schedule becomes calendar events.
type Options struct {
	StartTime         Clock
	Timezone          string // IANA zone name, e.g. "America/Sao_Paulo"
	DailyLimitMinutes float64
	Label             string
	Footer            string // optional closing line of every description
}

// Materialize turns each scheduled date into one study block event, in
// date order. Blocks start at StartTime in Timezone and last exactly
// DailyLimitMinutes of elapsed time, so blocks crossing a DST change end at
// a shifted wall-clock time rather than a shortened or lengthened block.
func Materialize(s *scheduler.Schedule, opts Options) ([]Event, error) {
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", opts.Timezone, err)
	}
	if math.IsNaN(opts.DailyLimitMinutes) || math.IsInf(opts.DailyLimitMinutes, 0) || opts.DailyLimitMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %v", scheduler.ErrInvalidDailyLimit, opts.DailyLimitMinutes)
	}

	label := strings.TrimSpace(opts.Label)
	if label == "" {
		label = DefaultLabel
	}
	summary := label + summarySuffix
	length := time.Duration(opts.DailyLimitMinutes * float64(time.Minute))

	events := make([]Event, 0, s.Len())
	for _, day := range s.Days() {
		start := day.Date.At(opts.StartTime.Hour, opts.StartTime.Minute, loc)
		events = append(events, Event{
			UID:         eventUID(summary, start),
			Summary:     summary,
			Description: Describe(day.Entries, opts.Footer),
			StartTime:   start,
			EndTime:     start.Add(length),
		})
	}
	return events, nil
}

// Describe lists one "<title> (HH:MM:SS)" line per entry using the item's
// full, unsplit duration, followed by the footer after a blank line.
func Describe(entries []scheduler.Entry, footer string) string {
	lines := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s (%s)", e.Title, FormatDuration(e.OriginalMinutes)))
	}
	if footer != "" {
		lines = append(lines, "", footer)
	}
	return strings.Join(lines, "\n")
}

// SplitDescription recovers the class lines of a description written by
// Describe.
func SplitDescription(description, footer string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (footer != "" && line == footer) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// FormatDuration renders minutes as HH:MM:SS, truncating fractional seconds.
// Hours are not wrapped at 24.
func FormatDuration(minutes float64) string {
	total := minutes * 60
	hh := math.Floor(total / 3600)
	mm := math.Floor(math.Mod(total, 3600) / 60)
	ss := math.Floor(math.Mod(total, 60))
	return fmt.Sprintf("%02d:%02d:%02d", int(hh), int(mm), int(ss))
}

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/christopherklint97/studycal"))

// eventUID is stable for a given block so regenerated calendars update
// existing events instead of duplicating them.
func eventUID(summary string, start time.Time) string {
	return uuid.NewSHA1(uidNamespace, []byte(summary+"|"+start.UTC().Format(time.RFC3339))).String()
}
