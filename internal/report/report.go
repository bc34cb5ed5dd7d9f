package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/christopherklint97/studycal/internal/calendar"
	"github.com/christopherklint97/studycal/internal/scheduler"
)

// Schedule renders one block per scheduled day with each entry's allocation.
func Schedule(s *scheduler.Schedule, dailyLimit float64) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Study plan"))
	sb.WriteString("\n")

	for _, day := range s.Days() {
		header := fmt.Sprintf("%s %s (%s / %s)",
			scheduler.WeekdayName(day.Date.Weekday()),
			day.Date,
			Minutes(s.AllocatedOn(day.Date)),
			Minutes(dailyLimit),
		)
		sb.WriteString("\n")
		sb.WriteString(dayStyle.Render(header))
		sb.WriteString("\n")

		for _, e := range day.Entries {
			line := fmt.Sprintf("  %8s  %s", Minutes(e.AllocatedMinutes), e.Title)
			if e.Partial() {
				line += " " + splitStyle.Render(fmt.Sprintf("(part of %s)", calendar.FormatDuration(e.OriginalMinutes)))
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(Totals(s)))
	return boxStyle.Render(sb.String())
}

// Totals is a one-line summary of a schedule.
func Totals(s *scheduler.Schedule) string {
	first, ok := s.FirstDate()
	if !ok {
		return "Nothing to schedule."
	}
	last, _ := s.LastDate()

	entries := 0
	for _, day := range s.Days() {
		entries += len(day.Entries)
	}
	return fmt.Sprintf("%d days, %d entries, %s total, %s to %s",
		s.Len(), entries, Minutes(s.Total()), first, last)
}

// Events renders decoded calendar events grouped by day in loc.
func Events(events []calendar.Event, loc *time.Location, footer string) string {
	if len(events) == 0 {
		return dimStyle.Render("No events found.")
	}

	grouped := calendar.GroupByDay(events, loc)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d study blocks", len(events))))
	sb.WriteString("\n")

	for _, day := range calendar.SortedDays(grouped) {
		for _, e := range grouped[day] {
			start := e.StartTime.In(loc)
			header := fmt.Sprintf("%s %s %s–%s  %s",
				start.Format("Mon"),
				day,
				start.Format("15:04"),
				e.EndTime.In(loc).Format("15:04"),
				e.Summary,
			)
			sb.WriteString("\n")
			sb.WriteString(dayStyle.Render(header))
			sb.WriteString("\n")
			for _, line := range calendar.SplitDescription(e.Description, footer) {
				sb.WriteString("  ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}

	return boxStyle.Render(sb.String())
}

// Minutes formats a minute count as "1h 30min", keeping one decimal for
// fractional minutes.
func Minutes(m float64) string {
	m = math.Round(m*10) / 10
	whole := math.Floor(m)
	h := int(whole) / 60
	rest := m - float64(h*60)

	var mins string
	if rest == math.Trunc(rest) {
		mins = fmt.Sprintf("%dmin", int(rest))
	} else {
		mins = fmt.Sprintf("%.1fmin", rest)
	}

	if h == 0 {
		return mins
	}
	if rest == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %s", h, mins)
}
