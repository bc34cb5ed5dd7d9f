package calendar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const DefaultProductID = "-//studycal//Study Schedule Calendar//EN"

// Event is one calendar entry, either materialized from a schedule or
// decoded from an iCalendar file.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

type EncodeOptions struct {
	ProductID string
	Stamp     time.Time // DTSTAMP for every event; defaults to now
}

// Encode writes events as a single VCALENDAR, one VEVENT per event in order.
// Start and end keep their zone as a TZID parameter, defined by a VTIMEZONE
// ahead of the events; UTC times are written in Z form.
func Encode(w io.Writer, events []Event, opts EncodeOptions) error {
	prodID := opts.ProductID
	if prodID == "" {
		prodID = DefaultProductID
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC().Truncate(time.Second)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Children = append(cal.Children, timezones(events)...)

	for _, e := range events {
		uid := e.UID
		if uid == "" {
			uid = uuid.NewString()
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uid)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime)
		event.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime)
		event.Props.SetText(ical.PropSummary, e.Summary)
		if e.Description != "" {
			event.Props.SetText(ical.PropDescription, e.Description)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// ReadFile decodes every event in an iCalendar file.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening calendar file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes every VEVENT of every VCALENDAR in r. Events without a
// usable start time are skipped.
func Read(r io.Reader) ([]Event, error) {
	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil || start.IsZero() {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				continue
			}
			if end.IsZero() {
				end = start
			}

			uid, _ := event.Props.Text(ical.PropUID)
			summary, _ := event.Props.Text(ical.PropSummary)
			description, _ := event.Props.Text(ical.PropDescription)
			events = append(events, Event{
				UID:         uid,
				Summary:     summary,
				Description: description,
				StartTime:   start,
				EndTime:     end,
			})
		}
	}

	return events, nil
}

// Between returns the events that overlap [from, to). A zero bound is open.
func Between(events []Event, from, to time.Time) []Event {
	var out []Event
	for _, e := range events {
		if !to.IsZero() && !e.StartTime.Before(to) {
			continue
		}
		if !from.IsZero() && !e.EndTime.After(from) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GroupByDay groups events by date string (YYYY-MM-DD in loc).
func GroupByDay(events []Event, loc *time.Location) map[string][]Event {
	grouped := make(map[string][]Event)
	for _, e := range events {
		key := e.StartTime.In(loc).Format("2006-01-02")
		grouped[key] = append(grouped[key], e)
	}
	return grouped
}

// SortedDays returns the keys of a GroupByDay result in ascending order.
func SortedDays(grouped map[string][]Event) []string {
	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
