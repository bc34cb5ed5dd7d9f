package calendar

import (
	"fmt"
	"time"

	ical "github.com/emersion/go-ical"
)

const localFormat = "20060102T150405"

// timezones returns one VTIMEZONE per non-UTC zone the events refer to by
// TZID, in first-use order. Each lists the offsets in force from a day
// before the zone's first event to a day after its last.
func timezones(events []Event) []*ical.Component {
	type span struct {
		loc      *time.Location
		from, to time.Time
	}
	var order []string
	spans := make(map[string]*span)

	for _, e := range events {
		for _, t := range []time.Time{e.StartTime, e.EndTime} {
			loc := t.Location()
			if t.IsZero() || loc == time.UTC {
				continue
			}
			s, ok := spans[loc.String()]
			if !ok {
				spans[loc.String()] = &span{loc: loc, from: t, to: t}
				order = append(order, loc.String())
				continue
			}
			if t.Before(s.from) {
				s.from = t
			}
			if t.After(s.to) {
				s.to = t
			}
		}
	}

	comps := make([]*ical.Component, 0, len(order))
	for _, name := range order {
		s := spans[name]
		comps = append(comps, vtimezone(name, s.loc, s.from.Add(-24*time.Hour), s.to.Add(24*time.Hour)))
	}
	return comps
}

func vtimezone(name string, loc *time.Location, from, to time.Time) *ical.Component {
	tz := ical.NewComponent(ical.CompTimezone)
	tz.Props.SetText(ical.PropTimezoneID, name)

	cur := from.In(loc).Truncate(time.Second)
	tz.Children = append(tz.Children, observance(cur, cur))

	for cur.Before(to) {
		next := cur.Add(24 * time.Hour)
		if offsetOf(next) != offsetOf(cur) {
			at := transition(cur, next)
			tz.Children = append(tz.Children, observance(at.Add(-time.Second), at))
		}
		cur = next
	}
	return tz
}

// transition finds the first second in (lo, hi] with hi's offset.
func transition(lo, hi time.Time) time.Time {
	want := offsetOf(hi)
	l, h := lo.Unix(), hi.Unix()
	for h-l > 1 {
		mid := l + (h-l)/2
		if offsetOf(time.Unix(mid, 0).In(lo.Location())) == want {
			h = mid
		} else {
			l = mid
		}
	}
	return time.Unix(h, 0).In(lo.Location())
}

// observance describes the offset taking effect at at, coming from the
// offset in force at before.
func observance(before, at time.Time) *ical.Component {
	abbr, offsetTo := at.Zone()
	offsetFrom := offsetOf(before)

	kind := ical.CompTimezoneStandard
	if at.IsDST() {
		kind = ical.CompTimezoneDaylight
	}
	c := ical.NewComponent(kind)

	// DTSTART is the local time of the onset, read in the prior offset.
	setRaw(c, ical.PropDateTimeStart, at.In(time.FixedZone("", offsetFrom)).Format(localFormat))
	setRaw(c, ical.PropTimezoneOffsetFrom, formatOffset(offsetFrom))
	setRaw(c, ical.PropTimezoneOffsetTo, formatOffset(offsetTo))
	if abbr != "" {
		c.Props.SetText(ical.PropTimezoneName, abbr)
	}
	return c
}

// setRaw stores an already formatted value so no VALUE parameter is added.
func setRaw(c *ical.Component, name, value string) {
	p := ical.NewProp(name)
	p.Value = value
	c.Props.Set(p)
}

func offsetOf(t time.Time) int {
	_, off := t.Zone()
	return off
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if s != 0 {
		return fmt.Sprintf("%s%02d%02d%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d%02d", sign, h, m)
}
