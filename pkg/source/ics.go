package source

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"timelane/pkg/errors"
	"timelane/pkg/timeline"
)

// icsEvent is one VEVENT lifted out of a calendar, before recurrence
// expansion. Times keep the location the feed declared; day truncation
// happens later in Normalize using that location's calendar date.
type icsEvent struct {
	UID          string
	Summary      string
	Description  string
	Location     string
	Start        time.Time
	End          time.Time
	RRule        string
	ExDates      []time.Time
	RecurrenceID time.Time
	IsOverride   bool
	Sequence     int
}

// parseICS converts an iCalendar feed into a document, expanding recurring
// events within the window. Malformed VEVENTs (no UID, no DTSTART) are
// skipped so one broken entry cannot take down a whole subscription.
func parseICS(raw []byte, opts Options) (*timeline.Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New(errors.ErrCodeSourceParse, "empty ICS feed")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "parse ICS feed")
	}

	components := cal.Events()
	parsed := make([]icsEvent, 0, len(components))
	for _, ve := range components {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		parsed = append(parsed, ev)
	}

	return &timeline.Document{
		Title:  calendarName(cal),
		Events: expandEvents(parsed, expandWindow(opts.Window), maxOccurrences(opts)),
	}, nil
}

// calendarName returns the feed's display name, when it declares one.
func calendarName(cal *ical.Calendar) string {
	for _, p := range cal.CalendarProperties {
		if p.IANAToken == "X-WR-CALNAME" {
			return p.Value
		}
	}
	return ""
}

func parseVEvent(ve *ical.VEvent) (icsEvent, bool) {
	var out icsEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, false
	}
	out.UID = uid.Value

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false
	}
	out.Start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.End = end
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySequence); p != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
			out.Sequence = n
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}

	// EXDATE can appear multiple times, each with a comma-separated list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, ok := parseICSTime(part); ok {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, ok := parseICSTime(p.Value); ok {
			out.RecurrenceID = t
			out.IsOverride = true
		}
	}

	return out, true
}

// parseICSTime parses the date and date-time forms that appear in EXDATE
// and RECURRENCE-ID values.
func parseICSTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, false
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse("20060102T150405Z", v)
		return t, err == nil
	case strings.Contains(v, "T"):
		t, err := time.Parse("20060102T150405", v)
		return t, err == nil
	default:
		t, err := time.Parse("20060102", v)
		return t, err == nil
	}
}
