package source

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"timelane/pkg/timeline"
)

// DefaultMaxOccurrences caps recurrence expansion per event when the caller
// does not set a limit.
const DefaultMaxOccurrences = 5000

func maxOccurrences(opts Options) int {
	if opts.MaxOccurrences > 0 {
		return opts.MaxOccurrences
	}
	return DefaultMaxOccurrences
}

func expandWindow(w timeline.Range) timeline.Range {
	if !w.IsZero() {
		return w
	}
	return defaultWindow(time.Now())
}

// defaultWindow bounds expansion when no window is given: one month back,
// eleven months ahead.
func defaultWindow(now time.Time) timeline.Range {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return timeline.Range{Start: day.AddDate(0, -1, 0), End: day.AddDate(0, 11, 0)}
}

// expandEvents turns parsed VEVENTs into concrete timeline events inside the
// window. Overrides (RECURRENCE-ID) are grouped by UID and replace the
// matching instance of their base event.
func expandEvents(parsed []icsEvent, window timeline.Range, maxOcc int) []*timeline.Event {
	bases := make([]icsEvent, 0, len(parsed))
	overrides := make(map[string][]icsEvent)
	for _, ev := range parsed {
		if ev.IsOverride {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		bases = append(bases, ev)
	}

	var out []*timeline.Event
	for _, base := range bases {
		if base.RRule == "" {
			if overlapsWindow(base.Start, base.End, window) {
				out = append(out, base.toEvent(base.Start, base.End))
			}
			continue
		}
		out = append(out, expandRecurring(base, overrides[base.UID], window, maxOcc)...)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// expandRecurring materializes the instances of one recurring event inside
// the window, after removing EXDATEs and applying overrides.
func expandRecurring(base icsEvent, overrides []icsEvent, window timeline.Range, maxOcc int) []*timeline.Event {
	r, err := rrule.StrToRRule(base.RRule)
	if err != nil {
		// Unparseable rule: keep the seed occurrence rather than losing
		// the event entirely.
		if overlapsWindow(base.Start, base.End, window) {
			return []*timeline.Event{base.toEvent(base.Start, base.End)}
		}
		return nil
	}
	r.DTStart(base.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range base.ExDates {
		set.ExDate(ex)
	}

	duration := base.End.Sub(base.Start)
	if base.End.IsZero() || duration < 0 {
		duration = 0
	}

	// Look back by the event duration so instances that started before the
	// window but run into it are kept, and stop at the last instant of the
	// window's final day.
	windowEnd := window.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
	times := set.Between(window.Start.Add(-duration), windowEnd, true)
	if len(times) > maxOcc {
		times = times[:maxOcc]
	}

	events := make([]*timeline.Event, 0, len(times))
	for _, occ := range times {
		var ev *timeline.Event
		if ov, ok := findOverride(overrides, occ); ok {
			ev = ov.toEvent(ov.Start, ov.End)
		} else {
			ev = base.toEvent(occ, occ.Add(duration))
		}
		if !overlapsWindow(ev.Start, ev.End, window) {
			continue
		}
		ev.ID = fmt.Sprintf("%s-%s", base.UID, occ.Format("20060102T150405"))
		events = append(events, ev)
	}
	return events
}

// findOverride returns the override for the instance that originally
// started at occ. When a feed carries several, the highest SEQUENCE wins.
func findOverride(overrides []icsEvent, occ time.Time) (icsEvent, bool) {
	var best icsEvent
	found := false
	for _, ov := range overrides {
		if !ov.RecurrenceID.Equal(occ) {
			continue
		}
		if !found || ov.Sequence > best.Sequence {
			best = ov
			found = true
		}
	}
	return best, found
}

// toEvent converts one occurrence to a timeline event.
//
// ICS end times are exclusive: an all-day event ending "on the 3rd" covers
// through the 2nd. Any end landing exactly on a day boundary is pulled back
// one day so the inclusive-day model does not gain a phantom day.
func (e icsEvent) toEvent(start, end time.Time) *timeline.Event {
	if end.IsZero() || end.Before(start) {
		end = start
	}
	if end.After(start) && atMidnight(end) {
		end = end.AddDate(0, 0, -1)
	}

	title := e.Summary
	if title == "" {
		title = e.UID
	}

	return &timeline.Event{
		ID:    e.UID,
		Title: title,
		Start: start,
		End:   end,
		Notes: e.notes(),
	}
}

func (e icsEvent) notes() string {
	switch {
	case e.Description != "" && e.Location != "":
		return e.Description + "\n" + e.Location
	case e.Description != "":
		return e.Description
	default:
		return e.Location
	}
}

// overlapsWindow compares at day granularity: an event at 22:00 on the
// window's last day still belongs to it.
func overlapsWindow(start, end time.Time, window timeline.Range) bool {
	if end.Before(start) {
		end = start
	}
	return !dayOf(end).Before(window.Start) && !dayOf(start).After(window.End)
}

// dayOf returns the calendar day of t in t's own location, as a UTC
// midnight. Matching Normalize, the feed's local date decides which day an
// event lands on.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// atMidnight reports whether t sits exactly on a day boundary in its own
// location.
func atMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}
