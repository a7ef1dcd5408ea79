package timescale

import "time"

// Tick is one grid line position on the axis.
type Tick struct {
	Time  time.Time
	X     float64
	Major bool
}

// Ticks returns the grid line positions for the full window at the active
// zoom tier, including the right edge of the final (inclusive) day.
//
// Major ticks mark the next-coarser boundary: midnights on sub-day grids,
// Mondays on the day grid, month starts on the week grid, and year starts on
// the month grid.
func (s *Scale) Ticks() []Tick {
	return s.TicksBetween(s.start, s.end.AddDate(0, 0, 1))
}

// TicksBetween returns the grid line positions within [from, to], clamped to
// a window that starts no earlier than the scale's own start. It is used by
// viewport-style renderers that only draw the visible slice of the axis.
func (s *Scale) TicksBetween(from, to time.Time) []Tick {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil
	}
	if from.Before(s.start) {
		from = s.start
	}

	unit := TierFor(s.ppd).Unit
	var out []Tick
	for t := firstTick(dayStart(from), unit); !t.After(to); t = nextTick(t, unit) {
		out = append(out, Tick{Time: t, X: s.DateTimeToX(t), Major: isMajorTick(t, unit)})
	}
	return out
}

// firstTick returns the earliest grid boundary at or after from.
func firstTick(from time.Time, unit Unit) time.Time {
	switch unit {
	case UnitHalfHour, UnitHour, UnitDay:
		return from // day starts lie on every sub-day grid
	case UnitWeek:
		if offset := (int(from.Weekday()) + 6) % 7; offset != 0 {
			return from.AddDate(0, 0, 7-offset)
		}
		return from
	default:
		if from.Day() != 1 {
			return time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		}
		return from
	}
}

func nextTick(t time.Time, unit Unit) time.Time {
	switch unit {
	case UnitHalfHour:
		return t.Add(30 * time.Minute)
	case UnitHour:
		return t.Add(time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, 1)
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

func isMajorTick(t time.Time, unit Unit) bool {
	switch unit {
	case UnitHalfHour, UnitHour:
		return secondsOfDay(t) == 0
	case UnitDay:
		return t.Weekday() == time.Monday
	case UnitWeek:
		return t.Day() <= 7 // first Monday of the month
	default:
		return t.Month() == time.January
	}
}
