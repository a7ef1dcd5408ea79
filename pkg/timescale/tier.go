package timescale

import (
	"math"
	"time"
)

// Unit is the grid resolution of a zoom tier.
type Unit int

const (
	UnitHalfHour Unit = iota
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
)

// String returns the unit name as used in logs and tick labels.
func (u Unit) String() string {
	switch u {
	case UnitHalfHour:
		return "30min"
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	}
	return "unknown"
}

// Tier couples a pixels-per-day threshold with the grid unit that becomes
// active at or above it.
type Tier struct {
	MinPPD float64
	Unit   Unit
}

// tiers is the single source of truth for zoom-dependent grid resolution.
// Both [Scale.SnapX] and tick generation ([Scale.Ticks]) select their unit
// from this table, so snapped drag targets always land on drawn grid lines.
// Entries are ordered by descending threshold; the first match wins.
var tiers = []Tier{
	{MinPPD: 960, Unit: UnitHalfHour},
	{MinPPD: 192, Unit: UnitHour},
	{MinPPD: 10, Unit: UnitDay},
	{MinPPD: 3, Unit: UnitWeek},
	{MinPPD: 0, Unit: UnitMonth},
}

// TierFor returns the grid tier active at the given pixels-per-day zoom.
func TierFor(ppd float64) Tier {
	for _, t := range tiers {
		if ppd >= t.MinPPD {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Tiers returns a copy of the zoom tier table, ordered from the finest grid
// (highest threshold) to the coarsest.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// SnapX aligns a pixel coordinate to the grid of the active zoom tier.
//
// The grid resolution degrades with zoom: 30-minute marks at very high zoom,
// then hours, days, Mondays, and finally month starts. Snapping is idempotent;
// an already-aligned coordinate maps to itself.
//
// Rounding rules per tier:
//   - 30-minute: total minutes round to the nearest multiple of 30; a result
//     of 24:00 carries into the next day.
//   - hour: fractional hours round to the nearest whole hour, with the same
//     carry.
//   - day: nearest calendar day (time-of-day discarded).
//   - week: nearest Monday. Up to 3 days after a Monday snaps backward,
//     otherwise forward to the next Monday.
//   - month: the nearer of the 1st of the current month and the 1st of the
//     next month; ties snap backward.
func (s *Scale) SnapX(x float64) float64 {
	switch TierFor(s.ppd).Unit {
	case UnitHalfHour:
		return s.snapToSeconds(x, 30*60)
	case UnitHour:
		return s.snapToSeconds(x, 3600)
	case UnitDay:
		return s.DateToX(s.XToDate(x))
	case UnitWeek:
		return s.DateToX(snapToMonday(s.XToDate(x)))
	default:
		return s.DateToX(snapToMonthStart(s.XToDate(x)))
	}
}

// snapToSeconds rounds the time-of-day to the nearest multiple of step
// seconds, carrying a full-day result into the next day.
func (s *Scale) snapToSeconds(x float64, step int) float64 {
	t := s.XToDateTime(x)
	day := dayStart(t)
	snapped := int(math.Round(float64(secondsOfDay(t))/float64(step))) * step
	if snapped >= secondsPerDay {
		day = day.AddDate(0, 0, 1)
		snapped = 0
	}
	return s.DateTimeToX(day.Add(time.Duration(snapped) * time.Second))
}

// snapToMonday returns the Monday nearest to d: backward when d is at most
// 3 days past a Monday (Tue..Thu), forward otherwise (Fri..Sun).
func snapToMonday(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // days since Monday
	if offset <= 3 {
		return d.AddDate(0, 0, -offset)
	}
	return d.AddDate(0, 0, 7-offset)
}

// snapToMonthStart returns whichever of the 1st of d's month and the 1st of
// the following month is fewer days away, preferring the earlier on a tie.
func snapToMonthStart(d time.Time) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	if daysBetween(first, d) <= daysBetween(d, next) {
		return first
	}
	return next
}
