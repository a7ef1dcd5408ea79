package timescale

import (
	"math"
	"time"
)

// Zoom bounds for the pixels-per-day factor. Values outside this range are
// clamped, never stored.
const (
	MinPixelsPerDay     = 2.0
	MaxPixelsPerDay     = 2000.0
	DefaultPixelsPerDay = 20.0
)

const (
	secondsPerDay = 86400

	// secondEpsilon keeps exact grid boundaries from flooring into the
	// previous second after a multiply/divide round trip through float64.
	secondEpsilon = 1e-5
)

// Rect is an axis-aligned rectangle in timeline pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale maps calendar time to a one-dimensional pixel axis and back.
//
// A Scale spans a fixed date window [start, end] at day granularity and a
// zoom factor expressed in pixels per day. The zero value is not usable; use
// [New] to create a valid Scale.
type Scale struct {
	start time.Time // normalized to 00:00 UTC
	end   time.Time // normalized to 00:00 UTC
	ppd   float64
}

// New creates a Scale spanning [start, end] at the given pixels-per-day zoom.
//
// Dates are normalized to day granularity (00:00 UTC). If end precedes start,
// the window collapses to the single day [start, start]. A ppd of zero (or
// NaN) selects [DefaultPixelsPerDay]; other values are clamped into
// [MinPixelsPerDay, MaxPixelsPerDay].
func New(start, end time.Time, ppd float64) *Scale {
	s := dayStart(start)
	e := dayStart(end)
	if e.Before(s) {
		e = s
	}
	if ppd == 0 || math.IsNaN(ppd) {
		ppd = DefaultPixelsPerDay
	}
	return &Scale{start: s, end: e, ppd: clampPPD(ppd)}
}

// Start returns the first day of the window (00:00 UTC).
func (s *Scale) Start() time.Time { return s.start }

// End returns the last day of the window (00:00 UTC). The day itself is part
// of the window; see [Scale.TotalWidth].
func (s *Scale) End() time.Time { return s.end }

// Days returns the number of whole days between the window start and end.
// A single-day window returns 0.
func (s *Scale) Days() int { return daysBetween(s.start, s.end) }

// SetRange replaces the date window. An invalid update (zero dates, or end
// before start) is ignored and the previous valid window is retained.
func (s *Scale) SetRange(start, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	ns, ne := dayStart(start), dayStart(end)
	if ne.Before(ns) {
		return
	}
	s.start, s.end = ns, ne
}

// PixelsPerDay returns the current zoom factor.
func (s *Scale) PixelsPerDay() float64 { return s.ppd }

// SetPixelsPerDay stores v clamped into [MinPixelsPerDay, MaxPixelsPerDay].
// NaN is ignored and the previous value is retained.
func (s *Scale) SetPixelsPerDay(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.ppd = clampPPD(v)
}

// Zoom multiplies the current pixels-per-day by factor and clamps the result.
// Factors above 1 zoom in, factors between 0 and 1 zoom out.
func (s *Scale) Zoom(factor float64) {
	s.SetPixelsPerDay(s.ppd * factor)
}

// TotalWidth returns the pixel width of the full window. The end date is
// visually inclusive, so the width covers daysBetween(start, end)+1 days.
func (s *Scale) TotalWidth() float64 {
	return float64(s.Days()+1) * s.ppd
}

// DateToX converts a calendar date to its pixel offset: whole days from the
// window start times pixels-per-day. Time-of-day is ignored; use
// [Scale.DateTimeToX] for sub-day precision. A zero date returns 0.
func (s *Scale) DateToX(d time.Time) float64 {
	if d.IsZero() {
		return 0
	}
	return float64(daysBetween(s.start, d)) * s.ppd
}

// DateTimeToX converts a date-time to its pixel offset, adding the
// time-of-day as a fractional day on top of [Scale.DateToX]. A zero value
// returns 0.
func (s *Scale) DateTimeToX(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	days := float64(daysBetween(s.start, t))
	frac := float64(secondsOfDay(t)) / secondsPerDay
	return (days + frac) * s.ppd
}

// XToDate converts a pixel offset back to a calendar date by rounding to the
// nearest whole day. Rounding (not truncation) makes the conversion the
// inverse of [Scale.DateToX] for every day in the window. Non-finite input
// maps to the window start. No bounds checking is applied.
func (s *Scale) XToDate(x float64) time.Time {
	if !isFinite(x) {
		x = 0
	}
	days := int(math.Round(x / s.ppd))
	return s.start.AddDate(0, 0, days)
}

// XToDateTime converts a pixel offset to a date-time: the whole-day part
// floors to a calendar day and the remainder becomes seconds within that day.
// Non-finite input maps to the window start.
func (s *Scale) XToDateTime(x float64) time.Time {
	if !isFinite(x) {
		x = 0
	}
	total := x / s.ppd * secondsPerDay
	secs := int64(math.Floor(total + secondEpsilon))
	days := floorDiv(secs, secondsPerDay)
	rem := secs - days*secondsPerDay
	return s.start.AddDate(0, 0, int(days)).Add(time.Duration(rem) * time.Second)
}

// DateRangeToRect builds the draw rectangle for an event spanning
// [start, end] at the given vertical position. The left edge is the start
// date, the right edge is the day after the end date, which renders the end
// date as visually inclusive.
func (s *Scale) DateRangeToRect(start, end time.Time, y, height float64) Rect {
	x1 := s.DateToX(start)
	var x2 float64
	if !end.IsZero() {
		x2 = s.DateToX(end.AddDate(0, 0, 1))
	}
	return Rect{X: x1, Y: y, Width: x2 - x1, Height: height}
}

// XToDateSnapped snaps x to the active grid tier, then converts to a date.
func (s *Scale) XToDateSnapped(x float64) time.Time {
	return s.XToDate(s.SnapX(x))
}

// XToDateTimeSnapped snaps x to the active grid tier, then converts to a
// date-time.
func (s *Scale) XToDateTimeSnapped(x float64) time.Time {
	return s.XToDateTime(s.SnapX(x))
}

func clampPPD(v float64) float64 {
	if v < MinPixelsPerDay {
		return MinPixelsPerDay
	}
	if v > MaxPixelsPerDay {
		return MaxPixelsPerDay
	}
	return v
}

// dayStart normalizes t to 00:00 UTC on its calendar date. All window math
// runs on normalized days, which keeps day arithmetic exact (no DST).
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the signed number of whole days from a to b, comparing
// calendar dates only.
func daysBetween(a, b time.Time) int {
	return int(dayStart(b).Sub(dayStart(a)) / (24 * time.Hour))
}

// secondsOfDay returns the wall-clock time of day in seconds.
func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
