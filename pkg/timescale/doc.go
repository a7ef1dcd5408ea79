// Package timescale converts between calendar time and pixel coordinates on a
// horizontal timeline axis.
//
// # Overview
//
// Timelane draws events as bars along a date axis. This package provides the
// [Scale] type that maps dates (and date-times) to pixel offsets and back,
// parameterized by a single zoom factor: pixels-per-day (PPD). A Scale spans a
// fixed calendar window and has no other state, which keeps conversions pure
// and cheap to recompute on every zoom or pan.
//
// # Coordinate System
//
// Pixel 0 is the start of the range window at 00:00. One calendar day occupies
// exactly PPD pixels, so a date D maps to daysBetween(rangeStart, D) * PPD.
// Date-times add a fractional-day offset from the time of day, preserving
// sub-day precision at high zoom. The end of the window is visually inclusive:
// [Scale.TotalWidth] covers rangeEnd plus one full day.
//
// # Zoom and Snapping
//
// PPD is clamped to [MinPixelsPerDay, MaxPixelsPerDay]. As the zoom decreases,
// pixel positions become too coarse for fine-grained grids, so [Scale.SnapX]
// aligns coordinates to a zoom-dependent grid: 30 minutes, 1 hour, 1 day,
// 1 week (Mondays), or 1 month. The tier thresholds live in a single table
// (see [TierFor]) shared by snapping and grid/tick generation, so drag targets
// and drawn grid lines can never disagree.
//
// # Failure Semantics
//
// Conversions never panic and never return errors. Invalid (zero) dates map to
// pixel 0, non-finite pixel inputs map to the range start, and out-of-range
// results are produced as-is; callers clamp for display when needed.
//
// # Concurrency
//
// A Scale is a small value-like object. Conversions are read-only and safe to
// call concurrently; SetRange, SetPixelsPerDay, and Zoom mutate the scale and
// require external synchronization if shared.
package timescale
