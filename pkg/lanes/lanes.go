package lanes

import (
	"sort"
	"time"
)

// Interval is a schedulable time span at calendar-day granularity.
// Start must not be after End; zero-length intervals (Start == End) are
// valid. Lane is an output field written by [Assign] and
// [AssignWithReserved], except for reserved intervals, where it is a fixed
// input.
type Interval struct {
	ID    string    // opaque identifier for correlating results to the caller's events
	Start time.Time // first day of the span
	End   time.Time // last day of the span
	Lane  int       // assigned track (0 = topmost)
}

// Assign packs intervals into the minimum number of lanes such that no two
// intervals in the same lane overlap, writing each interval's Lane in place.
// It returns the maximum lane index used: 0 for an empty set and 0 for a
// single interval.
//
// # Algorithm
//
// Assign runs a greedy sort-then-sweep:
//  1. Sort a local copy ascending by Start; ties break by descending End,
//     so the longer of two same-start intervals is placed first.
//  2. Track the end date of the interval currently occupying each lane.
//  3. For each interval, scan lanes 0, 1, 2, ... and take the first lane
//     that is unoccupied or whose occupant ends on or before the interval's
//     start. Touching boundaries share: an occupant ending exactly on the
//     candidate's start day does not block the lane.
//
// The input slice itself is never reordered; only the Lane fields change.
//
// # Performance
//
// Sorting costs O(n log n); the sweep is O(n*L) where L is the number of
// lanes in use, which stays small for calendar data.
func Assign(intervals []*Interval) int {
	return sweep(intervals, nil)
}

// AssignWithReserved packs the auto intervals around a disjoint set of
// reserved intervals whose Lane values are fixed inputs. Reserved intervals
// are never moved or modified; they are obstacles for the sweep.
//
// A candidate lane is rejected when any reserved interval pinned to it
// overlaps the candidate under a boundary-inclusive test: a candidate whose
// span merely touches a reserved span (equal boundary days) still conflicts.
// This is intentionally stricter than the boundary-exclusive rule automatic
// occupants use between themselves; pinned placements act as hard walls.
//
// The returned maximum lane covers both populations, so a reserved interval
// pinned below every automatic lane still grows the scene.
func AssignWithReserved(auto, reserved []*Interval) int {
	maxLane := sweep(auto, reserved)
	for _, r := range reserved {
		if r.Lane > maxLane {
			maxLane = r.Lane
		}
	}
	return maxLane
}

// sweep assigns lanes to intervals in sorted order, skipping lanes blocked
// by reserved intervals. Returns the maximum lane index assigned, or 0 when
// intervals is empty.
func sweep(intervals, reserved []*Interval) int {
	if len(intervals) == 0 {
		return 0
	}

	sorted := make([]*Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].End.After(sorted[j].End)
	})

	laneEnd := make(map[int]time.Time, len(sorted))
	maxLane := 0

	for _, iv := range sorted {
		lane := 0
		for {
			if blockedByReserved(iv, lane, reserved) {
				lane++
				continue
			}
			if end, occupied := laneEnd[lane]; occupied && end.After(iv.Start) {
				lane++
				continue
			}
			break
		}
		iv.Lane = lane
		laneEnd[lane] = iv.End
		if lane > maxLane {
			maxLane = lane
		}
	}
	return maxLane
}

// blockedByReserved reports whether any reserved interval pinned to lane
// overlaps iv. The test is boundary-inclusive: touching spans conflict.
func blockedByReserved(iv *Interval, lane int, reserved []*Interval) bool {
	for _, r := range reserved {
		if r.Lane != lane {
			continue
		}
		if !iv.Start.After(r.End) && !iv.End.Before(r.Start) {
			return true
		}
	}
	return false
}
