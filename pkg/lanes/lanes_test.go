package lanes

import (
	"testing"
	"time"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func interval(id string, start, end time.Time) *Interval {
	return &Interval{ID: id, Start: start, End: end}
}

// lanesByID captures the current assignment for comparison between runs.
func lanesByID(intervals []*Interval) map[string]int {
	m := make(map[string]int, len(intervals))
	for _, iv := range intervals {
		m[iv.ID] = iv.Lane
	}
	return m
}

func TestAssign_Empty(t *testing.T) {
	if got := Assign(nil); got != 0 {
		t.Errorf("Assign(nil) = %d, want 0", got)
	}
	if got := Assign([]*Interval{}); got != 0 {
		t.Errorf("Assign(empty) = %d, want 0", got)
	}
}

func TestAssign_Single(t *testing.T) {
	iv := interval("a", day(time.January, 1), day(time.January, 5))
	if got := Assign([]*Interval{iv}); got != 0 {
		t.Errorf("Assign(single) = %d, want 0", got)
	}
	if iv.Lane != 0 {
		t.Errorf("single interval lane = %d, want 0", iv.Lane)
	}
}

func TestAssign_Idempotent(t *testing.T) {
	build := func() []*Interval {
		// Deliberately unsorted.
		return []*Interval{
			interval("c", day(time.January, 10), day(time.January, 15)),
			interval("a", day(time.January, 1), day(time.January, 5)),
			interval("d", day(time.January, 3), day(time.January, 3)),
			interval("b", day(time.January, 2), day(time.January, 6)),
			interval("e", day(time.January, 4), day(time.January, 12)),
		}
	}

	first := build()
	second := build()
	maxFirst := Assign(first)
	maxSecond := Assign(second)

	if maxFirst != maxSecond {
		t.Fatalf("Assign() max lane = %d on first run, %d on second", maxFirst, maxSecond)
	}
	got, want := lanesByID(second), lanesByID(first)
	for id, lane := range want {
		if got[id] != lane {
			t.Errorf("interval %q lane = %d on second run, want %d", id, got[id], lane)
		}
	}

	// Re-running on the already-assigned set must not move anything either.
	maxThird := Assign(first)
	if maxThird != maxFirst {
		t.Errorf("Assign() rerun max lane = %d, want %d", maxThird, maxFirst)
	}
	for id, lane := range lanesByID(first) {
		if want[id] != lane {
			t.Errorf("interval %q lane moved to %d on rerun, want %d", id, lane, want[id])
		}
	}
}

func TestAssign_NoSameLaneOverlap(t *testing.T) {
	intervals := []*Interval{
		interval("a", day(time.January, 1), day(time.January, 5)),
		interval("b", day(time.January, 2), day(time.January, 6)),
		interval("c", day(time.January, 3), day(time.January, 10)),
		interval("d", day(time.January, 5), day(time.January, 7)),
		interval("e", day(time.January, 6), day(time.January, 9)),
		interval("f", day(time.January, 10), day(time.January, 15)),
		interval("g", day(time.January, 11), day(time.January, 11)),
	}
	Assign(intervals)

	for i, a := range intervals {
		for _, b := range intervals[i+1:] {
			if a.Lane != b.Lane {
				continue
			}
			// Same lane: one must end on or before the other's start.
			if a.End.After(b.Start) && b.End.After(a.Start) {
				t.Errorf("lane %d holds overlapping intervals %q [%v..%v] and %q [%v..%v]",
					a.Lane, a.ID, a.Start, a.End, b.ID, b.Start, b.End)
			}
		}
	}
}

func TestAssign_FullyOverlappingSetUsesDistinctLanes(t *testing.T) {
	// Four nested intervals: every pair overlaps, so four lanes are needed.
	intervals := []*Interval{
		interval("a", day(time.January, 1), day(time.January, 20)),
		interval("b", day(time.January, 2), day(time.January, 19)),
		interval("c", day(time.January, 3), day(time.January, 18)),
		interval("d", day(time.January, 4), day(time.January, 17)),
	}
	if got := Assign(intervals); got != 3 {
		t.Errorf("Assign(4 pairwise-overlapping) = %d, want 3", got)
	}
}

func TestAssign_LaneReuseAfterGap(t *testing.T) {
	a := interval("a", day(time.January, 1), day(time.January, 5))
	b := interval("b", day(time.January, 2), day(time.January, 6))
	c := interval("c", day(time.January, 10), day(time.January, 15))

	maxLane := Assign([]*Interval{a, b, c})

	if c.Lane != 0 {
		t.Errorf("third interval lane = %d, want 0 (reuses the freed lane)", c.Lane)
	}
	if maxLane != 1 {
		t.Errorf("Assign() = %d, want 1", maxLane)
	}
}

func TestAssign_TouchingBoundariesShareLane(t *testing.T) {
	a := interval("a", day(time.January, 1), day(time.January, 5))
	b := interval("b", day(time.January, 5), day(time.January, 9))

	maxLane := Assign([]*Interval{a, b})

	if a.Lane != 0 || b.Lane != 0 {
		t.Errorf("touching intervals on lanes %d and %d, want both on 0", a.Lane, b.Lane)
	}
	if maxLane != 0 {
		t.Errorf("Assign() = %d, want 0", maxLane)
	}
}

func TestAssign_ZeroLengthIntervals(t *testing.T) {
	a := interval("a", day(time.March, 3), day(time.March, 3))
	b := interval("b", day(time.March, 3), day(time.March, 3))

	maxLane := Assign([]*Interval{a, b})

	// End dates are exclusive for automatic sharing, so two point events on
	// the same day stack into the same lane.
	if a.Lane != 0 || b.Lane != 0 {
		t.Errorf("zero-length intervals on lanes %d and %d, want both on 0", a.Lane, b.Lane)
	}
	if maxLane != 0 {
		t.Errorf("Assign() = %d, want 0", maxLane)
	}
}

func TestAssign_SameStartLongerFirst(t *testing.T) {
	short := interval("short", day(time.January, 1), day(time.January, 3))
	long := interval("long", day(time.January, 1), day(time.January, 10))

	Assign([]*Interval{short, long})

	if long.Lane != 0 {
		t.Errorf("longer interval lane = %d, want 0", long.Lane)
	}
	if short.Lane != 1 {
		t.Errorf("shorter interval lane = %d, want 1", short.Lane)
	}
}

func TestAssign_EqualIntervalsKeepCallerOrder(t *testing.T) {
	a := interval("a", day(time.January, 1), day(time.January, 5))
	b := interval("b", day(time.January, 1), day(time.January, 5))

	Assign([]*Interval{a, b})

	if a.Lane != 0 || b.Lane != 1 {
		t.Errorf("equal intervals assigned lanes (%d, %d), want (0, 1)", a.Lane, b.Lane)
	}
}

func TestAssign_InputOrderPreserved(t *testing.T) {
	intervals := []*Interval{
		interval("z", day(time.January, 9), day(time.January, 12)),
		interval("a", day(time.January, 1), day(time.January, 5)),
		interval("m", day(time.January, 3), day(time.January, 8)),
	}
	Assign(intervals)

	want := []string{"z", "a", "m"}
	for i, id := range want {
		if intervals[i].ID != id {
			t.Errorf("intervals[%d].ID = %q, want %q (input order must survive)", i, intervals[i].ID, id)
		}
	}
}

func TestAssignWithReserved_ExcludesPinnedLane(t *testing.T) {
	reserved := []*Interval{
		{ID: "pinned", Start: day(time.January, 1), End: day(time.January, 10), Lane: 0},
	}
	auto := []*Interval{
		interval("a", day(time.January, 5), day(time.January, 6)),
	}

	maxLane := AssignWithReserved(auto, reserved)

	if auto[0].Lane == 0 {
		t.Errorf("auto interval landed on reserved lane 0")
	}
	if auto[0].Lane != 1 {
		t.Errorf("auto interval lane = %d, want 1", auto[0].Lane)
	}
	if maxLane != 1 {
		t.Errorf("AssignWithReserved() = %d, want 1", maxLane)
	}
}

func TestAssignWithReserved_BoundaryTouchConflicts(t *testing.T) {
	// Reserved checks are boundary-inclusive: starting on the reserved end
	// day still conflicts, unlike the automatic sharing rule.
	reserved := []*Interval{
		{ID: "pinned", Start: day(time.January, 1), End: day(time.January, 5), Lane: 0},
	}
	auto := []*Interval{
		interval("a", day(time.January, 5), day(time.January, 9)),
	}

	AssignWithReserved(auto, reserved)

	if auto[0].Lane != 1 {
		t.Errorf("touching auto interval lane = %d, want 1 (reserved boundaries are inclusive)", auto[0].Lane)
	}
}

func TestAssignWithReserved_FlowsAroundMiddleLane(t *testing.T) {
	reserved := []*Interval{
		{ID: "pinned", Start: day(time.January, 1), End: day(time.January, 31), Lane: 1},
	}
	auto := []*Interval{
		interval("a", day(time.January, 2), day(time.January, 10)),
		interval("b", day(time.January, 3), day(time.January, 9)),
	}

	maxLane := AssignWithReserved(auto, reserved)

	if auto[0].Lane != 0 {
		t.Errorf("first auto interval lane = %d, want 0", auto[0].Lane)
	}
	if auto[1].Lane != 2 {
		t.Errorf("second auto interval lane = %d, want 2 (lane 1 is pinned)", auto[1].Lane)
	}
	if maxLane != 2 {
		t.Errorf("AssignWithReserved() = %d, want 2", maxLane)
	}
}

func TestAssignWithReserved_MaxCoversReservedLanes(t *testing.T) {
	reserved := []*Interval{
		{ID: "pinned", Start: day(time.June, 1), End: day(time.June, 2), Lane: 5},
	}
	auto := []*Interval{
		interval("a", day(time.January, 1), day(time.January, 2)),
	}

	if got := AssignWithReserved(auto, reserved); got != 5 {
		t.Errorf("AssignWithReserved() = %d, want 5", got)
	}
}

func TestAssignWithReserved_EmptyAuto(t *testing.T) {
	reserved := []*Interval{
		{ID: "pinned", Start: day(time.June, 1), End: day(time.June, 2), Lane: 2},
	}
	if got := AssignWithReserved(nil, reserved); got != 2 {
		t.Errorf("AssignWithReserved(nil, reserved) = %d, want 2", got)
	}
	if got := AssignWithReserved(nil, nil); got != 0 {
		t.Errorf("AssignWithReserved(nil, nil) = %d, want 0", got)
	}
}

func TestAssignWithReserved_NeverMutatesReserved(t *testing.T) {
	reserved := []*Interval{
		{ID: "p1", Start: day(time.January, 1), End: day(time.January, 10), Lane: 0},
		{ID: "p2", Start: day(time.January, 1), End: day(time.January, 10), Lane: 3},
	}
	auto := []*Interval{
		interval("a", day(time.January, 2), day(time.January, 4)),
		interval("b", day(time.January, 2), day(time.January, 4)),
	}

	AssignWithReserved(auto, reserved)

	if reserved[0].Lane != 0 || reserved[1].Lane != 3 {
		t.Errorf("reserved lanes mutated to (%d, %d), want (0, 3)", reserved[0].Lane, reserved[1].Lane)
	}
}
