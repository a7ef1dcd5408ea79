// Package lanes packs time intervals into horizontal lanes so that no two
// intervals sharing a lane overlap.
//
// # Overview
//
// Timelane stacks events that overlap in time into separate vertical tracks
// ("lanes", integer indices, 0 = topmost). [Assign] computes a deterministic,
// minimal packing with a sort-then-sweep pass; [AssignWithReserved]
// additionally honors intervals whose lane the user pinned by hand, treating
// them as fixed obstacles the sweep must route around.
//
// # Boundary Semantics
//
// Interval ends are exclusive for automatic collision purposes: an interval
// ending on the day another starts may share its lane. Reserved intervals are
// stricter; see [AssignWithReserved].
//
// # Determinism
//
// Input order does not affect results beyond tie-breaking: intervals are
// sorted by start date, ties by descending end date (longer first), and equal
// (start, end) pairs keep their caller order. Re-running an assignment on the
// same input always reproduces the same lanes.
//
// # Concurrency
//
// Assignment is a stateless batch computation: it sorts a local copy of the
// slice, builds a local occupancy map, and writes results into the intervals
// it was handed. Concurrent calls on disjoint interval sets are safe; the
// caller must not mutate an input set while a call is in flight.
package lanes
