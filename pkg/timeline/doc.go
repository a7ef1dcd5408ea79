// Package timeline defines the event model and the layout artifact that
// connects it to rendering.
//
// This package owns the authoritative event data (what happens when, on
// which lane) and the canonical serialization format for computed layouts,
// used for JSON files, API responses, and caching.
//
// # Architecture
//
// The package sits between sources and renderers:
//
//   - [Event], [Document]: Authoritative model (this package)
//   - pkg/timescale.Scale: Date-to-pixel mapping engine
//   - pkg/lanes: Interval packing engine
//   - [Layout], [Block], [Tick]: Serialization types (this package)
//
// The two engines never call each other. [AssignLanes] feeds a document's
// intervals to the packer and writes the results back; [BuildLayout] then
// runs every event and grid boundary through the scale to produce a
// render-ready [Layout].
//
// # Document Model
//
// A [Document] holds a visible date range and a flat list of events. Events
// are day-granularity intervals: Start and End name the first and last day,
// both inclusive for drawing. Pinned events keep the lane the user gave
// them; all other events are reflowed on every change.
//
// # Layout Serialization
//
// Layouts use a flat JSON format:
//
//	l, _ := timeline.ReadLayoutFile("plan.json")    // File → Layout
//	timeline.WriteLayoutFile(l, "out.json")         // Layout → File
//	data, _ := timeline.MarshalLayout(l)            // Layout → []byte
//	parsed, _ := timeline.UnmarshalLayout(data)     // []byte → Layout
//
// # Concurrency
//
// Documents are not safe for concurrent mutation. Layouts are plain value
// data and safe to share once built.
package timeline
