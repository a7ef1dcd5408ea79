package timeline

import (
	"encoding/json"
	"time"

	"timelane/pkg/errors"
	"timelane/pkg/lanes"
)

// =============================================================================
// Document - Authoritative Event Collection
// =============================================================================

// Range is the visible date window of a document, both days inclusive.
type Range struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// IsZero reports whether the range has not been set.
func (r Range) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Document is an ordered collection of events plus the date window to show
// them in. It is the authoritative model: sources produce documents,
// [AssignLanes] and [BuildLayout] consume them.
type Document struct {
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Range  Range    `json:"range,omitempty" yaml:"range,omitempty"`
	Events []*Event `json:"events" yaml:"events"`
}

// Normalize normalizes every event and defaults the range to the events'
// envelope when it was not set. Call after loading, before Validate.
func (d *Document) Normalize() {
	for _, ev := range d.Events {
		ev.Normalize()
	}
	if !d.Range.Start.IsZero() {
		d.Range.Start = dayStart(d.Range.Start)
	}
	if !d.Range.End.IsZero() {
		d.Range.End = dayStart(d.Range.End)
	}
	if d.Range.IsZero() {
		if start, end, ok := d.Envelope(); ok {
			d.Range = Range{Start: start, End: end}
		}
	}
}

// Validate checks every event and the document-level constraints: event IDs
// must be unique and the range, when set, must not be reversed.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Events))
	for _, ev := range d.Events {
		if err := ev.Validate(); err != nil {
			return err
		}
		if seen[ev.ID] {
			return errors.New(errors.ErrCodeInvalidEvent, "duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true
	}
	if !d.Range.IsZero() && d.Range.End.Before(d.Range.Start) {
		return errors.New(errors.ErrCodeInvalidRange, "range end %s before start %s",
			d.Range.End.Format(dateLayout), d.Range.Start.Format(dateLayout))
	}
	return nil
}

// Envelope returns the earliest start and latest end across all events.
// ok is false for a document without events.
func (d *Document) Envelope() (start, end time.Time, ok bool) {
	for _, ev := range d.Events {
		if ev.Start.IsZero() {
			continue
		}
		if !ok || ev.Start.Before(start) {
			start = ev.Start
		}
		if !ok || ev.End.After(end) {
			end = ev.End
		}
		ok = true
	}
	return start, end, ok
}

// Event returns the event with the given ID, or nil when absent.
func (d *Document) Event(id string) *Event {
	for _, ev := range d.Events {
		if ev.ID == id {
			return ev
		}
	}
	return nil
}

// =============================================================================
// Lane Assignment
// =============================================================================

// AssignLanes recomputes the lane of every non-pinned event and returns the
// maximum lane index in use.
//
// Pinned events keep the lane the user gave them and act as hard obstacles;
// everything else is packed into the lowest free lanes around them. The
// split into two populations means a reflow can never move a pinned event.
// Returns 0 for an empty document.
func AssignLanes(doc *Document) int {
	auto := make([]*lanes.Interval, 0, len(doc.Events))
	autoEvents := make([]*Event, 0, len(doc.Events))
	var reserved []*lanes.Interval

	for _, ev := range doc.Events {
		iv := &lanes.Interval{ID: ev.ID, Start: ev.Start, End: ev.End, Lane: ev.Lane}
		if ev.Pinned {
			reserved = append(reserved, iv)
			continue
		}
		auto = append(auto, iv)
		autoEvents = append(autoEvents, ev)
	}

	maxLane := lanes.AssignWithReserved(auto, reserved)
	for i, iv := range auto {
		autoEvents[i].Lane = iv.Lane
	}
	return maxLane
}

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument serializes a Document to pretty-printed JSON bytes. Used
// for caching loaded documents and for the JSON API.
func MarshalDocument(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document and normalizes
// it. The result is validated; malformed documents are rejected.
func UnmarshalDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal document")
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
