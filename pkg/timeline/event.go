package timeline

import (
	"strings"
	"time"

	"timelane/pkg/errors"
)

// =============================================================================
// Kind - Event Classification
// =============================================================================

// Kind classifies an event for styling and filtering.
type Kind string

// Recognized event kinds.
const (
	KindMeeting  Kind = "meeting"
	KindAction   Kind = "action"
	KindTest     Kind = "test"
	KindReminder Kind = "reminder"
	KindTicket   Kind = "ticket"
)

// DefaultKind is assumed when an event does not declare a kind.
const DefaultKind = KindMeeting

// Kinds returns every recognized kind in display order.
func Kinds() []Kind {
	return []Kind{KindMeeting, KindAction, KindTest, KindReminder, KindTicket}
}

// ParseKind normalizes s to a recognized Kind. Matching is case-insensitive
// and ignores surrounding whitespace. Empty input yields [DefaultKind];
// unrecognized input is an error.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return DefaultKind, nil
	}
	if !k.Valid() {
		return "", errors.New(errors.ErrCodeInvalidEvent, "unknown event kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMeeting, KindAction, KindTest, KindReminder, KindTicket:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// =============================================================================
// Event - Timeline Entry
// =============================================================================

// Event is a single entry on the timeline.
//
// Start and End are calendar days, both inclusive: a one-day event has
// Start == End. Lane is an output of [AssignLanes] unless Pinned is set, in
// which case it is user-fixed input that the packer must flow around.
type Event struct {
	ID     string    `json:"id" yaml:"id"`
	Title  string    `json:"title" yaml:"title"`
	Kind   Kind      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Start  time.Time `json:"start" yaml:"start"`
	End    time.Time `json:"end" yaml:"end"`
	Lane   int       `json:"lane,omitempty" yaml:"lane,omitempty"`
	Pinned bool      `json:"pinned,omitempty" yaml:"pinned,omitempty"`
	Notes  string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Normalize fills derived fields after loading: dates are truncated to day
// granularity (00:00 UTC), a zero End becomes Start (one-day event), and an
// empty Kind becomes [DefaultKind]. Reversed ranges are left for Validate to
// reject.
func (e *Event) Normalize() {
	if !e.Start.IsZero() {
		e.Start = dayStart(e.Start)
	}
	if e.End.IsZero() {
		e.End = e.Start
	} else {
		e.End = dayStart(e.End)
	}
	if e.Kind == "" {
		e.Kind = DefaultKind
	}
}

// Validate checks that the event is well-formed: a usable ID and title, a
// recognized kind, a non-zero start, and End not before Start.
func (e *Event) Validate() error {
	if err := errors.ValidateEventID(e.ID); err != nil {
		return err
	}
	if err := errors.ValidateTitle(e.Title); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %s", e.ID)
	}
	if !e.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidEvent, "event %s: unknown kind %q", e.ID, e.Kind)
	}
	if e.Start.IsZero() {
		return errors.New(errors.ErrCodeInvalidEvent, "event %s: missing start date", e.ID)
	}
	if e.End.Before(e.Start) {
		return errors.New(errors.ErrCodeInvalidRange, "event %s: end %s before start %s",
			e.ID, e.End.Format(dateLayout), e.Start.Format(dateLayout))
	}
	if e.Lane < 0 {
		return errors.New(errors.ErrCodeInvalidEvent, "event %s: negative lane %d", e.ID, e.Lane)
	}
	return nil
}

// Days returns the event's span in whole days, inclusive of both endpoints.
// A one-day event returns 1.
func (e *Event) Days() int {
	return daysBetween(e.Start, e.End) + 1
}

// Overlaps reports whether e and other share at least one calendar day.
func (e *Event) Overlaps(other *Event) bool {
	return !e.Start.After(other.End) && !e.End.Before(other.Start)
}

// dateLayout is the day-granularity format used in messages and artifacts.
const dateLayout = "2006-01-02"

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(dayStart(b).Sub(dayStart(a)) / (24 * time.Hour))
}
