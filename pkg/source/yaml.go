package source

import (
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"timelane/pkg/errors"
	"timelane/pkg/timeline"
)

// The YAML and JSON formats share one wire schema. Dates travel as strings
// so authors can write plain days (2024-01-02) without fighting YAML's
// timestamp resolution, while RFC 3339 stamps from exported documents still
// round-trip.
type wireDocument struct {
	Title  string      `yaml:"title" json:"title"`
	Range  wireRange   `yaml:"range" json:"range"`
	Events []wireEvent `yaml:"events" json:"events"`
}

type wireRange struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

type wireEvent struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Kind   string `yaml:"kind" json:"kind"`
	Start  string `yaml:"start" json:"start"`
	End    string `yaml:"end" json:"end"`
	Lane   int    `yaml:"lane" json:"lane"`
	Pinned bool   `yaml:"pinned" json:"pinned"`
	Notes  string `yaml:"notes" json:"notes"`
}

func parseYAML(raw []byte) (*timeline.Document, error) {
	var w wireDocument
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "parse YAML document")
	}
	return w.toDocument()
}

func parseJSON(raw []byte) (*timeline.Document, error) {
	var w wireDocument
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "parse JSON document")
	}
	return w.toDocument()
}

func (w *wireDocument) toDocument() (*timeline.Document, error) {
	doc := &timeline.Document{
		Title:  w.Title,
		Events: make([]*timeline.Event, 0, len(w.Events)),
	}

	var err error
	if doc.Range.Start, err = parseDate(w.Range.Start); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "range start")
	}
	if doc.Range.End, err = parseDate(w.Range.End); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "range end")
	}

	for _, we := range w.Events {
		ev, err := we.toEvent()
		if err != nil {
			return nil, err
		}
		doc.Events = append(doc.Events, ev)
	}
	return doc, nil
}

func (we *wireEvent) toEvent() (*timeline.Event, error) {
	name := we.ID
	if name == "" {
		name = we.Title
	}

	kind, err := timeline.ParseKind(we.Kind)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "event %q", name)
	}
	start, err := parseDate(we.Start)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "event %q: start", name)
	}
	end, err := parseDate(we.End)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceParse, err, "event %q: end", name)
	}

	return &timeline.Event{
		ID:     we.ID,
		Title:  we.Title,
		Kind:   kind,
		Start:  start,
		End:    end,
		Lane:   we.Lane,
		Pinned: we.Pinned,
		Notes:  we.Notes,
	}, nil
}

// dateLayouts are the accepted wire forms, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseDate parses a wire date string. Empty input is a zero time, which
// Normalize resolves (a missing end becomes a one-day event, a missing range
// becomes the events' envelope).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeSourceParse,
		"unrecognized date %q (want YYYY-MM-DD or RFC 3339)", s)
}
