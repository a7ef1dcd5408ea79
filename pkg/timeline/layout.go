package timeline

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"timelane/pkg/errors"
	"timelane/pkg/lanes"
	"timelane/pkg/timescale"
)

// =============================================================================
// Layout - Render-Ready Artifact
// =============================================================================

// Layout is the canonical serialization format for a computed timeline.
// Used for JSON artifacts, API responses, and caching.
//
// Everything a renderer needs is flattened into value data: per-event draw
// rectangles, grid boundaries with labels, and the frame dimensions. A
// Layout carries no reference back to the document it was built from, so it
// round-trips through JSON without loss.
type Layout struct {
	Title        string    `json:"title,omitempty"`
	RangeStart   time.Time `json:"range_start"`
	RangeEnd     time.Time `json:"range_end"`
	PixelsPerDay float64   `json:"pixels_per_day"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	LaneHeight   float64   `json:"lane_height"`
	LaneSpacing  float64   `json:"lane_spacing"`
	MaxLane      int       `json:"max_lane"`
	Blocks       []Block   `json:"blocks"`
	Ticks        []Tick    `json:"ticks,omitempty"`
}

// Block is one positioned event rectangle.
type Block struct {
	EventID string  `json:"event_id"`
	Title   string  `json:"title"`
	Kind    Kind    `json:"kind,omitempty"`
	Lane    int     `json:"lane"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Pinned  bool    `json:"pinned,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

// Tick is one labeled grid boundary. Major ticks mark the next-coarser
// calendar unit and render stronger.
type Tick struct {
	X     float64   `json:"x"`
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
	Major bool      `json:"major,omitempty"`
}

// =============================================================================
// Layout Construction
// =============================================================================

// BuildLayout computes the draw geometry for every event in doc.
//
// Lane assignment runs first, then each event's date span and lane are
// converted to a rectangle through the scale and lane geometry. Grid
// boundaries for the scale's active zoom tier are attached with
// render-ready labels. The document's own range is not consulted; the
// scale's window decides what the frame covers.
func BuildLayout(doc *Document, scale *timescale.Scale, geo lanes.Geometry) *Layout {
	maxLane := AssignLanes(doc)

	l := &Layout{
		Title:        doc.Title,
		RangeStart:   scale.Start(),
		RangeEnd:     scale.End(),
		PixelsPerDay: scale.PixelsPerDay(),
		Width:        scale.TotalWidth(),
		Height:       geo.SceneHeight(maxLane),
		LaneHeight:   geo.LaneHeight,
		LaneSpacing:  geo.LaneSpacing,
		MaxLane:      maxLane,
		Blocks:       make([]Block, 0, len(doc.Events)),
	}

	for _, ev := range doc.Events {
		r := scale.DateRangeToRect(ev.Start, ev.End, geo.LaneY(ev.Lane), geo.LaneHeight)
		l.Blocks = append(l.Blocks, Block{
			EventID: ev.ID,
			Title:   ev.Title,
			Kind:    ev.Kind,
			Lane:    ev.Lane,
			X:       r.X,
			Y:       r.Y,
			Width:   r.Width,
			Height:  r.Height,
			Pinned:  ev.Pinned,
			Notes:   ev.Notes,
		})
	}

	unit := timescale.TierFor(scale.PixelsPerDay()).Unit
	for _, tk := range scale.Ticks() {
		l.Ticks = append(l.Ticks, Tick{
			X:     tk.X,
			Time:  tk.Time,
			Label: tickLabel(unit, tk.Time, tk.Major),
			Major: tk.Major,
		})
	}

	return l
}

// tickLabel formats a grid boundary for display. Sub-day grids label times
// and switch to the date at midnight; day and week grids label dates; the
// month grid labels month and year.
func tickLabel(unit timescale.Unit, t time.Time, major bool) string {
	switch unit {
	case timescale.UnitHalfHour, timescale.UnitHour:
		if major {
			return t.Format("Jan 2")
		}
		return t.Format("15:04")
	case timescale.UnitDay, timescale.UnitWeek:
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2006")
	}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout without a positive pixels-per-day factor is rejected; there is
// no way to interpret its coordinates.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.PixelsPerDay <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "layout missing pixels_per_day")
	}
	return &l, nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l *Layout, w io.Writer) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l *Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
