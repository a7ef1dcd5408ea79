package pipeline

import (
	"testing"
	"time"

	"timelane/pkg/errors"
	"timelane/pkg/lanes"
	"timelane/pkg/timescale"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", true},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		theme   string
		wantErr bool
	}{
		{"light", false},
		{"dark", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateTheme(tt.theme)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTheme(%q) error = %v, wantErr %v", tt.theme, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	// Missing source
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing source should fail")
	}

	// Valid with source only
	opts = Options{Source: "events.yaml"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("ValidateForLoad should set a default logger")
	}

	// Half-open range override
	opts = Options{Source: "events.yaml", RangeStart: "2024-01-01"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Range start without end should fail")
	}

	// Malformed range date
	opts = Options{Source: "events.yaml", RangeStart: "Jan 1", RangeEnd: "2024-02-01"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Malformed range date should fail")
	}

	// Reversed range
	opts = Options{Source: "events.yaml", RangeStart: "2024-02-01", RangeEnd: "2024-01-01"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Reversed range should fail")
	}
}

func TestOptionsWindow(t *testing.T) {
	// No override returns zero times
	opts := Options{}
	start, end, err := opts.Window()
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if !start.IsZero() || !end.IsZero() {
		t.Error("Window() without override should return zero times")
	}

	// Explicit override parses both bounds
	opts = Options{RangeStart: "2024-01-01", RangeEnd: "2024-03-31"}
	start, end, err = opts.Window()
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if start.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("start = %v", start)
	}
	if end.Format("2006-01-02") != "2024-03-31" {
		t.Errorf("end = %v", end)
	}

	// Errors carry the range code
	opts = Options{RangeStart: "2024-01-01", RangeEnd: "soon"}
	if _, _, err := opts.Window(); !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("Window() error = %v, want invalid range code", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.PixelsPerDay != timescale.DefaultPixelsPerDay {
		t.Errorf("PixelsPerDay should be %v, got %v", timescale.DefaultPixelsPerDay, opts.PixelsPerDay)
	}
	if opts.LaneHeight != lanes.DefaultGeometry.LaneHeight {
		t.Errorf("LaneHeight should be %v, got %v", lanes.DefaultGeometry.LaneHeight, opts.LaneHeight)
	}
	if opts.LaneSpacing != lanes.DefaultGeometry.LaneSpacing {
		t.Errorf("LaneSpacing should be %v, got %v", lanes.DefaultGeometry.LaneSpacing, opts.LaneSpacing)
	}
	if opts.Padding != lanes.DefaultGeometry.Padding {
		t.Errorf("Padding should be %v, got %v", lanes.DefaultGeometry.Padding, opts.Padding)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Theme != "light" {
		t.Errorf("Theme should be light, got %s", opts.Theme)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{
		Source: "events.yaml",
	}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalPPD := opts.PixelsPerDay
	originalTheme := opts.Theme
	originalFormats := len(opts.Formats)

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.PixelsPerDay != originalPPD {
		t.Error("PixelsPerDay changed on second call")
	}
	if opts.Theme != originalTheme {
		t.Error("Theme changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

func TestOptionsGeometry(t *testing.T) {
	opts := Options{LaneHeight: 24, LaneSpacing: 4, Padding: 40}
	geo := opts.Geometry()

	if geo.LaneHeight != 24 || geo.LaneSpacing != 4 || geo.Padding != 40 {
		t.Errorf("Geometry() = %+v", geo)
	}
}

func TestOptionsKeyOptsCoverRenderSettings(t *testing.T) {
	opts := Options{
		RangeStart:   "2024-01-01",
		RangeEnd:     "2024-03-31",
		PixelsPerDay: 40,
		LaneHeight:   30,
		Theme:        "dark",
		Grid:         true,
	}

	lk := opts.LayoutKeyOpts()
	if lk.RangeStart != "2024-01-01" || lk.RangeEnd != "2024-03-31" {
		t.Errorf("LayoutKeyOpts should carry the window override: %+v", lk)
	}
	if lk.PixelsPerDay != 40 {
		t.Errorf("LayoutKeyOpts.PixelsPerDay = %v", lk.PixelsPerDay)
	}

	ak := opts.ArtifactKeyOpts("svg")
	if ak.Format != "svg" || ak.Theme != "dark" || !ak.Grid || ak.Legend {
		t.Errorf("ArtifactKeyOpts = %+v", ak)
	}
}

func TestOptionsWindowRoundTrip(t *testing.T) {
	opts := Options{RangeStart: "2024-06-01", RangeEnd: "2024-06-30"}
	start, end, err := opts.Window()
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if end.Sub(start) != 29*24*time.Hour {
		t.Errorf("window span = %v, want 29 days", end.Sub(start))
	}
}
