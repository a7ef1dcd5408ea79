// Package pipeline provides the core timeline pipeline for Timelane.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI, server, and refresh-job components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Fetch and parse an event source (YAML, ICS, JSON)
//  2. Layout: Assign lanes and compute draw geometry for every event
//  3. Render: Generate output in various formats (SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "events.yaml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	doc, err := runner.Load(ctx, opts)
//
//	// Layout with an existing document
//	layout, err := runner.GenerateLayout(ctx, doc, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"timelane/pkg/cache"
	"timelane/pkg/errors"
	"timelane/pkg/lanes"
	"timelane/pkg/render"
	"timelane/pkg/timeline"
	"timelane/pkg/timescale"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and Refresh Jobs
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidThemes is the set of supported visual themes.
var ValidThemes = map[string]bool{
	render.ThemeLight: true,
	render.ThemeDark:  true,
}

// dateLayout is the wire format for explicit window bounds.
const dateLayout = "2006-01-02"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the timeline pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source         string `json:"source"`
	SourceFormat   string `json:"source_format,omitempty"`   // yaml, ics, json; detected from the source when empty
	Title          string `json:"title,omitempty"`           // overrides the parsed document title
	RangeStart     string `json:"range_start,omitempty"`     // visible window start (YYYY-MM-DD)
	RangeEnd       string `json:"range_end,omitempty"`       // visible window end (YYYY-MM-DD)
	MaxOccurrences int    `json:"max_occurrences,omitempty"` // recurrence expansion cap, 0 for the default
	Refresh        bool   `json:"refresh,omitempty"`

	// Layout options
	PixelsPerDay float64 `json:"pixels_per_day,omitempty"`
	LaneHeight   float64 `json:"lane_height,omitempty"`
	LaneSpacing  float64 `json:"lane_spacing,omitempty"`
	Padding      float64 `json:"padding,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Theme   string   `json:"theme,omitempty"`
	Grid    bool     `json:"grid,omitempty"`
	Legend  bool     `json:"legend,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the loaded and normalized event document.
	Document *timeline.Document

	// DocumentHash is the content hash of the document.
	DocumentHash string

	// Layout contains the computed frame geometry.
	Layout *timeline.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EventCount int
	LaneCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the document came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if !ValidThemes[theme] {
		return errors.New(errors.ErrCodeInvalidTheme, "invalid theme: %q (must be one of: dark, light)", theme)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a source.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if _, _, err := o.Window(); err != nil {
		return err
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.PixelsPerDay == 0 {
		o.PixelsPerDay = timescale.DefaultPixelsPerDay
	}
	if o.LaneHeight == 0 {
		o.LaneHeight = lanes.DefaultGeometry.LaneHeight
	}
	if o.LaneSpacing == 0 {
		o.LaneSpacing = lanes.DefaultGeometry.LaneSpacing
	}
	if o.Padding == 0 {
		o.Padding = lanes.DefaultGeometry.Padding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	_, _, err := o.Window()
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = render.DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateTheme(o.Theme)
}

// Window parses the explicit range override. Both ends must be provided
// together; zero times are returned when no override is set.
func (o *Options) Window() (start, end time.Time, err error) {
	if o.RangeStart == "" && o.RangeEnd == "" {
		return time.Time{}, time.Time{}, nil
	}
	if o.RangeStart == "" || o.RangeEnd == "" {
		return time.Time{}, time.Time{}, errors.New(errors.ErrCodeInvalidRange,
			"range start and end must be set together")
	}
	start, err = time.Parse(dateLayout, o.RangeStart)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidRange, err,
			"invalid range start %q", o.RangeStart)
	}
	end, err = time.Parse(dateLayout, o.RangeEnd)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidRange, err,
			"invalid range end %q", o.RangeEnd)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New(errors.ErrCodeInvalidRange,
			"range end %s is before start %s", o.RangeEnd, o.RangeStart)
	}
	return start, end, nil
}

// Geometry returns the lane geometry from the layout options.
func (o *Options) Geometry() lanes.Geometry {
	return lanes.Geometry{
		LaneHeight:  o.LaneHeight,
		LaneSpacing: o.LaneSpacing,
		Padding:     o.Padding,
	}
}

// DocumentKeyOpts returns cache key options for document parsing.
func (o *Options) DocumentKeyOpts(format string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Format:         format,
		RangeStart:     o.RangeStart,
		RangeEnd:       o.RangeEnd,
		MaxOccurrences: o.MaxOccurrences,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		RangeStart:   o.RangeStart,
		RangeEnd:     o.RangeEnd,
		PixelsPerDay: o.PixelsPerDay,
		LaneHeight:   o.LaneHeight,
		LaneSpacing:  o.LaneSpacing,
		Padding:      o.Padding,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Theme:  o.Theme,
		Grid:   o.Grid,
		Legend: o.Legend,
	}
}
