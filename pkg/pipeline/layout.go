package pipeline

import (
	"time"

	"timelane/pkg/errors"
	"timelane/pkg/timeline"
	"timelane/pkg/timescale"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout assigns lanes and computes draw geometry for every event
// in doc. This is the uncached layout stage; the runner wraps it with
// hash-keyed caching.
//
// The visible window comes from the options when an explicit range is set,
// otherwise from the document itself.
func GenerateLayout(doc *timeline.Document, opts Options) (*timeline.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	start, end, err := resolveWindow(doc, opts)
	if err != nil {
		return nil, err
	}

	scale := timescale.New(start, end, opts.PixelsPerDay)
	return timeline.BuildLayout(doc, scale, opts.Geometry()), nil
}

// resolveWindow picks the window a layout frames. Priority: explicit range
// options, then the document range (set during normalization), then the
// event envelope. A document with neither a range nor events cannot be
// framed.
func resolveWindow(doc *timeline.Document, opts Options) (start, end time.Time, err error) {
	start, end, err = opts.Window()
	if err != nil || !start.IsZero() {
		return start, end, err
	}
	if !doc.Range.IsZero() {
		return doc.Range.Start, doc.Range.End, nil
	}
	if s, e, ok := doc.Envelope(); ok {
		return s, e, nil
	}
	return time.Time{}, time.Time{}, errors.New(errors.ErrCodeInvalidRange,
		"document has no visible range and no events to derive one from")
}
