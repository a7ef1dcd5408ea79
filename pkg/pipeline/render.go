package pipeline

import (
	"timelane/pkg/errors"
	"timelane/pkg/render"
	"timelane/pkg/timeline"
)

// RenderFromLayout generates output artifacts in the requested formats.
// This is the uncached render stage; the runner wraps it with hash-keyed
// caching.
func RenderFromLayout(l *timeline.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(l, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = timeline.MarshalLayout(l)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	parsed, err := timeline.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse layout")
	}
	return RenderFromLayout(parsed, opts)
}

// buildSVGOptions builds SVG rendering options from pipeline options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption

	if opts.Theme != "" {
		svgOpts = append(svgOpts, render.WithTheme(opts.Theme))
	}
	if opts.Grid {
		svgOpts = append(svgOpts, render.WithGrid())
	}
	if opts.Legend {
		svgOpts = append(svgOpts, render.WithLegend())
	}

	return svgOpts
}
