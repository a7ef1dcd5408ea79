// Package render turns computed timeline layouts into SVG documents.
//
// # Overview
//
// The renderer is a pure function of the layout: [timeline.Layout] already
// holds every bar rectangle, lane metric, and grid tick, so rendering is a
// straight traversal with no date math of its own. Output is standalone SVG
// with native <title> tooltips and a small hover style, viewable in any
// browser without scripts.
//
//	l := timeline.BuildLayout(doc, scale, lanes.DefaultGeometry)
//	svg := render.RenderSVG(l, render.WithTheme("dark"), render.WithGrid())
//
// # Options
//
// Rendering is configured through functional options:
//
//   - [WithTheme]: color palette by name ([ThemeLight], [ThemeDark])
//   - [WithGrid]: vertical tier boundaries with header labels
//   - [WithLegend]: color legend for the event kinds present
//   - [WithFontSize]: base label size in pixels
//   - [WithoutTitle]: omit the title row for embedding
//
// # Themes
//
// A [Theme] maps each event kind to a fill/stroke pair plus the frame
// colors (background, grid, text). [ThemeByName] resolves names given on
// the command line and falls back to [DefaultTheme] for unknown input, so
// a stale config value degrades to a drawable picture instead of an error.
package render
