package render

import (
	"bytes"
	"fmt"
	"strings"

	"timelane/pkg/timeline"
)

// Frame metrics in pixels. The header strip holds tick labels when the grid
// is drawn; the legend strip hangs below the lanes.
const (
	titleHeight  = 34.0
	headerHeight = 22.0
	legendHeight = 30.0
	framePadding = 12.0

	defaultFontSize = 12.0
	minBarTextWidth = 24.0 // bars narrower than this get no label

	legendSwatch = 12.0
)

// barInteractionCSS gives bars a hover affordance. Metadata itself comes
// from native <title> tooltips, so no script is needed.
const barInteractionCSS = `
    .bar { transition: stroke-width 0.15s ease; }
    .bar:hover { stroke-width: 3; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme    Theme
	grid     bool
	legend   bool
	title    bool
	fontSize float64
}

// WithTheme selects the color palette by name. Unknown names fall back to
// the default theme.
func WithTheme(name string) SVGOption {
	return func(r *svgRenderer) { r.theme = ThemeByName(name) }
}

// WithGrid draws the zoom-tier grid lines and their labels.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithLegend appends a legend strip mapping colors to event kinds.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithoutTitle suppresses the document title row even when the layout
// carries one. Embedders that print their own heading use this.
func WithoutTitle() SVGOption { return func(r *svgRenderer) { r.title = false } }

// WithFontSize overrides the base font size in pixels. Non-positive values
// keep the default.
func WithFontSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.fontSize = px
		}
	}
}

// RenderSVG renders a computed layout as a standalone SVG document.
//
// The drawing is assembled from the layout alone: bar rectangles and lane
// geometry come in pre-positioned, grid boundaries arrive as ticks. Bars
// carry native <title> tooltips, and pinned events render with a pin
// marker so manual placements are visible.
func RenderSVG(l *timeline.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	top := framePadding
	if r.title && l.Title != "" {
		top += titleHeight
	}
	if r.grid {
		top += headerHeight
	}

	width := l.Width + 2*framePadding
	height := top + l.Height + framePadding
	if r.legend {
		height += legendHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", barInteractionCSS)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		width, height, r.theme.Background)

	if r.title && l.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			framePadding, framePadding+titleHeight-12, r.fontSize+4, r.theme.Title, escape(l.Title))
	}

	if r.grid {
		r.renderGrid(&buf, l, framePadding, top)
	}
	r.renderLaneLines(&buf, l, framePadding, top)
	r.renderBars(&buf, l, framePadding, top)

	if r.legend {
		r.renderLegend(&buf, l, framePadding, top+l.Height+framePadding)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		theme:    ThemeByName(DefaultTheme),
		title:    true,
		fontSize: defaultFontSize,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderGrid draws one vertical line per tick across the lane area, with
// labels in the header strip. Major ticks use the stronger color and carry
// their label even when minor labels would crowd.
func (r *svgRenderer) renderGrid(buf *bytes.Buffer, l *timeline.Layout, offX, offY float64) {
	labelEvery := labelStride(l.Ticks, r.fontSize)
	for i, tk := range l.Ticks {
		x := offX + tk.X
		color := r.theme.GridLine
		if tk.Major {
			color = r.theme.GridMajor
		}
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
			x, offY, x, offY+l.Height, color)

		if tk.Label == "" || (!tk.Major && i%labelEvery != 0) {
			continue
		}
		fill := r.theme.MutedText
		if tk.Major {
			fill = r.theme.Text
		}
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x+3, offY-6, r.fontSize-2, fill, escape(tk.Label))
	}
}

// labelStride picks how many minor ticks to skip between labels so that
// neighboring labels cannot overlap at the current density.
func labelStride(ticks []timeline.Tick, fontSize float64) int {
	if len(ticks) < 2 {
		return 1
	}
	gap := ticks[1].X - ticks[0].X
	if gap <= 0 {
		return 1
	}
	need := fontSize * 4.5 // approx label width in px
	stride := int(need/gap) + 1
	if stride < 1 {
		stride = 1
	}
	return stride
}

// renderLaneLines separates lanes with faint horizontal rules.
func (r *svgRenderer) renderLaneLines(buf *bytes.Buffer, l *timeline.Layout, offX, offY float64) {
	step := l.LaneHeight + l.LaneSpacing
	if step <= 0 {
		return
	}
	for lane := 1; lane <= l.MaxLane; lane++ {
		y := offY + float64(lane)*step - l.LaneSpacing/2
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
			offX, y, offX+l.Width, y, r.theme.LaneLine)
	}
}

// renderBars draws every event rectangle with its label and tooltip.
func (r *svgRenderer) renderBars(buf *bytes.Buffer, l *timeline.Layout, offX, offY float64) {
	for _, b := range l.Blocks {
		style := r.theme.kindStyle(b.Kind)
		x, y := offX+b.X, offY+b.Y

		buf.WriteString("  <g class=\"bar-group\">\n")
		fmt.Fprintf(buf, `    <rect class="bar" id="bar-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" stroke="%s" stroke-width="1.5">`+"\n",
			escape(b.EventID), x, y, b.Width, b.Height, style.Fill, style.Stroke)
		fmt.Fprintf(buf, "      <title>%s</title>\n", escape(barTooltip(b)))
		buf.WriteString("    </rect>\n")

		if b.Pinned {
			// Pin dot in the top-left corner marks a user-fixed lane.
			fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>`+"\n",
				x+6, y+6, style.Stroke)
		}

		if label := fitLabel(b.Title, b.Width, r.fontSize); label != "" {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
				x+6, y+b.Height/2+r.fontSize/3, r.fontSize, r.theme.Text, escape(label))
		}
		buf.WriteString("  </g>\n")
	}
}

// renderLegend draws a swatch and name for every kind present in the layout,
// in canonical kind order.
func (r *svgRenderer) renderLegend(buf *bytes.Buffer, l *timeline.Layout, offX, y float64) {
	present := make(map[timeline.Kind]bool, len(l.Blocks))
	for _, b := range l.Blocks {
		present[b.Kind] = true
	}

	x := offX
	for _, k := range timeline.Kinds() {
		if !present[k] {
			continue
		}
		style := r.theme.kindStyle(k)
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s" stroke="%s"/>`+"\n",
			x, y, legendSwatch, legendSwatch, style.Fill, style.Stroke)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x+legendSwatch+5, y+legendSwatch-2, r.fontSize-2, r.theme.MutedText, escape(k.String()))
		x += legendSwatch + 5 + float64(len(k.String()))*(r.fontSize-2)*0.62 + 18
	}
}

// barTooltip builds the native tooltip text: title, kind, and notes when
// the event has any.
func barTooltip(b timeline.Block) string {
	s := fmt.Sprintf("%s (%s)", b.Title, b.Kind)
	if b.Notes != "" {
		s += "\n" + b.Notes
	}
	return s
}

// fitLabel truncates title so that it fits within width at the given font
// size, using an ellipsis. Returns "" when the bar is too narrow for any
// text.
func fitLabel(title string, width, fontSize float64) string {
	if width < minBarTextWidth {
		return ""
	}
	max := int((width - 10) / (fontSize * 0.62))
	if max < 1 {
		return ""
	}
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}

// escape makes text safe inside SVG element content and attribute values.
func escape(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
