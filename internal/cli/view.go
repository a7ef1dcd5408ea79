package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"timelane/internal/config"
	"timelane/pkg/lanes"
	"timelane/pkg/pipeline"
	"timelane/pkg/timeline"
	"timelane/pkg/timescale"
)

// viewCommand creates the view command for interactive terminal browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		ppd     float64
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Browse a timeline interactively in the terminal",
		Long: `Browse a timeline interactively in the terminal.

Events are drawn as colored lane bars over a calendar grid. Zooming moves
through the same tiers the SVG renderer uses: months at the coarsest zoom,
then weeks, days, and sub-day slots as the scale grows.

Keys: ←/→ pan, +/- zoom, 0 jump to start, ? help, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Source:  cfg.ResolveSource(args[0]),
				Refresh: refresh,
			}
			if ppd <= 0 {
				ppd = cfg.Render.PixelsPerDay
			}
			return c.runView(cmd, cfg, opts, ppd, noCache)
		},
	}

	cmd.Flags().Float64Var(&ppd, "ppd", 0, "initial columns per day (zoom level)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote sources, bypassing the HTTP cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runView loads the document and hands it to the interactive program.
func (c *CLI) runView(cmd *cobra.Command, cfg *config.Config, opts pipeline.Options, ppd float64, noCache bool) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", opts.Source))
	spinner.Start()
	doc, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	if len(doc.Events) == 0 {
		printInfo("No events in %s", opts.Source)
		return nil
	}

	model := newViewModel(doc, ppd)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// ViewModel - Interactive timeline browsing
// =============================================================================

// zoomStep is the pixels-per-day multiplier applied per zoom keypress.
const zoomStep = 1.5

// Bar styles: events render as background-colored cells with dark text.
var (
	viewBarText  = lipgloss.Color("0")
	viewHelpText = lipgloss.NewStyle().Foreground(colorDim)
	viewHeader   = lipgloss.NewStyle().Foreground(colorGray)
	viewMajor    = lipgloss.NewStyle().Foreground(colorWhite)
)

// viewModel is the bubbletea model for the interactive timeline.
//
// One terminal column equals one layout pixel, so the model drives the same
// layout engine as the SVG renderer with single-row lane geometry and the
// zoom tiers behave identically in both.
type viewModel struct {
	doc    *timeline.Document
	scale  *timescale.Scale
	layout *timeline.Layout

	offset   float64 // viewport left edge, in scale pixels (columns)
	width    int
	height   int
	laneTop  int // first visible lane for tall timelines
	showHelp bool
}

// newViewModel builds the model around the document's own envelope.
func newViewModel(doc *timeline.Document, ppd float64) *viewModel {
	start, end := doc.Range.Start, doc.Range.End
	if doc.Range.IsZero() {
		if s, e, ok := doc.Envelope(); ok {
			start, end = s, e
		}
	}

	m := &viewModel{
		doc:    doc,
		scale:  timescale.New(start, end, ppd),
		width:  80,
		height: 24,
	}
	m.rebuild()
	return m
}

// rebuild recomputes the layout after a zoom change. Terminal lanes are one
// cell tall with no spacing, so block Y equals the lane index.
func (m *viewModel) rebuild() {
	m.layout = timeline.BuildLayout(m.doc, m.scale, lanes.Geometry{LaneHeight: 1})
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.zoom(zoomStep)
		case "-", "_":
			m.zoom(1 / zoomStep)
		case "left", "h":
			m.pan(-m.panStep())
		case "right", "l":
			m.pan(m.panStep())
		case "up", "k":
			if m.laneTop > 0 {
				m.laneTop--
			}
		case "down", "j":
			if m.laneTop < m.layout.MaxLane {
				m.laneTop++
			}
		case "0", "home":
			m.offset = 0
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
	}
	return m, nil
}

// zoom rescales around the viewport center so the date under the middle of
// the screen stays put.
func (m *viewModel) zoom(factor float64) {
	center := m.scale.XToDateTime(m.offset + float64(m.width)/2)
	m.scale.Zoom(factor)
	m.rebuild()
	m.offset = m.scale.DateTimeToX(center) - float64(m.width)/2
	m.clampOffset()
}

// pan moves the viewport horizontally by delta columns.
func (m *viewModel) pan(delta float64) {
	m.offset += delta
	m.clampOffset()
}

// panStep is a quarter of the viewport, so four presses cross the screen.
func (m *viewModel) panStep() float64 {
	return float64(m.width) / 4
}

func (m *viewModel) clampOffset() {
	max := m.layout.Width - float64(m.width)
	if max < 0 {
		max = 0
	}
	if m.offset > max {
		m.offset = max
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderTickRow())
	b.WriteString("\n")

	for _, line := range m.renderLanes() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLegend())
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(viewHelpText.Render("←/→ or h/l pan · +/- zoom · ↑/↓ scroll lanes · 0 jump to start · ? close help · q quit"))
	} else {
		b.WriteString(viewHelpText.Render("←/→ pan  +/- zoom  ? help  q quit"))
	}
	return b.String()
}

// renderStatus draws the title row: document name, visible window, tier.
func (m *viewModel) renderStatus() string {
	title := m.doc.Title
	if title == "" {
		title = "Timeline"
	}

	from := m.scale.XToDateTime(m.offset)
	to := m.scale.XToDateTime(m.offset + float64(m.width))
	tier := timescale.TierFor(m.scale.PixelsPerDay()).Unit

	return StyleTitle.Render(title) + "  " +
		StyleDim.Render(fmt.Sprintf("%s – %s · %s grid · %.0f px/day",
			from.Format("Jan 2 2006"), to.Format("Jan 2 2006"), tier, m.scale.PixelsPerDay()))
}

// renderTickRow places tick labels at their grid columns.
func (m *viewModel) renderTickRow() string {
	cells := make([]rune, m.width)
	for i := range cells {
		cells[i] = ' '
	}

	for _, tk := range m.visibleTicks() {
		col := int(tk.X - m.offset)
		if col < 0 || col >= m.width || tk.Label == "" {
			continue
		}
		for i, r := range tk.Label {
			if col+i >= m.width {
				break
			}
			// Leave a gap so neighboring labels stay readable.
			if cells[col+i] != ' ' && i == 0 {
				break
			}
			cells[col+i] = r
		}
	}
	return viewHeader.Render(string(cells))
}

// renderLanes draws one terminal row per visible lane: grid columns first,
// then event bars colored by kind with their titles inlined.
func (m *viewModel) renderLanes() []string {
	ticks := m.visibleTicks()
	visible := m.visibleLaneCount()

	lines := make([]string, 0, visible)
	for lane := m.laneTop; lane < m.laneTop+visible && lane <= m.layout.MaxLane; lane++ {
		lines = append(lines, m.renderLane(lane, ticks))
	}
	return lines
}

// visibleLaneCount is the lane rows that fit under the chrome (status, tick
// row, legend, help, spacer).
func (m *viewModel) visibleLaneCount() int {
	n := m.height - 5
	if n < 1 {
		n = 1
	}
	if n > m.layout.MaxLane+1 {
		n = m.layout.MaxLane + 1
	}
	return n
}

// renderLane builds a single lane row.
func (m *viewModel) renderLane(lane int, ticks []timeline.Tick) string {
	cells := make([]rune, m.width)
	owner := make([]int, m.width) // block index per column, -1 for grid
	for i := range cells {
		cells[i] = ' '
		owner[i] = -1
	}
	for _, tk := range ticks {
		col := int(tk.X - m.offset)
		if col < 0 || col >= m.width {
			continue
		}
		if tk.Major {
			cells[col] = '│'
		} else {
			cells[col] = '·'
		}
	}

	for bi, blk := range m.layout.Blocks {
		if blk.Lane != lane {
			continue
		}
		x0 := int(blk.X - m.offset)
		x1 := int(blk.X + blk.Width - m.offset)
		if x1 <= 0 || x0 >= m.width {
			continue
		}
		if x0 < 0 {
			x0 = 0
		}
		if x1 > m.width {
			x1 = m.width
		}
		if x1 == x0 {
			x1 = x0 + 1 // sub-column events still show one cell
		}

		for col := x0; col < x1 && col < m.width; col++ {
			cells[col] = ' '
			owner[col] = bi
		}

		label := blk.Title
		if blk.Pinned {
			label = "•" + label
		}
		runes := []rune(label)
		for i, r := range runes {
			col := x0 + i
			if col >= x1 {
				break
			}
			if col == x1-1 && i < len(runes)-1 && x1-x0 > 1 {
				cells[col] = '…'
				break
			}
			cells[col] = r
		}
	}

	return m.renderRuns(cells, owner)
}

// renderRuns groups neighboring columns with the same owner and styles each
// run once, keeping the row's escape-sequence count low.
func (m *viewModel) renderRuns(cells []rune, owner []int) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && owner[j] == owner[i] {
			j++
		}
		run := string(cells[i:j])
		if owner[i] == -1 {
			b.WriteString(StyleDim.Render(run))
		} else {
			k := m.layout.Blocks[owner[i]].Kind
			b.WriteString(lipgloss.NewStyle().
				Background(kindColor(k)).
				Foreground(viewBarText).
				Render(run))
		}
		i = j
	}
	return b.String()
}

// renderLegend lists the kinds present with their swatches.
func (m *viewModel) renderLegend() string {
	present := make(map[timeline.Kind]bool, len(m.layout.Blocks))
	for _, blk := range m.layout.Blocks {
		present[blk.Kind] = true
	}

	var parts []string
	for _, k := range timeline.Kinds() {
		if !present[k] {
			continue
		}
		swatch := lipgloss.NewStyle().Foreground(kindColor(k)).Render("■")
		parts = append(parts, swatch+" "+StyleDim.Render(k.String()))
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d lanes", m.layout.MaxLane+1)))
	return strings.Join(parts, "  ")
}

// visibleTicks returns the grid boundaries inside the viewport, labeled the
// same way the SVG grid labels them.
func (m *viewModel) visibleTicks() []timeline.Tick {
	from := int(m.offset)
	to := int(m.offset) + m.width

	var out []timeline.Tick
	for _, tk := range m.layout.Ticks {
		if tk.X < float64(from) || tk.X > float64(to) {
			continue
		}
		out = append(out, tk)
	}
	return out
}
