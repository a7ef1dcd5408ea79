package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"timelane/internal/config"
	"timelane/pkg/lanes"
	"timelane/pkg/pipeline"
	"timelane/pkg/timeline"
)

// laneDateLayout formats event dates in the lanes table and JSON output.
const laneDateLayout = "2006-01-02"

// lanesCommand creates the lanes command for inspecting lane assignment.
func (c *CLI) lanesCommand() *cobra.Command {
	var (
		asJSON  bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "lanes [source]",
		Short: "Show the computed lane assignment",
		Long: `Show the computed lane assignment.

Loads the source document, packs its events into lanes, and prints one row
per event with its assigned lane. Pinned events keep their fixed lane and
are marked; automatic events fill the remaining space greedily.

Use --json for machine-readable output.`,
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
			return c.runLanes(cmd.Context(), cfg, opts, asJSON, noCache)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote sources, bypassing the HTTP cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// laneRow is one event's placement in the machine-readable output.
type laneRow struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Lane   int    `json:"lane"`
	Pinned bool   `json:"pinned,omitempty"`
}

// lanesReport is the machine-readable output of the lanes command.
type lanesReport struct {
	Source      string    `json:"source"`
	Lanes       int       `json:"lanes"`
	MaxLane     int       `json:"max_lane"`
	SceneHeight float64   `json:"scene_height"`
	Events      []laneRow `json:"events"`
}

// runLanes loads the document, assigns lanes, and prints the result.
func (c *CLI) runLanes(ctx context.Context, cfg *config.Config, opts pipeline.Options, asJSON, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	doc, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d events", len(doc.Events)))

	report := buildLanesReport(opts.Source, doc)

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printLanesTable(doc.Title, report, cacheHit)
	return nil
}

// buildLanesReport assigns lanes and flattens the result into report rows,
// ordered by lane and then start date.
func buildLanesReport(source string, doc *timeline.Document) lanesReport {
	maxLane := timeline.AssignLanes(doc)

	rows := make([]laneRow, 0, len(doc.Events))
	for _, ev := range doc.Events {
		rows = append(rows, laneRow{
			ID:     ev.ID,
			Title:  ev.Title,
			Kind:   ev.Kind.String(),
			Start:  ev.Start.Format(laneDateLayout),
			End:    ev.End.Format(laneDateLayout),
			Lane:   ev.Lane,
			Pinned: ev.Pinned,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Lane != rows[j].Lane {
			return rows[i].Lane < rows[j].Lane
		}
		return rows[i].Start < rows[j].Start
	})

	return lanesReport{
		Source:      source,
		Lanes:       maxLane + 1,
		MaxLane:     maxLane,
		SceneHeight: lanes.SceneHeight(maxLane),
		Events:      rows,
	}
}

// printLanesTable renders the assignment as a bordered terminal table.
func printLanesTable(title string, report lanesReport, cacheHit bool) {
	if title != "" {
		fmt.Println(StyleTitle.Render(title))
	}

	tableRows := make([][]string, 0, len(report.Events))
	for _, row := range report.Events {
		pin := ""
		if row.Pinned {
			pin = iconPinned
		}
		tableRows = append(tableRows, []string{
			row.Title,
			row.Kind,
			row.Start,
			row.End,
			fmt.Sprintf("%d", row.Lane),
			pin,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Event", "Kind", "Start", "End", "Lane", "").
		Rows(tableRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(report.Events) {
				return lipgloss.NewStyle()
			}
			switch col {
			case 1:
				return lipgloss.NewStyle().Foreground(kindColor(timeline.Kind(report.Events[row].Kind)))
			case 2, 3:
				return lipgloss.NewStyle().Foreground(colorGray)
			case 4:
				return StyleNumber
			default:
				return StyleValue
			}
		})

	fmt.Println(t.Render())
	printStats(len(report.Events), report.Lanes, cacheHit)
	printDetail("Scene height: %.0fpx", report.SceneHeight)
}
