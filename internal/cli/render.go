package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"timelane/internal/config"
	"timelane/pkg/pipeline"
)

// renderCommand creates the render command for generating timeline artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		theme      string
		grid       bool
		legend     bool
		ppd        float64
		from, to   string
		title      string
		srcFormat  string
		maxOccur   int
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a timeline to SVG or JSON",
		Long: `Render a timeline to SVG or JSON.

The source is a YAML event document, an ICS calendar (path or URL), or a
named source from the config file. Events are packed into lanes, positioned
on a snapped date axis, and written as one artifact per requested format.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			opts := optionsFromConfig(cfg)
			opts.Source = cfg.ResolveSource(args[0])
			opts.SourceFormat = srcFormat
			opts.Title = title
			opts.RangeStart = from
			opts.RangeEnd = to
			opts.MaxOccurrences = maxOccur
			opts.Refresh = refresh

			// Flags override config defaults only when set explicitly.
			if f := parseFormats(formatsStr); f != nil {
				opts.Formats = f
			}
			if cmd.Flags().Changed("theme") {
				opts.Theme = theme
			}
			if cmd.Flags().Changed("grid") {
				opts.Grid = grid
			}
			if cmd.Flags().Changed("legend") {
				opts.Legend = legend
			}
			if cmd.Flags().Changed("ppd") {
				opts.PixelsPerDay = ppd
			}

			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateTheme(opts.Theme); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Load flags
	cmd.Flags().StringVar(&srcFormat, "source-format", "", "source format: yaml, ics, json (default: detected)")
	cmd.Flags().StringVar(&title, "title", "", "override the document title")
	cmd.Flags().StringVar(&from, "from", "", "window start (YYYY-MM-DD, default: derived from events)")
	cmd.Flags().StringVar(&to, "to", "", "window end (YYYY-MM-DD, default: derived from events)")
	cmd.Flags().IntVar(&maxOccur, "max-occurrences", 0, "cap recurrence expansion per event")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote sources, bypassing the HTTP cache")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().BoolVar(&grid, "grid", false, "draw zoom-tier grid lines")
	cmd.Flags().BoolVar(&legend, "legend", false, "append a kind color legend")
	cmd.Flags().Float64Var(&ppd, "ppd", 0, "pixels per day (zoom level)")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Source))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, opts.Source)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.EventCount, result.Stats.LaneCount, result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Browse", "timelane view "+opts.Source)

	return nil
}

// writeArtifacts writes each rendered format to its own file and returns
// the paths written, in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, source string) ([]string, error) {
	base := outputBase(output, source)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := output
		if path == "" || len(formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputBase derives the extensionless base path artifacts are written
// under. An explicit output keeps its directory; otherwise the source's
// file name is used, with "timeline" covering URLs and other sources that
// have no usable name.
func outputBase(output, source string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}

	name := filepath.Base(source)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = "timeline"
	}
	return name
}
