// Package cli implements the timelane command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"timelane/internal/config"
	"timelane/pkg/buildinfo"
	"timelane/pkg/cache"
	"timelane/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "timelane"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigFile is the --config override; empty means the default path.
	ConfigFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "timelane",
		Short:        "Timelane renders event timelines as lane-packed diagrams",
		Long:         `Timelane is a CLI tool for turning event documents (YAML or ICS) into timeline diagrams: overlapping events are packed into horizontal lanes, date positions snap to zoom-dependent calendar boundaries, and the result renders to SVG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigFile, "config", "", "config file (default ~/.config/timelane/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.lanesCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, falling back to the
// per-user default path. A missing default file is created on first run.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.ConfigFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The logger comes from the
// command context, where the root command's pre-run hook attached it.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, loggerFromContext(ctx)), nil
}

// newCache builds the backend the config selects. An unusable file cache
// directory disables caching instead of failing the run; an unreachable
// redis is an error, since the user asked for it explicitly.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}

	var store cache.Cache
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		var err error
		store, err = cache.NewRedisCache(ctx, cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, err
		}
	default:
		dir, err := resolveCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		store, err = cache.NewFileCache(dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}

	return cache.NewMaxTTLCache(store, cfg.Cache.TTL.Duration), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/timelane/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// optionsFromConfig seeds pipeline options with the config's render
// defaults. Flag values override these after parsing.
func optionsFromConfig(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		PixelsPerDay: cfg.Render.PixelsPerDay,
		Formats:      append([]string(nil), cfg.Render.Formats...),
		Theme:        cfg.Render.Theme,
		Grid:         cfg.Render.Grid,
		Legend:       cfg.Render.Legend,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the caller's default survives.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
