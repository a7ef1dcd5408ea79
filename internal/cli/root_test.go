package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"timelane/internal/config"
)

func TestNew(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Logger == nil {
		t.Fatal("New() should create a logger")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should pass after SetLogLevel(LogDebug)")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "timelane" {
		t.Errorf("root.Use = %q, want %q", root.Use, "timelane")
	}

	want := []string{"render", "lanes", "view", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandConfigFlag(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	f := root.PersistentFlags().Lookup("config")
	if f == nil {
		t.Fatal("root command should define a persistent --config flag")
	}

	if err := root.PersistentFlags().Set("config", "/tmp/custom.toml"); err != nil {
		t.Fatalf("set config flag: %v", err)
	}
	if c.ConfigFile != "/tmp/custom.toml" {
		t.Errorf("ConfigFile = %q, want flag value", c.ConfigFile)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.PixelsPerDay = 42
	cfg.Render.Formats = []string{"svg", "json"}
	cfg.Render.Theme = "dark"
	cfg.Render.Grid = false
	cfg.Render.Legend = true

	opts := optionsFromConfig(cfg)

	if opts.PixelsPerDay != 42 {
		t.Errorf("PixelsPerDay = %v, want 42", opts.PixelsPerDay)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "json" {
		t.Errorf("Formats = %v, want [svg json]", opts.Formats)
	}
	if opts.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", opts.Theme)
	}
	if opts.Grid {
		t.Error("Grid should be false")
	}
	if !opts.Legend {
		t.Error("Legend should be true")
	}

	// The slice must be a copy; mutating it must not touch the config.
	opts.Formats[0] = "mutated"
	if cfg.Render.Formats[0] != "svg" {
		t.Error("optionsFromConfig should copy the formats slice")
	}
}
