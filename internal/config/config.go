// Package config loads and writes the timelane configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/timelane/config.toml. Missing files are created on first load
// with defaults, and partially filled files are normalized so configs
// written by older versions keep working.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"

	"timelane/pkg/errors"
	"timelane/pkg/pipeline"
	"timelane/pkg/render"
)

// Cache backend names accepted in the [cache] section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Duration is a time.Duration that reads and writes TOML as a string like
// "15m" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText renders the duration back to its string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	// PixelsPerDay is the default zoom level for generated artifacts.
	PixelsPerDay float64 `toml:"pixels_per_day"`

	// Formats lists the artifacts to produce ("svg", "json").
	Formats []string `toml:"formats"`

	// Theme selects the SVG color palette ("light", "dark").
	Theme string `toml:"theme"`

	// Grid draws zoom-tier boundaries in SVG output.
	Grid bool `toml:"grid"`

	// Legend appends a kind color legend to SVG output.
	Legend bool `toml:"legend"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`

	// Refresh is a cron spec (e.g. "*/15 * * * *") for re-running the
	// pipeline against the source. Empty disables scheduled refresh.
	Refresh string `toml:"refresh"`

	// Source is the timeline to serve: a named source, path, or URL.
	Source string `toml:"source"`
}

// RedisConfig holds connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig selects and tunes the pipeline cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means the per-user cache
	// directory is used.
	Dir string `toml:"dir"`

	// TTL caps how long any cached entry may be reused. Zero keeps the
	// per-stage defaults.
	TTL Duration `toml:"ttl"`

	Redis RedisConfig `toml:"redis"`
}

// Config is the top-level timelane configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
	Cache  CacheConfig  `toml:"cache"`

	// Sources maps short names to paths or URLs, so commands can say
	// "timelane render team" instead of repeating a subscription URL.
	Sources map[string]string `toml:"sources"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			PixelsPerDay: 20,
			Formats:      []string{pipeline.FormatSVG},
			Theme:        render.DefaultTheme,
			Grid:         true,
		},
		Serve: ServeConfig{
			Addr:    "127.0.0.1:8080",
			Refresh: "*/15 * * * *",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr: "127.0.0.1:6379",
			},
		},
		Sources: map[string]string{},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve config directory")
	}
	return filepath.Join(dir, "timelane", "config.toml"), nil
}

// Normalize fills missing or zero values with defaults so partially filled
// configs still behave. It does not reject anything; see [Config.Validate].
func (c *Config) Normalize() {
	def := Default()

	if c.Render.PixelsPerDay <= 0 {
		c.Render.PixelsPerDay = def.Render.PixelsPerDay
	}
	if len(c.Render.Formats) == 0 {
		c.Render.Formats = def.Render.Formats
	}
	if c.Render.Theme == "" {
		c.Render.Theme = def.Render.Theme
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = def.Serve.Addr
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = def.Cache.Redis.Addr
	}
	if c.Sources == nil {
		c.Sources = map[string]string{}
	}
}

// Validate reports the first problem with the configuration, phrased for
// someone editing the file by hand.
func (c *Config) Validate() error {
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if err := pipeline.ValidateTheme(c.Render.Theme); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (valid: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache ttl must not be negative, got %s", c.Cache.TTL.Duration)
	}
	if c.Serve.Refresh != "" {
		if _, err := cron.ParseStandard(c.Serve.Refresh); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err,
				"invalid serve refresh schedule %q", c.Serve.Refresh)
		}
	}
	return nil
}

// ResolveSource maps a named source to its configured path or URL. Input
// that names no configured source is returned unchanged, so callers can
// pass names and raw locations interchangeably.
func (c *Config) ResolveSource(nameOrPath string) string {
	if resolved, ok := c.Sources[nameOrPath]; ok && resolved != "" {
		return resolved
	}
	return nameOrPath
}

// Load reads the configuration at path. A missing file is created with
// defaults on first run; an unreadable or invalid file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically: temp file in the same directory,
// fsync, chmod 0600, rename. The parent directory is created when missing.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "config path is empty")
	}
	if cfg == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create config directory")
	}

	tmp, err := os.CreateTemp(dir, ".timelane-config-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create temp config")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "encode config")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
