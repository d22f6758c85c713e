// Package config loads binary configuration for the strata tools.
//
// Values layer in order: built-in defaults, then an optional YAML
// file, then STRATA_* environment variables. Command-line flags are
// applied last by the binaries themselves.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/strucdoc/strata/govern"
	"github.com/strucdoc/strata/outline"
)

// Config is the top-level tool configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Governor GovernorConfig `yaml:"governor"`
	Server   ServerConfig   `yaml:"server"`
	Trace    TraceConfig    `yaml:"trace"`
	LogLevel string         `yaml:"log_level"` // debug | info | warn | error
}

// EngineConfig tunes the outline engine. Zero-valued fields keep the
// value the preset resolves to.
type EngineConfig struct {
	Preset          string  `yaml:"preset"` // balanced | fast | thorough
	MaxTiers        int     `yaml:"max_tiers"`
	Workers         int     `yaml:"workers"`
	Seed            int64   `yaml:"seed"`
	MaxIterations   int     `yaml:"max_iterations"`
	MinTierGap      float64 `yaml:"min_tier_gap"`
	LegaleseDensity float64 `yaml:"legalese_density"`
	TitlePageWindow int     `yaml:"title_page_window"`
	RepeatPageLimit int     `yaml:"repeat_page_limit"`
}

// GovernorConfig bounds each extraction run.
type GovernorConfig struct {
	Wall   time.Duration `yaml:"wall"`
	HeapMB int           `yaml:"heap_mb"`
	Poll   time.Duration `yaml:"poll"`
}

// ServerConfig configures the HTTP daemon.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	APIKey         string        `yaml:"api_key"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// TraceConfig configures the run store. An empty path disables it.
type TraceConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	gov := govern.DefaultConfig()
	return Config{
		Engine: EngineConfig{
			Preset: "balanced",
			Seed:   42,
		},
		Governor: GovernorConfig{
			Wall:   gov.Wall,
			HeapMB: int(gov.HeapLimit >> 20),
			Poll:   gov.PollInterval,
		},
		Server: ServerConfig{
			Addr:           ":8090",
			MaxUploadBytes: 50 << 20,
			ShutdownGrace:  10 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file
// at path (skipped when path is empty), overlaid by STRATA_* env
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Engine.Preset = envOr("STRATA_PRESET", c.Engine.Preset)
	c.Engine.Workers = envInt("STRATA_WORKERS", c.Engine.Workers)
	c.Engine.Seed = envInt64("STRATA_SEED", c.Engine.Seed)

	c.Governor.Wall = envDuration("STRATA_WALL_BUDGET", c.Governor.Wall)
	c.Governor.HeapMB = envInt("STRATA_HEAP_MB", c.Governor.HeapMB)

	c.Server.Addr = envOr("STRATA_ADDR", c.Server.Addr)
	c.Server.APIKey = envOr("STRATA_API_KEY", c.Server.APIKey)
	c.Server.MaxUploadBytes = envInt64("STRATA_MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)

	c.Trace.Path = envOr("STRATA_TRACE_DB", c.Trace.Path)
	c.LogLevel = envOr("STRATA_LOG_LEVEL", c.LogLevel)
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Engine.Preset {
	case "", "balanced", "fast", "thorough":
	default:
		return fmt.Errorf("unknown preset %q (want balanced, fast or thorough)", c.Engine.Preset)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// EngineOptions resolves the engine configuration: preset first, then
// any explicitly set field on top.
func (c EngineConfig) EngineOptions() outline.Config {
	base := outline.DefaultConfig()
	switch c.Preset {
	case "fast":
		base.Workers = 8
		base.MaxIterations = 10
	case "thorough":
		base.Workers = 2
		base.MaxIterations = 50
		base.TitlePageWindow = 3
	}

	if c.MaxTiers > 0 {
		base.MaxTiers = c.MaxTiers
	}
	if c.Workers > 0 {
		base.Workers = c.Workers
	}
	if c.MaxIterations > 0 {
		base.MaxIterations = c.MaxIterations
	}
	if c.MinTierGap > 0 {
		base.MinTierGap = c.MinTierGap
	}
	if c.LegaleseDensity > 0 {
		base.LegaleseDensity = c.LegaleseDensity
	}
	if c.TitlePageWindow > 0 {
		base.TitlePageWindow = c.TitlePageWindow
	}
	if c.RepeatPageLimit > 0 {
		base.RepeatPageLimit = c.RepeatPageLimit
	}
	base.Seed = c.Seed
	return base
}

// GovernorOptions resolves the governor configuration.
func (c GovernorConfig) GovernorOptions() govern.Config {
	cfg := govern.Config{
		Wall:         c.Wall,
		PollInterval: c.Poll,
	}
	if c.HeapMB > 0 {
		cfg.HeapLimit = uint64(c.HeapMB) << 20
	}
	return cfg
}

// SlogLevel maps the configured log level onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
