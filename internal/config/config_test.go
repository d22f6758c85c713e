package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Engine.Preset != "balanced" {
		t.Errorf("Expected balanced preset, got %q", cfg.Engine.Preset)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Engine.Seed)
	}
	if cfg.Server.Addr != ":8090" {
		t.Errorf("Expected :8090, got %q", cfg.Server.Addr)
	}
	if cfg.Governor.Wall != 10*time.Second {
		t.Errorf("Expected 10s wall budget, got %v", cfg.Governor.Wall)
	}
	if cfg.Governor.HeapMB != 200 {
		t.Errorf("Expected 200 MB heap budget, got %d", cfg.Governor.HeapMB)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected info level, got %q", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yaml")
	data := []byte(`
engine:
  preset: fast
  workers: 3
  seed: 7
governor:
  wall: 2s
  heap_mb: 64
server:
  addr: ":9000"
trace:
  path: runs.db
log_level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Engine.Preset != "fast" || cfg.Engine.Workers != 3 || cfg.Engine.Seed != 7 {
		t.Errorf("Unexpected engine config: %+v", cfg.Engine)
	}
	if cfg.Governor.Wall != 2*time.Second || cfg.Governor.HeapMB != 64 {
		t.Errorf("Unexpected governor config: %+v", cfg.Governor)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Expected :9000, got %q", cfg.Server.Addr)
	}
	if cfg.Trace.Path != "runs.db" {
		t.Errorf("Expected runs.db, got %q", cfg.Trace.Path)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug, got %q", cfg.LogLevel)
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Engine.Workers != 2 {
		t.Errorf("Expected workers 2, got %d", cfg.Engine.Workers)
	}
	// Untouched fields keep their defaults.
	if cfg.Engine.Preset != "balanced" || cfg.Server.Addr != ":8090" {
		t.Errorf("Expected defaults to survive partial file: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing config file")
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("STRATA_PRESET", "thorough")
	t.Setenv("STRATA_WORKERS", "5")
	t.Setenv("STRATA_ADDR", ":7000")
	t.Setenv("STRATA_API_KEY", "sk-test")
	t.Setenv("STRATA_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Engine.Preset != "thorough" || cfg.Engine.Workers != 5 {
		t.Errorf("Unexpected engine config: %+v", cfg.Engine)
	}
	if cfg.Server.Addr != ":7000" || cfg.Server.APIKey != "sk-test" {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected warn, got %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  preset: fast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STRATA_PRESET", "thorough")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Engine.Preset != "thorough" {
		t.Errorf("Expected env to win over file, got %q", cfg.Engine.Preset)
	}
}

func TestValidateUnknownPreset(t *testing.T) {
	t.Setenv("STRATA_PRESET", "ludicrous")
	if _, err := Load(""); err == nil {
		t.Error("Expected an error for an unknown preset")
	}
}

func TestEngineOptionsPresets(t *testing.T) {
	tests := []struct {
		name          string
		engine        EngineConfig
		wantWorkers   int
		wantIters     int
		wantTitlePage int
	}{
		{"balanced defaults", EngineConfig{Preset: "balanced", Seed: 42}, 4, 25, 2},
		{"fast", EngineConfig{Preset: "fast", Seed: 42}, 8, 10, 2},
		{"thorough", EngineConfig{Preset: "thorough", Seed: 42}, 2, 50, 3},
		{"explicit field beats preset", EngineConfig{Preset: "fast", Workers: 3, Seed: 42}, 3, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.engine.EngineOptions()
			if opts.Workers != tt.wantWorkers {
				t.Errorf("Expected %d workers, got %d", tt.wantWorkers, opts.Workers)
			}
			if opts.MaxIterations != tt.wantIters {
				t.Errorf("Expected %d iterations, got %d", tt.wantIters, opts.MaxIterations)
			}
			if opts.TitlePageWindow != tt.wantTitlePage {
				t.Errorf("Expected title window %d, got %d", tt.wantTitlePage, opts.TitlePageWindow)
			}
			if opts.Seed != 42 {
				t.Errorf("Expected seed to pass through, got %d", opts.Seed)
			}
		})
	}
}

func TestGovernorOptions(t *testing.T) {
	opts := GovernorConfig{Wall: 5 * time.Second, HeapMB: 64}.GovernorOptions()
	if opts.Wall != 5*time.Second {
		t.Errorf("Expected 5s wall, got %v", opts.Wall)
	}
	if opts.HeapLimit != 64<<20 {
		t.Errorf("Expected 64 MB heap limit, got %d", opts.HeapLimit)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("Level %q: expected %v, got %v", tt.level, tt.want, got)
		}
	}
}
