package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ModelsDir != "Models" || cfg.TickInterval != 16*time.Millisecond || cfg.StaleRetry != 120 {
		t.Errorf("defaults: got %+v", cfg)
	}
	if cfg.Grid.SquareSize != 16 || !cfg.Grid.ScaleBoundingBox || !cfg.Grid.ScaleOffset {
		t.Errorf("grid defaults: got %+v", cfg.Grid)
	}
	if cfg.Fetch.Workers != 2 || cfg.Fetch.QueueSize != 64 || !cfg.Fetch.Cache || cfg.Fetch.Watch {
		t.Errorf("fetch defaults: got %+v", cfg.Fetch)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" || cfg.Locale != "en" {
		t.Errorf("logging/locale defaults: got %+v/%q", cfg.Logging, cfg.Locale)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "plugin.yaml", `
models_dir: assets/models
tick_interval: 20ms
grid:
  square_size: 32
  scale_offset: false
fetch:
  workers: 4
logging:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ModelsDir != "assets/models" || cfg.TickInterval != 20*time.Millisecond {
		t.Errorf("top level: got %q/%s", cfg.ModelsDir, cfg.TickInterval)
	}
	if cfg.Grid.SquareSize != 32 || cfg.Grid.ScaleOffset || !cfg.Grid.ScaleBoundingBox {
		t.Errorf("grid: got %+v", cfg.Grid)
	}
	if cfg.Fetch.Workers != 4 || cfg.Fetch.QueueSize != 64 {
		t.Errorf("fetch: got %+v", cfg.Fetch)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging: got %+v", cfg.Logging)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "plugin.toml", `
models_dir = "gltf"
tick_interval = "8ms"
locale = "de"

[fetch]
cache = false
watch = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ModelsDir != "gltf" || cfg.TickInterval != 8*time.Millisecond || cfg.Locale != "de" {
		t.Errorf("top level: got %+v", cfg)
	}
	if cfg.Fetch.Cache || !cfg.Fetch.Watch {
		t.Errorf("fetch: got %+v", cfg.Fetch)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "plugin.yml", "models_dir: from-file\n")
	t.Setenv("OXY_GLTF_MODELS_DIR", "from-env")
	t.Setenv("OXY_GLTF_TICK_INTERVAL", "33ms")
	t.Setenv("OXY_GLTF_GRID_SQUARE_SIZE", "8")
	t.Setenv("OXY_GLTF_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ModelsDir != "from-env" || cfg.TickInterval != 33*time.Millisecond {
		t.Errorf("env: got %q/%s", cfg.ModelsDir, cfg.TickInterval)
	}
	if cfg.Grid.SquareSize != 8 || cfg.Logging.Level != "debug" {
		t.Errorf("nested env: got %v/%q", cfg.Grid.SquareSize, cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want error
	}{
		{"unknown extension", "plugin.ini", "x=1", errUnknownFormat},
		{"zero tick", "plugin.yaml", "tick_interval: 0s\n", errInvalid},
		{"negative square", "plugin.yaml", "grid:\n  square_size: -1\n", errInvalid},
		{"no workers", "plugin.toml", "[fetch]\nworkers = 0\n", errInvalid},
	}
	for _, tt := range tests {
		_, err := Load(writeConfig(t, tt.file, tt.body))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "grid: [")); err == nil {
		t.Errorf("malformed yaml: got nil error")
	}
}
