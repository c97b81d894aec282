package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OXY_GLTF_"

var (
	errUnknownFormat = errors.New("unknown config format")
	errInvalid       = errors.New("invalid config")
)

// Config is the plugin and demo CLI configuration. Each field can come from a YAML or TOML file
// and from an OXY_GLTF_ environment variable named after its env tag.
type Config struct {
	ModelsDir    string        `toml:"models_dir" yaml:"models_dir" env:"MODELS_DIR"`
	TickInterval time.Duration `toml:"tick_interval" yaml:"tick_interval" env:"TICK_INTERVAL"`
	StaleRetry   int           `toml:"stale_retry" yaml:"stale_retry" env:"STALE_RETRY"`
	Locale       string        `toml:"locale" yaml:"locale" env:"LOCALE"`
	Profiling    bool          `toml:"profiling" yaml:"profiling" env:"PROFILING"`

	Grid    GridConfig    `toml:"grid" yaml:"grid" envPrefix:"GRID_"`
	Fetch   FetchConfig   `toml:"fetch" yaml:"fetch" envPrefix:"FETCH_"`
	Logging LoggingConfig `toml:"logging" yaml:"logging" envPrefix:"LOG_"`
}

// GridConfig controls how bounding box and offset commands map to world units.
// SquareSize is the edge of one map grid square; the Scale flags multiply box sizes and offsets by it.
type GridConfig struct {
	SquareSize       float32 `toml:"square_size" yaml:"square_size" env:"SQUARE_SIZE"`
	ScaleBoundingBox bool    `toml:"scale_bounding_box" yaml:"scale_bounding_box" env:"SCALE_BOUNDING_BOX"`
	ScaleOffset      bool    `toml:"scale_offset" yaml:"scale_offset" env:"SCALE_OFFSET"`
}

// FetchConfig tunes model loading. Workers is the size of the parse pool, where zero parses on the
// logic thread, and QueueSize bounds the tasks waiting for a worker. Cache keeps parsed templates
// and Watch drops them when their file changes.
type FetchConfig struct {
	Workers   int  `toml:"workers" yaml:"workers" env:"WORKERS"`
	QueueSize int  `toml:"queue_size" yaml:"queue_size" env:"QUEUE_SIZE"`
	Cache     bool `toml:"cache" yaml:"cache" env:"CACHE"`
	Watch     bool `toml:"watch" yaml:"watch" env:"WATCH"`
}

// LoggingConfig selects the zap level and encoder of the demo CLI.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"LEVEL"`
	Format string `toml:"format" yaml:"format" env:"FORMAT"` // "json" or "console"
}

// Load builds the configuration from defaults, the file at path (if any) and OXY_GLTF_*
// environment variables, in that order of precedence, and validates the result.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config %s: %w", path, errUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the plugin cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick_interval must be positive, got %s", errInvalid, c.TickInterval)
	case c.Grid.SquareSize < 0:
		return fmt.Errorf("%w: grid.square_size must not be negative, got %v", errInvalid, c.Grid.SquareSize)
	case c.Fetch.Workers < 1:
		return fmt.Errorf("%w: fetch.workers must be at least 1, got %d", errInvalid, c.Fetch.Workers)
	case c.Fetch.QueueSize < 1:
		return fmt.Errorf("%w: fetch.queue_size must be at least 1, got %d", errInvalid, c.Fetch.QueueSize)
	case c.StaleRetry < 0:
		return fmt.Errorf("%w: stale_retry must not be negative, got %d", errInvalid, c.StaleRetry)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		ModelsDir:    "Models",
		TickInterval: 16 * time.Millisecond,
		StaleRetry:   120,
		Locale:       "en",
		Profiling:    false,
		Grid: GridConfig{
			SquareSize:       16,
			ScaleBoundingBox: true,
			ScaleOffset:      true,
		},
		Fetch: FetchConfig{
			Workers:   2,
			QueueSize: 64,
			Cache:     true,
			Watch:     false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
