package tessera

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxBatchSize is the number of pending items that forces an
	// implicit flush.
	DefaultMaxBatchSize = 4096
	// MaxBatchSizeLimit keeps every vertex of a flush addressable by a
	// uint16 index.
	MaxBatchSizeLimit = 1 << (maxSizeClasses - 1)
)

// Config holds the engine configuration.
type Config struct {
	// MaxBatchSize is the number of items accepted before Submit flushes.
	MaxBatchSize int
	// MaxTextures caps the texture units used per draw call. Zero uses the
	// probed device limit.
	MaxTextures int
	// PixelSnap snaps vertex positions to a 1/Resolution grid.
	PixelSnap  bool
	Resolution float64
	// Debug logs per-flush stats at debug level.
	Debug  bool
	Logger zerolog.Logger
}

// DefaultConfig returns a Config with default values and a silent logger.
func DefaultConfig() Config {
	return Config{
		MaxBatchSize: DefaultMaxBatchSize,
		Resolution:   1,
		Logger:       zerolog.Nop(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxBatchSize < 1 || c.MaxBatchSize > MaxBatchSizeLimit {
		return fmt.Errorf("tessera: max batch size %d out of range [1, %d]", c.MaxBatchSize, MaxBatchSizeLimit)
	}
	if c.MaxTextures < 0 {
		return fmt.Errorf("tessera: max textures must be >= 0, got %d", c.MaxTextures)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("tessera: resolution must be > 0, got %g", c.Resolution)
	}
	return nil
}

// FileConfig mirrors Config in a TOML-friendly shape. Pointer fields
// distinguish "unset" from false.
type FileConfig struct {
	MaxBatchSize int     `toml:"max_batch_size"`
	MaxTextures  int     `toml:"max_textures"`
	PixelSnap    *bool   `toml:"pixel_snap"`
	Resolution   float64 `toml:"resolution"`
	Debug        *bool   `toml:"debug"`
	LogLevel     string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("tessera: parse %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFileConfig copies the values set in fc onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if fc.MaxBatchSize != 0 {
		cfg.MaxBatchSize = fc.MaxBatchSize
	}
	if fc.MaxTextures != 0 {
		cfg.MaxTextures = fc.MaxTextures
	}
	if fc.PixelSnap != nil {
		cfg.PixelSnap = *fc.PixelSnap
	}
	if fc.Resolution != 0 {
		cfg.Resolution = fc.Resolution
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(fc.LogLevel)
		if err != nil {
			return fmt.Errorf("tessera: log level: %w", err)
		}
		cfg.Logger = cfg.Logger.Level(lvl)
	}
	return nil
}
