package tessera

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultMaxBatchSize, cfg.MaxBatchSize)
	assert.Equal(t, 16384, MaxBatchSizeLimit)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero batch", func(c *Config) { c.MaxBatchSize = 0 }},
		{"batch over index range", func(c *Config) { c.MaxBatchSize = MaxBatchSizeLimit + 1 }},
		{"negative textures", func(c *Config) { c.MaxTextures = -1 }},
		{"zero resolution", func(c *Config) { c.Resolution = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tessera.toml")
	data := `
max_batch_size = 1024
max_textures = 8
pixel_snap = true
resolution = 2.0
debug = false
log_level = "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Debug = true
	require.NoError(t, ApplyFileConfig(&cfg, fc))
	assert.Equal(t, 1024, cfg.MaxBatchSize)
	assert.Equal(t, 8, cfg.MaxTextures)
	assert.True(t, cfg.PixelSnap)
	assert.Equal(t, 2.0, cfg.Resolution)
	assert.False(t, cfg.Debug, "explicit false overrides")
	assert.Equal(t, zerolog.WarnLevel, cfg.Logger.GetLevel())
}

func TestApplyFileConfigKeepsUnsetFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PixelSnap = true
	require.NoError(t, ApplyFileConfig(&cfg, FileConfig{}))
	assert.Equal(t, DefaultMaxBatchSize, cfg.MaxBatchSize)
	assert.True(t, cfg.PixelSnap)
}

func TestLoadFileConfigErrors(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_batch_size = ["), 0o644))
	_, err = LoadFileConfig(path)
	assert.ErrorContains(t, err, "tessera: parse")

	cfg := DefaultConfig()
	assert.Error(t, ApplyFileConfig(&cfg, FileConfig{LogLevel: "loud"}))
}
