package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "se", cfg.Engine.Country)
	assert.True(t, cfg.Engine.WithWaste)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestNew_ReadsHomeAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FOODPRINT_HOME", home)
	t.Setenv("FOODPRINT_DATA", "/data/bundle.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
engine:
  country: de
  row_threshold: 0.05
  with_waste: false
  concurrency: 2
logging:
  level: debug
  format: json
`), 0o600))

	cfg := config.New()
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
	assert.Equal(t, "de", cfg.Engine.Country)
	assert.InDelta(t, 0.05, cfg.Engine.RowThreshold, 1e-12)
	assert.False(t, cfg.Engine.WithWaste)
	assert.Equal(t, "/data/bundle.yaml", cfg.Data.Dataset)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "table", cfg.Output.DefaultFormat, "absent keys keep defaults")

	t.Setenv("FOODPRINT_COUNTRY", "fr")
	assert.Equal(t, "fr", config.New().Engine.Country)
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Defaults()
	cfg.SetPath(path)
	cfg.Engine.TransportExempt = []string{"W.01"}
	cfg.Output.Precision = 5
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"W.01"}, loaded.Engine.TransportExempt)
	assert.Equal(t, 5, loaded.Output.Precision)
	assert.Equal(t, path, loaded.Path())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	assert.Error(t, config.Defaults().Save(), "no path")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{"missing country", func(c *config.Config) { c.Engine.Country = " " }, config.ErrMissingCountry},
		{"negative threshold", func(c *config.Config) { c.Engine.RowThreshold = -0.1 }, config.ErrInvalidThreshold},
		{"zero concurrency", func(c *config.Config) { c.Engine.Concurrency = 0 }, config.ErrInvalidConcurrency},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrInvalidFormat},
		{"bad precision", func(c *config.Config) { c.Output.Precision = 11 }, config.ErrInvalidPrecision},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := config.Defaults()

	require.NoError(t, cfg.Set("engine.country", "dk"))
	require.NoError(t, cfg.Set("engine.row_threshold", "0.02"))
	require.NoError(t, cfg.Set("engine.with_waste", "false"))
	require.NoError(t, cfg.Set("engine.transport_exempt", "W.01, W.02,"))
	require.NoError(t, cfg.Set("output.precision", "4"))

	for key, want := range map[string]string{
		"engine.country":          "dk",
		"engine.row_threshold":    "0.02",
		"engine.with_waste":       "false",
		"engine.transport_exempt": "W.01,W.02",
		"output.precision":        "4",
	} {
		got, err := cfg.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	require.ErrorIs(t, cfg.Set("engine.nope", "1"), config.ErrUnknownKey)
	_, err := cfg.Get("nope")
	require.ErrorIs(t, err, config.ErrUnknownKey)
	require.Error(t, cfg.Set("output.precision", "many"))

	assert.Contains(t, config.Keys(), "logging.level")
	assert.IsIncreasing(t, config.Keys())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "warn", got.Level)

	lc.File = "/tmp/foodprint.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/tmp/foodprint.log", got.File)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv("FOODPRINT_HOME", t.TempDir())
	t.Setenv("FOODPRINT_COUNTRY", "no")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	assert.Equal(t, "no", config.GetCountry())
	assert.Equal(t, "table", config.GetDefaultOutputFormat())

	custom := config.Defaults()
	custom.Data.Dataset = "x.yaml"
	config.SetGlobalConfig(custom)
	assert.Equal(t, "x.yaml", config.GetDatasetPath())
}

func TestEnsureSubDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("FOODPRINT_HOME", home)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	require.NoError(t, config.EnsureSubDirs())
	assert.DirExists(t, filepath.Join(home, "data"))
}
