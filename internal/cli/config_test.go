package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/config"
)

func TestConfigInit_Project(t *testing.T) {
	projectRoot := setupCLITest(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	projectDir := filepath.Join(projectRoot, config.ProjectDirName)
	_, statErr := os.Stat(filepath.Join(projectDir, "config.yaml"))
	require.NoError(t, statErr, ".foodprint/config.yaml should exist")

	gitignore, readErr := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, readErr)
	assert.Equal(t, config.GitignoreContent(), string(gitignore))

	_, err = runCLI(t, "config", "init")
	require.Error(t, err, "second init without --force should fail")
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	projectRoot := setupCLITest(t)
	projectDir := filepath.Join(projectRoot, config.ProjectDirName)
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	custom := "# custom\nsecrets/\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(custom), 0o600))

	_, err := runCLI(t, "config", "init", "--force")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(got))
}

func TestConfigInit_Global(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	home := os.Getenv("FOODPRINT_HOME")
	_, statErr := os.Stat(filepath.Join(home, "config.yaml"))
	require.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(home, "data"))
	require.NoError(t, statErr, "data directory should be created")
}

func TestConfigSetGet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "country", key: "engine.country", value: "de"},
		{name: "threshold", key: "engine.row_threshold", value: "0.05"},
		{name: "exempt list", key: "engine.transport_exempt", value: "W.01,W.02"},
		{name: "waste switch", key: "engine.with_waste", value: "false"},
		{name: "output format", key: "output.default_format", value: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectRoot := setupCLITest(t)

			out, err := runCLI(t, "config", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Contains(t, out, filepath.Join(projectRoot, config.ProjectDirName, "config.yaml"))

			out, err = runCLI(t, "config", "get", tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value+"\n", out)
		})
	}
}

func TestConfigSet_Global(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "config", "set", "output.precision", "5", "--global")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(os.Getenv("FOODPRINT_HOME"), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Output.Precision)
}

func TestConfigSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "unknown key", key: "engine.colour", value: "x", wantErr: config.ErrUnknownKey},
		{name: "threshold out of range", key: "engine.row_threshold", value: "2", wantErr: config.ErrInvalidThreshold},
		{name: "unknown format", key: "output.default_format", value: "xml", wantErr: config.ErrInvalidFormat},
		{name: "unparsable number", key: "output.precision", value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)

			_, err := runCLI(t, "config", "set", tt.key, tt.value)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfigList(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "list")
	require.NoError(t, err)
	for _, key := range config.Keys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, config.DefaultCountry)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		setupCLITest(t)

		out, err := runCLI(t, "config", "validate", "--verbose")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "Country: se")
		assert.Contains(t, out, "No dataset configured")
	})

	t.Run("explicit config file", func(t *testing.T) {
		setupCLITest(t)
		path := writeFile(t, "config.yaml", "output:\n  default_format: pdf\n  precision: 3\n")

		_, err := runCLI(t, "config", "validate", "--config", path)
		require.ErrorIs(t, err, config.ErrInvalidFormat)
	})
}
