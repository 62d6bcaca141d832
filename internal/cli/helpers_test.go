package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/cli"
	"github.com/rshade/foodprint/internal/config"
)

// testDataset is the shared dataset fixture of the ingest package.
var testDataset = filepath.Join("..", "ingest", "testdata", "dataset.yaml") //nolint:gochecknoglobals // Test fixture path.

// setupCLITest isolates the global and project configuration and quiets
// logging. It returns the project root directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	t.Setenv("FOODPRINT_LOG_LEVEL", "error")
	t.Setenv("FOODPRINT_HOME", t.TempDir())
	projectRoot := t.TempDir()
	t.Setenv("FOODPRINT_PROJECT_DIR", projectRoot)
	t.Cleanup(config.ResetGlobalConfigForTest)
	return projectRoot
}

// runCLI executes the root command with args and returns its combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
