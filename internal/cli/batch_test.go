package cli_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/cli"
	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/engine/batch"
)

func TestBatch_JSON(t *testing.T) {
	setupCLITest(t)
	monday := writeFile(t, "monday.yaml", bDiet)
	tuesday := writeFile(t, "tuesday.csv", "code,amount\nB.01.01,2000\n")

	out, err := runCLI(t, "batch", monday, tuesday, "--data", testDataset, "-o", "json", "-c", "2")
	require.NoError(t, err)

	var got struct {
		Diets []struct {
			Name  string    `json:"name"`
			RunID string    `json:"run_id"`
			Total []float64 `json:"total"`
			Error string    `json:"error"`
		} `json:"diets"`
		Total []float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Diets, 2)
	assert.Equal(t, "monday", got.Diets[0].Name)
	assert.Equal(t, "tuesday", got.Diets[1].Name)
	assert.NotEqual(t, got.Diets[0].RunID, got.Diets[1].RunID)
	assert.InDelta(t, bDietCO2e, got.Diets[0].Total[engine.ColTotalCO2e], 1e-9)
	assert.InDelta(t, 2*bDietCO2e, got.Diets[1].Total[engine.ColTotalCO2e], 1e-9)
	assert.InDelta(t, 3*bDietCO2e, got.Total[engine.ColTotalCO2e], 1e-9)
}

func TestBatch_Table(t *testing.T) {
	setupCLITest(t)
	monday := writeFile(t, "monday.yaml", bDiet)

	out, err := runCLI(t, "batch", monday, "--data", testDataset)
	require.NoError(t, err)
	assert.Contains(t, out, "DIET")
	assert.Contains(t, out, "monday")
	assert.Contains(t, out, "5.683")
	assert.Contains(t, out, "ok")
}

func TestBatch_FailOnGaps(t *testing.T) {
	setupCLITest(t)
	monday := writeFile(t, "monday.yaml", bDiet)
	tuesday := writeFile(t, "tuesday.yaml", "- {code: Z.99, amount: 10}\n")

	_, err := runCLI(t, "batch", monday, tuesday, "--data", testDataset, "--fail-on-gaps")
	var gapsErr *cli.GapsExitError
	require.True(t, errors.As(err, &gapsErr))
	assert.Equal(t, cli.DefaultGapsExitCode, gapsErr.ExitCode)
}

func TestBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "no diets", args: []string{"batch", "--data", testDataset}, wantMsg: "requires at least 1 arg"},
		{name: "unreadable diet", args: []string{"batch", "missing.yaml", "--data", testDataset}, wantMsg: "reading diet file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBatch_InvalidConcurrency(t *testing.T) {
	setupCLITest(t)
	monday := writeFile(t, "monday.yaml", bDiet)

	_, err := runCLI(t, "batch", monday, "--data", testDataset, "-c", "0")
	require.ErrorIs(t, err, batch.ErrInvalidConcurrency)
}

func TestBatch_ExitCodeOutOfRange(t *testing.T) {
	setupCLITest(t)
	monday := writeFile(t, "monday.yaml", bDiet)

	_, err := runCLI(t, "batch", monday, "--data", testDataset, "--fail-on-gaps", "--exit-code", "300")
	require.ErrorIs(t, err, cli.ErrExitCodeOutOfRange)
	assert.Contains(t, err.Error(), "got 300")
}
