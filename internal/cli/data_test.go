package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/cli"
	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/ingest"
)

func TestDataValidate(t *testing.T) {
	t.Run("valid dataset", func(t *testing.T) {
		setupCLITest(t)

		out, err := runCLI(t, "data", "validate", "--data", testDataset)
		require.NoError(t, err)
		assert.Contains(t, out, "Dataset is valid")
		assert.Contains(t, out, "Version: 1.2.0")
		assert.Contains(t, out, "Country: se")
		assert.Contains(t, out, "Recipes: 3")
	})

	t.Run("country without electricity factor", func(t *testing.T) {
		setupCLITest(t)

		_, err := runCLI(t, "data", "validate", "--data", testDataset, "--country", "fr")
		require.ErrorIs(t, err, engine.ErrMissingElectricity)
	})

	t.Run("no dataset", func(t *testing.T) {
		setupCLITest(t)

		_, err := runCLI(t, "data", "validate")
		require.ErrorIs(t, err, cli.ErrNoDataset)
	})

	t.Run("incompatible version", func(t *testing.T) {
		setupCLITest(t)
		dataset := writeFile(t, "dataset.yaml", "version: 2.0.0\ncountry: se\n")

		_, err := runCLI(t, "data", "validate", "--data", dataset)
		require.ErrorIs(t, err, ingest.ErrIncompatibleData)
	})
}
