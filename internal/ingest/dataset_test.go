package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/foodprint/internal/engine"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(context.Background(), filepath.Join("testdata", "dataset.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", ds.Version)
	assert.Equal(t, "se", ds.Country)
	assert.Equal(t, []string{"W.01"}, ds.TransportExempt)
	require.Len(t, ds.Recipes["A.01"], 2)
	assert.Equal(t, engine.RecipeComponent{Code: "A.01.01", Facets: []string{"facetA"}, Share: 0.2, Yield: 10}, ds.Recipes["A.01"][0])
	assert.Equal(t, engine.WasteFactors{Retail: 0.1, Consumer: 0.3}, ds.Waste["A.01"])
	assert.Len(t, ds.Footprints["A.01.02"]["es"], engine.NumIndicators)
	require.NotNil(t, ds.Carriers)
	assert.Equal(t, []float64{0.2, 0, 0.001}, ds.Carriers.Flat["Natural gas"])
}

func TestDatasetBuilder(t *testing.T) {
	ctx := context.Background()
	ds, err := LoadDataset(ctx, filepath.Join("testdata", "dataset.yaml"))
	require.NoError(t, err)

	e, err := ds.Builder(engine.Settings{RowThreshold: 0.01, PackagingFacetPrefix: "F19."}).Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, "se", e.Settings().Country)
	assert.Equal(t, []string{"W.01"}, e.Settings().TransportExempt)

	res, err := e.ComputeImpacts(ctx, engine.Diet{{Code: "B.01.01", Amount: 1000}}, engine.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 2+0.473+3.2+0.01, res.Total[engine.ColTotalCO2e], 1e-9)

	_, err = ds.Builder(engine.DefaultSettings("fr")).Build(ctx)
	require.ErrorIs(t, err, engine.ErrMissingElectricity)
}

func TestParseDataset_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty", data: "", wantErr: ErrEmptyDataset},
		{name: "major too new", data: "version: 2.0.0\n", wantErr: ErrIncompatibleData},
		{name: "too old", data: "version: 0.9.0\n", wantErr: ErrIncompatibleData},
		{name: "not semver", data: "version: latest\n", wantErr: ErrIncompatibleData},
		{name: "unknown field", data: "version: 1.0.0\nplugins: {}\n"},
		{name: "bad yaml", data: "version: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset(ctx, []byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseDataset_JSON(t *testing.T) {
	ds, err := ParseDataset(context.Background(), []byte(`{"version": "1.0.0", "country": "dk", "waste": {"A.01": {"retail": 0.1, "consumer": 0.2}}}`))
	require.NoError(t, err)
	assert.Equal(t, "dk", ds.Country)
	assert.InDelta(t, 0.2, ds.Waste["A.01"].Consumer, 1e-12)
}

func TestDatasetBuilder_MissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1.0.0\ncountry: se\nrecipes: {}\n"), 0o600))

	ds, err := LoadDataset(context.Background(), path)
	require.NoError(t, err)
	_, err = ds.Builder(engine.Settings{}).Build(context.Background())
	require.ErrorIs(t, err, engine.ErrMissingTable)
}
