package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/config"
	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/ingest"
)

// ErrNoDataset is returned when neither --data nor data.dataset names a
// dataset bundle.
var ErrNoDataset = errors.New("no dataset: pass --data or set data.dataset")

// engineFlags are the flags shared by every command that builds an engine.
type engineFlags struct {
	data    string
	country string
	noWaste bool
	output  string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", "path to the dataset bundle (defaults to data.dataset)")
	cmd.Flags().StringVar(&f.country, "country", "", "computing country (defaults to engine.country)")
	cmd.Flags().BoolVar(&f.noWaste, "no-waste", false, "skip retail and consumer waste adjustment")
	cmd.Flags().StringVarP(&f.output, "output", "o", "",
		"output format: table, json, ndjson or csv (defaults to output.default_format)")
}

// outputFormat returns the requested output format, validated.
func (f *engineFlags) outputFormat() (string, error) {
	format := f.output
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	if !slices.Contains(config.OutputFormats(), format) {
		return "", fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
	return format, nil
}

// options returns the computation options from config and flags.
func (f *engineFlags) options() engine.Options {
	cfg := config.GetGlobalConfig()
	return engine.Options{WithWaste: cfg.Engine.WithWaste && !f.noWaste}
}

// settings returns the engine settings from config and flags.
func (f *engineFlags) settings() engine.Settings {
	cfg := config.GetGlobalConfig()
	s := engine.Settings{
		Country:              cfg.Engine.Country,
		RowThreshold:         cfg.Engine.RowThreshold,
		PackagingFacetPrefix: cfg.Engine.PackagingPrefix,
		TransportExempt:      slices.Clone(cfg.Engine.TransportExempt),
	}
	if f.country != "" {
		s.Country = f.country
	}
	return s
}

// loadDataset reads the dataset named by --data or data.dataset.
func (f *engineFlags) loadDataset(ctx context.Context) (*ingest.Dataset, error) {
	path := f.data
	if path == "" {
		path = config.GetDatasetPath()
	}
	if path == "" {
		return nil, ErrNoDataset
	}
	return ingest.LoadDataset(ctx, path)
}

// loadEngine validates the configuration and builds an engine from the
// dataset bundle.
func (f *engineFlags) loadEngine(ctx context.Context) (*engine.Engine, error) {
	if err := config.GetGlobalConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ds, err := f.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	eng, err := ds.Builder(f.settings()).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	return eng, nil
}
