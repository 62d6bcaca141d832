package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/logging"
)

// SupportedDatasetRange is the semver constraint a dataset version must meet.
const SupportedDatasetRange = ">= 1.0.0, < 2.0.0"

// Dataset errors.
var (
	ErrIncompatibleData = errors.New("incompatible dataset version")
	ErrEmptyDataset     = errors.New("dataset is empty")
)

// Dataset is a bundle of reference tables for one release of the data.
type Dataset struct {
	Version string `yaml:"version"`
	// Country is the computing country the bundle was prepared for.
	Country         string   `yaml:"country"`
	TransportExempt []string `yaml:"transport_exempt,omitempty"`

	Recipes       engine.RecipeTable        `yaml:"recipes"`
	Waste         engine.WasteTable         `yaml:"waste"`
	Origins       engine.OriginWasteTable   `yaml:"origins"`
	Footprints    engine.FootprintTable     `yaml:"footprints"`
	ProcessEnergy engine.ProcessEnergyTable `yaml:"process_energy"`
	Carriers      *engine.CarrierFactors    `yaml:"carriers"`
	Packaging     engine.PackagingFactors   `yaml:"packaging"`
	Transport     engine.TransportFactors   `yaml:"transport"`
}

// ParseDataset decodes a dataset bundle and checks its version. Unknown
// fields are rejected.
func ParseDataset(ctx context.Context, data []byte) (*Dataset, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "parse_dataset").
		Int("data_size_bytes", len(data)).
		Msg("parsing dataset")

	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Err(err).
			Msg("failed to parse dataset")
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	if err := ds.CheckVersion(); err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("version", ds.Version).
		Str("country", ds.Country).
		Int("recipe_count", len(ds.Recipes)).
		Int("rpc_count", len(ds.Footprints)).
		Msg("dataset parsed successfully")
	return &ds, nil
}

// LoadDataset reads and parses the dataset bundle at path.
func LoadDataset(ctx context.Context, path string) (*Dataset, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_dataset").
		Str("dataset_path", path).
		Msg("loading dataset")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}
	return ParseDataset(ctx, data)
}

// CheckVersion reports ErrIncompatibleData unless Version satisfies
// SupportedDatasetRange.
func (d *Dataset) CheckVersion() error {
	v, err := semver.NewVersion(d.Version)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleData, d.Version)
	}
	c, err := semver.NewConstraint(SupportedDatasetRange)
	if err != nil {
		return fmt.Errorf("parsing supported range: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s, supported %s", ErrIncompatibleData, v, SupportedDatasetRange)
	}
	return nil
}

// Builder returns an engine builder loaded with every table of the dataset.
// An empty settings.Country falls back to the dataset's country, and the
// dataset's transport-exempt RPCs are added to settings.TransportExempt.
func (d *Dataset) Builder(settings engine.Settings) *engine.Builder {
	if settings.Country == "" {
		settings.Country = d.Country
	}
	settings.TransportExempt = append(append([]string(nil), settings.TransportExempt...), d.TransportExempt...)

	b := engine.NewBuilder(settings).
		SetRecipes(d.Recipes).
		SetWaste(d.Waste).
		SetOrigins(d.Origins).
		SetFootprints(d.Footprints).
		SetProcessEnergy(d.ProcessEnergy).
		SetPackaging(d.Packaging).
		SetTransport(d.Transport)
	if d.Carriers != nil {
		b.SetCarriers(*d.Carriers)
	}
	return b
}
