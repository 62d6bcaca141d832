package cli

import (
	"github.com/spf13/cobra"
)

// NewDataValidateCmd creates the data validate command, which loads a
// dataset bundle and builds an engine from it without computing a diet.
func NewDataValidateCmd() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset bundle",
		Long: `Loads a dataset bundle, checks its version against the supported range
and builds an engine from it. This catches malformed tables, recipe cycles,
vectors of the wrong length and missing carrier factors before any diet is
computed.`,
		Example: `  # Validate the configured dataset
  foodprint data validate

  # Validate a specific bundle for another country
  foodprint data validate --data dataset.yaml --country de`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ds, err := flags.loadDataset(ctx)
			if err != nil {
				return err
			}
			eng, err := ds.Builder(flags.settings()).Build(ctx)
			if err != nil {
				return err
			}

			cmd.Printf("Dataset is valid\n")
			cmd.Printf("  Version: %s\n", ds.Version)
			cmd.Printf("  Country: %s\n", eng.Settings().Country)
			cmd.Printf("  Recipes: %d\n", len(ds.Recipes))
			cmd.Printf("  Waste categories: %d\n", len(ds.Waste))
			cmd.Printf("  RPC footprints: %d\n", len(ds.Footprints))
			cmd.Printf("  Process facets: %d\n", len(ds.ProcessEnergy))
			cmd.Printf("  Packaging facets: %d\n", len(ds.Packaging))
			cmd.Printf("  Transport origins: %d\n", len(ds.Transport))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.data, "data", "", "path to the dataset bundle (defaults to data.dataset)")
	cmd.Flags().StringVar(&flags.country, "country", "", "computing country (defaults to engine.country)")
	return cmd
}
