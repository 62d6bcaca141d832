package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/ingest"
)

// NewReduceCmd creates the reduce command, which shows the raw primary
// commodities, process facets and packaging facets a diet reduces to.
func NewReduceCmd() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "reduce <diet-file>",
		Short: "Reduce a diet to raw primary commodities",
		Long: `Reduces each food of a diet through the recipe table and lists the
resulting raw primary commodity masses, the transport-exempt commodities,
and the process and packaging facet masses per ancestor food.`,
		Example: `  # Show the reduction as a table
  foodprint reduce diet.yaml

  # Reduce consumed amounts without waste inflation, as JSON
  foodprint reduce diet.yaml --no-waste --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := flags.outputFormat()
			if err != nil {
				return err
			}
			eng, err := flags.loadEngine(ctx)
			if err != nil {
				return err
			}
			diet, err := ingest.LoadDiet(ctx, args[0])
			if err != nil {
				return err
			}

			red, err := eng.ReduceDiet(ctx, diet, flags.options())
			if err != nil {
				return fmt.Errorf("reducing diet: %w", err)
			}
			return renderReduction(cmd.OutOrStdout(), format, red, outputPrecision())
		},
	}

	flags.register(cmd)
	return cmd
}
