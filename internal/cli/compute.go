package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/ingest"
)

// Exit codes accepted by --exit-code.
const (
	DefaultGapsExitCode = 2   // Exit code used by --fail-on-gaps
	MinGapsExitCode     = 1   // Minimum valid exit code; 0 would report success
	MaxGapsExitCode     = 255 // Maximum valid exit code (Unix standard)
)

// ErrExitCodeOutOfRange is returned when --exit-code is outside 1-255.
var ErrExitCodeOutOfRange = errors.New("exit code must be between 1 and 255")

// validateExitCode checks exitCode only when failOnGaps is set.
func validateExitCode(failOnGaps bool, exitCode int) error {
	if failOnGaps && (exitCode < MinGapsExitCode || exitCode > MaxGapsExitCode) {
		return fmt.Errorf("%w: got %d", ErrExitCodeOutOfRange, exitCode)
	}
	return nil
}

// GapsExitError signals that a computation succeeded with data gaps while
// --fail-on-gaps was set. main extracts ExitCode via errors.As.
type GapsExitError struct {
	ExitCode int
	Reason   string
}

func (e *GapsExitError) Error() string {
	return e.Reason
}

// checkGaps returns a GapsExitError when failOnGaps is set and gaps is not
// empty.
func checkGaps(failOnGaps bool, exitCode int, gaps []engine.Gap) error {
	if !failOnGaps || len(gaps) == 0 {
		return nil
	}
	return &GapsExitError{
		ExitCode: exitCode,
		Reason:   fmt.Sprintf("computation has %d data gap(s)", len(gaps)),
	}
}

// NewComputeCmd creates the compute command, which computes the footprint of
// one diet file.
func NewComputeCmd() *cobra.Command {
	var (
		flags      engineFlags
		failOnGaps bool
		exitCode   int
	)

	cmd := &cobra.Command{
		Use:   "compute <diet-file>",
		Short: "Compute the footprint of a diet",
		Long: `Computes the daily environmental footprint of a diet.

The diet file is YAML (a list of code/amount/unit entries) or CSV (columns
code, amount and an optional unit). Amounts default to grams.

Each food is inflated by retail and consumer waste, reduced to raw primary
commodities through the recipe table, and costed for raw-material, process,
packaging and transport emissions. Missing reference data is reported as
data gaps and the affected terms are left out.`,
		Example: `  # Compute a diet with the configured dataset
  foodprint compute diet.yaml

  # Use an explicit dataset and country
  foodprint compute diet.csv --data dataset.yaml --country de

  # Emit the full 33-column result as CSV
  foodprint compute diet.yaml --output csv

  # Fail with exit code 2 when reference data is missing
  foodprint compute diet.yaml --fail-on-gaps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := flags.outputFormat()
			if err != nil {
				return err
			}
			if err := validateExitCode(failOnGaps, exitCode); err != nil {
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

			impacts, err := eng.ComputeImpacts(ctx, diet, flags.options())
			if err != nil {
				return fmt.Errorf("computing impacts: %w", err)
			}
			logger.Debug().Ctx(ctx).
				Str("operation", "compute").
				Str("run_id", impacts.RunID).
				Int("items", len(impacts.Items)).
				Int("gaps", len(impacts.Gaps)).
				Msg("computation complete")

			if err := renderImpacts(cmd.OutOrStdout(), format, impacts, outputPrecision()); err != nil {
				return err
			}
			return checkGaps(failOnGaps, exitCode, impacts.Gaps)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&failOnGaps, "fail-on-gaps", false, "exit non-zero when reference data is missing")
	cmd.Flags().IntVar(&exitCode, "exit-code", DefaultGapsExitCode, "exit code used by --fail-on-gaps (1-255)")

	return cmd
}
