package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for semantic correctness.

This includes:
- A non-empty computing country
- A row threshold between 0 and 1
- Concurrency between 1 and 64
- A known output format and a precision between 0 and 10
- A known logging level and format`,
		Example: `  # Validate current configuration
  foodprint config validate

  # Validate and show detailed information
  foodprint config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Country: %s\n", cfg.Engine.Country)
	cmd.Printf("  Row threshold: %v\n", cfg.Engine.RowThreshold)
	cmd.Printf("  Packaging prefix: %s\n", cfg.Engine.PackagingPrefix)
	cmd.Printf("  Waste adjustment: %t\n", cfg.Engine.WithWaste)
	cmd.Printf("  Concurrency: %d\n", cfg.Engine.Concurrency)
	if cfg.Data.Dataset != "" {
		cmd.Printf("  Dataset: %s\n", cfg.Data.Dataset)
	} else {
		cmd.Println("  No dataset configured")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
