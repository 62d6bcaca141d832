package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/foodprint/internal/config"
	"github.com/rshade/foodprint/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the foodprint CLI.
// It loads configuration, wires up logging and tracing, and registers the
// compute, reduce, batch, data and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "foodprint",
		Short:         "Diet environmental footprint calculator",
		Long:          "foodprint: Compute the climate and resource footprint of a diet from reference data",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a configuration file (skips global and project config)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .foodprint/config.yaml")
	cmd.AddCommand(
		NewComputeCmd(), NewReduceCmd(), NewBatchCmd(),
		newDataCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Compute the footprint of a daily diet
  foodprint compute diet.yaml --data dataset.yaml

  # Compute for another country and emit CSV
  foodprint compute diet.csv --country de --output csv

  # Show how a diet breaks down into raw primary commodities
  foodprint reduce diet.yaml

  # Compute several diets concurrently
  foodprint batch week/*.yaml --concurrency 8

  # Validate a dataset bundle
  foodprint data validate --data dataset.yaml

  # Initialize configuration
  foodprint config init

  # Set configuration values
  foodprint config set output.default_format json`

// loadConfig resolves the effective configuration. An explicit --config file
// replaces the global and project files; otherwise the project overlay found
// from the working directory is merged over the global file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}

	return config.NewWithProjectDir(cmd.Context(), resolveProjectDir(cmd)), nil
}

// resolveProjectDir returns the project .foodprint directory for cmd, or an
// empty string outside a project.
func resolveProjectDir(cmd *cobra.Command) string {
	flagValue, _ := cmd.Flags().GetString("project-dir")
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return config.ResolveProjectDir(cmd.Context(), flagValue, cwd)
}

// newDataCmd creates the data command group.
func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "data", Short: "Reference dataset commands"}
	cmd.AddCommand(NewDataValidateCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
