package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/config"
)

// NewConfigGetCmd creates the config get command, which prints one effective
// configuration value.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Prints the effective value of one configuration key, after the global
file, the project file and environment overrides have been applied.`,
		Example: `  # Show the computing country
  foodprint config get engine.country`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command, which prints every
// effective configuration value.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Example: `  # Show the effective configuration
  foodprint config list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabwriterPadding, ' ', 0)
			if _, err := fmt.Fprintf(tw, "KEY\tVALUE\n"); err != nil {
				return fmt.Errorf("writing header: %w", err)
			}
			for _, key := range config.Keys() {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if _, err = fmt.Fprintf(tw, "%s\t%s\n", key, value); err != nil {
					return fmt.Errorf("writing %s: %w", key, err)
				}
			}
			return tw.Flush()
		},
	}
}
