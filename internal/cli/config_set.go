package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/foodprint/internal/config"
)

// NewConfigSetCmd creates the config set command, which updates one key in
// the project or global configuration file.
func NewConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Sets one configuration key and saves the file. Inside a project the
project-local file is updated; use --global to update the global file.
The result is validated before it is written.`,
		Example: `  # Compute for Germany by default
  foodprint config set engine.country de

  # Exempt tap water from transport
  foodprint config set engine.transport_exempt W.01,W.02

  # Change the global default output format
  foodprint config set output.default_format json --global`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetConfigPath(cmd, global)
			if err != nil {
				return err
			}
			cfg, err := loadOrDefault(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			logger.Debug().Ctx(cmd.Context()).
				Str("operation", "config_set").
				Str("key", args[0]).
				Str("path", path).
				Msg("configuration updated")
			cmd.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "update the global configuration even inside a project")
	return cmd
}

// targetConfigPath returns the file config set writes: --config when given,
// the project file inside a project, the global file otherwise.
func targetConfigPath(cmd *cobra.Command, global bool) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	if !global {
		if projectDir := resolveProjectDir(cmd); projectDir != "" {
			return filepath.Join(projectDir, "config.yaml"), nil
		}
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// loadOrDefault loads path, or returns defaults bound to path when it does
// not exist yet.
func loadOrDefault(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Defaults()
		cfg.SetPath(path)
		return cfg, nil
	}
	return config.Load(path)
}
