package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or edit the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the commented default config file. Without a path it is written to
.hms/config.yaml. An existing file is kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config key, keeping comments",
	Long: `Set one key in the config file in use. Nested keys are dotted.

Examples:
  hms config set backend sqlite
  hms config set flags.write-through false
  hms config set tracing.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := validateSetting(key, value); err != nil {
			return err
		}
		path := configFilePath()
		if err := config.SetValue(path, key, value); err != nil {
			return err
		}
		cmd.Printf("Set %s = %s in %s\n", key, value, path)
		return nil
	},
}

// validateSetting rejects values that would make the config invalid.
func validateSetting(key, value string) error {
	switch key {
	case "backend":
		return config.ValidateBackend(value)
	case "output":
		return config.ValidateOutput(value)
	case "data_dir":
		if value == "" {
			return fmt.Errorf("data_dir cannot be empty")
		}
	case "tracing.exporter":
		return config.ValidateTracing(config.TracingConfig{Exporter: value})
	}
	return nil
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
