package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/casefixtures/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the casefixtures.yaml configuration file",
	Long:  `Loads the configuration file and checks for errors, missing required fields, and invalid values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd, "")
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if path == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found; the defaults are valid.\n", config.FileName)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %q is valid.\n", path)
		}
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
