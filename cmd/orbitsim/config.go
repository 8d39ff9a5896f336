package main

import (
	"github.com/spf13/cobra"

	"orbitfield/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Prints every tunable after defaults, the config file and ORBITSIM_* environment
variables are applied. The output is a valid ` + config.DefaultFile + ` file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return config.Encode(cmd.OutOrStdout(), app)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
