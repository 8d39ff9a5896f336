package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"orbitfield/config"
)

var rootCmd = &cobra.Command{
	Use:           "orbitsim",
	Short:         "Planets, satellites and craters around a shared gravity center",
	Long:          "orbitsim simulates planets orbiting a common center, satellites orbiting planets, and the craters and explosions their impacts leave behind.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cmd, args)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log destruction events")
}

// loadApp loads the effective configuration for cmd, applying persistent flags.
func loadApp(cmd *cobra.Command) (config.App, string, error) {
	path, _ := cmd.Flags().GetString("config")
	app, err := config.Load(path)
	if err != nil {
		return config.App{}, path, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("verbose") {
		app.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return app, path, nil
}
