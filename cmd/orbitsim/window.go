package main

import (
	"github.com/spf13/cobra"

	"orbitfield/game"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the simulation in a desktop window",
	RunE:  runWindow,
}

func init() {
	windowCmd.Flags().Bool("watch", false, "reload tunables when the config file changes")
	windowCmd.Flags().Bool("no-audio", false, "disable sound")
	windowCmd.Flags().Bool("profile", false, "capture a CPU profile and trace when the frame rate drops")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, _ []string) error {
	app, path, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("watch"); f != nil && f.Changed {
		app.Watch, _ = cmd.Flags().GetBool("watch")
	}
	if off, _ := cmd.Flags().GetBool("no-audio"); off {
		app.Audio = false
	}
	if on, _ := cmd.Flags().GetBool("profile"); on {
		app.ProfileOnDrop = true
	}
	return game.Launch(app, path)
}
