package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"orbitfield/game"
	"orbitfield/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the simulation in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().Int("fps", 30, "frames per second")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	fps, _ := cmd.Flags().GetInt("fps")
	if fps <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", fps)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	defer screen.Fini()

	// Log lines would tear the screen.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.New(screen, game.NewWorld(app)).Run(ctx, fps)
}
