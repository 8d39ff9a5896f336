package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"orbitfield/config"
	"orbitfield/game"
	"orbitfield/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Step the simulation headless and print a report",
	Long: `Populates a world, steps it for --frames frames without rendering, and prints
the final counts and cumulative totals.

With --spawn-every K, a satellite is launched around a random planet every K frames.`,
	Args: cobra.NoArgs,
	RunE: runHeadlessCmd,
}

func init() {
	runCmd.Flags().Int("frames", 600, "number of frames to simulate")
	runCmd.Flags().Int64("seed", 0, "random seed (default: config seed, 0 means time based)")
	runCmd.Flags().Int("spawn-every", 0, "launch a satellite every N frames (0 disables)")
	runCmd.Flags().String("format", "text", "report format: text or toml")
	rootCmd.AddCommand(runCmd)
}

// runOptions controls a headless run.
type runOptions struct {
	Frames     int
	SpawnEvery int
}

// report is what a headless run prints.
type report struct {
	Seed   int64     `toml:"seed"`
	Frames int       `toml:"frames"`
	Stats  sim.Stats `toml:"stats"`
}

func runHeadlessCmd(cmd *cobra.Command, _ []string) error {
	app, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	frames, _ := cmd.Flags().GetInt("frames")
	spawnEvery, _ := cmd.Flags().GetInt("spawn-every")
	format, _ := cmd.Flags().GetString("format")
	if cmd.Flags().Changed("seed") {
		app.Sim.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	if frames < 0 {
		return fmt.Errorf("--frames must not be negative, got %d", frames)
	}
	if spawnEvery < 0 {
		return fmt.Errorf("--spawn-every must not be negative, got %d", spawnEvery)
	}
	if format != "text" && format != "toml" {
		return fmt.Errorf("unknown --format %q (want text or toml)", format)
	}

	r := runHeadless(app, runOptions{Frames: frames, SpawnEvery: spawnEvery})
	return writeReport(cmd.OutOrStdout(), r, format)
}

// runHeadless steps a populated world and returns the final report.
func runHeadless(app config.App, opts runOptions) report {
	if app.Sim.Seed == 0 {
		app.Sim.Seed = time.Now().UnixNano()
	}
	w := game.NewWorld(app)
	rng := rand.New(rand.NewSource(w.Config().Seed ^ 0x5a7e))

	for i := 1; i <= opts.Frames; i++ {
		if opts.SpawnEvery > 0 && i%opts.SpawnEvery == 0 {
			launchSatellite(w, rng)
		}
		w.Step()
	}
	return report{Seed: w.Config().Seed, Frames: opts.Frames, Stats: w.Stats()}
}

// launchSatellite spawns a satellite just outside a random planet.
func launchSatellite(w *sim.World, rng *rand.Rand) {
	ps := w.Planets()
	if len(ps) == 0 {
		return
	}
	p := ps[rng.Intn(len(ps))]
	at := p.Position()
	d := p.Radius() + 10 + rng.Float64()*40
	w.SpawnSatelliteAt(at.X+d, at.Y)
}

var (
	reportTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF"))
	reportLabel = lipgloss.NewStyle().Width(24).Foreground(lipgloss.Color("#8C8C8C"))
	reportValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))
	reportBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#636363")).Padding(0, 1)
)

func writeReport(w io.Writer, r report, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(r)
	case "text":
		_, err := fmt.Fprintln(w, renderReport(r))
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

func renderReport(r report) string {
	st := r.Stats
	rows := []struct {
		label string
		value int
	}{
		{"planets", st.Planets},
		{"satellites", st.Satellites},
		{"craters", st.Craters},
		{"explosions active", st.Explosions},
		{"planets spawned", st.Totals.PlanetsSpawned},
		{"satellites spawned", st.Totals.SatellitesSpawned},
		{"impacts", st.Totals.Impacts},
		{"craters created", st.Totals.CratersCreated},
		{"craters merged", st.Totals.CratersMerged},
		{"planet collisions", st.Totals.PlanetCollisions},
		{"planets destroyed", st.Totals.PlanetsDestroyed},
		{"satellites lost", st.Totals.SatellitesLost},
		{"satellites reassigned", st.Totals.SatellitesReassigned},
		{"explosions", st.Totals.Explosions},
	}

	var b strings.Builder
	b.WriteString(reportTitle.Render(fmt.Sprintf("orbitsim: %d frames, seed %d", r.Frames, r.Seed)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(reportLabel.Render(row.label))
		b.WriteString(reportValue.Render(fmt.Sprint(row.value)))
	}
	return reportBox.Render(b.String())
}
