package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"orbitfield/audio"
	"orbitfield/config"
	"orbitfield/sim"
)

// NewWorld builds and populates a world for app, wiring verbose event logging.
func NewWorld(app config.App) *sim.World {
	w := sim.NewWorld(app.Sim)
	if app.Verbose {
		w.Subscribe(sim.LogListener{})
	}
	w.Populate()
	return w
}

// Launch opens the window and runs the simulation until it is closed.
// configPath is watched for changes when app.Watch is set.
func Launch(app config.App, configPath string) error {
	world := NewWorld(app)

	if app.Audio {
		sounds := audio.NewSoundManager()
		if err := sounds.Initialize(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			world.Subscribe(sounds)
			defer sounds.Cleanup()
		}
	}

	g := New(app, world)

	if app.Watch {
		if configPath == "" {
			configPath = config.DefaultFile
		}
		watcher, err := config.NewWatcher(configPath)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			watcher.Stop()
			return err
		}
		defer watcher.Stop()
		g.Watch(watcher.Configs)
		log.Printf("watching %s for changes", watcher.Path)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Orbitfield")
	ebiten.SetWindowResizable(true)

	return ebiten.RunGame(g)
}
