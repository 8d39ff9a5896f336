package game

import (
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"orbitfield/config"
	"orbitfield/sim"
	"orbitfield/viewport"
)

// FPS drop detection
const (
	fpsDropThreshold = 45.0
	fpsWindow        = 0.5 // seconds between FPS samples
	fpsWarmup        = 3 * time.Second
	fpsDropCooldown  = 10 * time.Second
	maxDeltaTime     = 0.1
)

// Game represents the main game state
type Game struct {
	world    *sim.World
	camera   *viewport.Camera
	renderer *Renderer
	input    *Input
	app      config.App

	// Validated configs from a file watcher, applied between frames
	updates <-chan config.App

	paused bool

	// FPS tracking
	fps      *fpsMonitor
	profiler *Profiler

	// Last update time for delta time calculation
	lastUpdateTime time.Time
}

// New creates a game around world. The world should already be populated.
func New(app config.App, world *sim.World) *Game {
	cfg := world.Config()
	camera := viewport.NewCamera(float64(app.ScreenWidth), float64(app.ScreenHeight))
	rng := rand.New(rand.NewSource(cfg.Seed + 1))

	g := &Game{
		world:          world,
		camera:         camera,
		renderer:       NewRenderer(camera, rng),
		input:          NewInput(),
		app:            app,
		fps:            newFPSMonitor(time.Now()),
		lastUpdateTime: time.Now(),
	}
	if app.ProfileOnDrop {
		g.profiler = NewProfiler("profiles")
	}
	g.resize(app.ScreenWidth, app.ScreenHeight)
	return g
}

// Watch makes the game apply configs received on ch between frames.
func (g *Game) Watch(ch <-chan config.App) {
	g.updates = ch
}

// World returns the simulated world.
func (g *Game) World() *sim.World { return g.world }

// applyUpdates drains pending configs and applies the newest one.
func (g *Game) applyUpdates() {
	if g.updates == nil {
		return
	}
	var latest *config.App
drain:
	for {
		select {
		case app, ok := <-g.updates:
			if !ok {
				g.updates = nil
				break drain
			}
			latest = &app
		default:
			break drain
		}
	}
	if latest == nil {
		return
	}
	next := latest.Sim
	cur := g.world.Config()
	next.Width, next.Height = cur.Width, cur.Height
	g.world.SetConfig(next)
	log.Printf("config reloaded: required_hits=%d death=%s gm=%.0f", next.RequiredHits, next.SatelliteDeathBehavior, next.GM)
}

// Update advances the game by one tick
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now
	if deltaTime > maxDeltaTime {
		deltaTime = maxDeltaTime
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		debugState := GetDebugState()
		debugState.ShowOverlay = !debugState.ShowOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	if g.fps.tick(deltaTime, now) && g.profiler != nil {
		st := g.world.Stats()
		reason := fmt.Sprintf("fps%.0f-planets%d-satellites%d-particles%d", g.fps.fps, st.Planets, st.Satellites, st.Particles)
		log.Printf("FPS drop detected (%.0f FPS), capturing profile", g.fps.fps)

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		log.Printf("GC stats: NumGC=%d, PauseTotal=%v, HeapAlloc=%d KB", m.NumGC, time.Duration(m.PauseTotalNs), m.HeapAlloc/1024)

		if err := g.profiler.CaptureProfile(reason); err != nil {
			log.Printf("profile capture skipped: %v", err)
		}
	}

	g.applyUpdates()
	g.input.Update(g)

	if !g.paused {
		g.world.Step()
	}
	return nil
}

// Draw renders the world
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Render(screen, g.world, g.fps.fps, g.paused)
}

// Layout tracks the window size; the world keeps its center in the middle
// of the window for new spawns.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != int(g.camera.Width) || outsideHeight != int(g.camera.Height) {
		g.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w, h := float64(width), float64(height)
	g.world.Resize(w, h)
	g.camera.Resize(w, h)
	g.renderer.SetStarfield(w, h)
	g.camera.X, g.camera.Y = w/2, h/2
	g.camera.SetBounds(g.renderer.stars.Bounds)
}

// fpsMonitor samples the frame rate and reports sustained drops.
type fpsMonitor struct {
	fps      float64
	frames   int
	elapsed  float64
	start    time.Time
	lastDrop time.Time
}

func newFPSMonitor(start time.Time) *fpsMonitor {
	return &fpsMonitor{fps: 60, start: start}
}

// tick records one frame of dt seconds and reports whether a drop below
// the threshold should trigger a capture.
func (m *fpsMonitor) tick(dt float64, now time.Time) bool {
	m.elapsed += dt
	m.frames++
	if m.elapsed < fpsWindow {
		return false
	}
	m.fps = float64(m.frames) / m.elapsed
	m.frames = 0
	m.elapsed = 0

	if m.fps >= fpsDropThreshold || now.Sub(m.start) < fpsWarmup || now.Sub(m.lastDrop) < fpsDropCooldown {
		return false
	}
	m.lastDrop = now
	return true
}
