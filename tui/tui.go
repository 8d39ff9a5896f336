// Package tui renders a World into a terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"orbitfield/sim"
	"orbitfield/viewport"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

const (
	glyphStar      = '·'
	glyphPlanet    = '●'
	glyphCrater    = 'o'
	glyphSatellite = '*'
	glyphTail      = '.'
	glyphParticle  = '+'
)

var (
	styleHUD  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleStar = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSat  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTail = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
)

// App drives a World from terminal input and draws it every frame.
type App struct {
	screen tcell.Screen
	world  *sim.World
	camera *viewport.Camera
	stars  *viewport.Starfield
	rng    *rand.Rand

	paused  bool
	buttons tcell.ButtonMask // held on the previous mouse event
}

// New creates a terminal front end for world. The screen must already be initialized.
func New(screen tcell.Screen, world *sim.World) *App {
	cfg := world.Config()
	rng := rand.New(rand.NewSource(cfg.Seed + 1))
	a := &App{
		screen: screen,
		world:  world,
		stars:  viewport.NewStarfield(rng, cfg.Width, cfg.Height),
		rng:    rng,
	}
	a.Resize()
	return a
}

// Camera returns the camera used to map the world onto cells.
func (a *App) Camera() *viewport.Camera { return a.camera }

// Resize fits the world viewport into the current terminal size.
func (a *App) Resize() {
	cols, rows := a.screen.Size()
	cfg := a.world.Config()
	w, h := float64(cols), float64(rows)*cellAspect

	if a.camera == nil {
		a.camera = viewport.NewCamera(w, h)
	} else {
		a.camera.Resize(w, h)
	}
	a.camera.MinZoom = 0.01
	a.camera.Zoom = math.Min(w/cfg.Width, h/cfg.Height)
	a.camera.X, a.camera.Y = cfg.Width/2, cfg.Height/2
}

// toCell converts a world position into a cell column and row.
func (a *App) toCell(p sim.Vec2) (int, int) {
	sx, sy := a.camera.WorldToScreen(p.X, p.Y)
	return int(math.Floor(sx)), int(math.Floor(sy / cellAspect))
}

// toWorld converts the center of a cell into world coordinates.
func (a *App) toWorld(col, row int) (float64, float64) {
	return a.camera.ScreenToWorld(float64(col)+0.5, (float64(row)+0.5)*cellAspect)
}

// HandleEvent applies one terminal event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.Resize()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				a.paused = !a.paused
			case 'p':
				cfg := a.world.Config()
				a.world.SpawnPlanetAt(a.rng.Float64()*cfg.Width, a.rng.Float64()*cfg.Height)
			case 's':
				if ps := a.world.Planets(); len(ps) > 0 {
					p := ps[a.rng.Intn(len(ps))]
					at := p.Position()
					a.world.SpawnSatelliteAt(at.X+p.Radius()+10+a.rng.Float64()*40, at.Y)
				}
			case 'n':
				if a.paused {
					a.world.Step()
				}
			}
		}
	case *tcell.EventMouse:
		// Motion events repeat the held buttons; only a fresh press spawns.
		pressed := ev.Buttons() &^ a.buttons
		a.buttons = ev.Buttons()
		col, row := ev.Position()
		wx, wy := a.toWorld(col, row)
		switch {
		case pressed&tcell.Button1 != 0:
			a.world.SpawnSatelliteAt(wx, wy)
		case pressed&tcell.Button2 != 0:
			a.world.SpawnPlanetAt(wx, wy)
		}
	}
	return false
}

// Draw renders the world into the screen buffer. Call Show to flush it.
func (a *App) Draw() {
	a.screen.Clear()
	cols, rows := a.screen.Size()

	for _, s := range a.stars.Stars {
		if c, r := a.toCell(sim.Vec2{X: s.X, Y: s.Y}); inside(c, r, cols, rows) {
			a.screen.SetContent(c, r, glyphStar, nil, styleStar)
		}
	}

	for _, p := range a.world.Planets() {
		a.drawPlanet(p, cols, rows)
	}

	for _, s := range a.world.Satellites() {
		for _, t := range s.Tail() {
			if c, r := a.toCell(t); inside(c, r, cols, rows) {
				a.screen.SetContent(c, r, glyphTail, nil, styleTail)
			}
		}
		if c, r := a.toCell(s.Position()); inside(c, r, cols, rows) {
			a.screen.SetContent(c, r, glyphSatellite, nil, styleSat)
		}
	}

	for _, e := range a.world.Explosions() {
		for _, pt := range e.Particles() {
			if c, r := a.toCell(pt.Pos); inside(c, r, cols, rows) {
				a.screen.SetContent(c, r, glyphParticle, nil, styleFor(fade(pt.Color, pt.Fade())))
			}
		}
	}

	a.drawHUD(cols)
}

func (a *App) drawPlanet(p *sim.Planet, cols, rows int) {
	pos := p.Position()
	style := styleFor(p.Color())
	c0, r0 := a.toCell(sim.Vec2{X: pos.X - p.Radius(), Y: pos.Y - p.Radius()})
	c1, r1 := a.toCell(sim.Vec2{X: pos.X + p.Radius(), Y: pos.Y + p.Radius()})
	for r := max(1, r0); r <= min(rows-1, r1); r++ {
		for c := max(0, c0); c <= min(cols-1, c1); c++ {
			wx, wy := a.toWorld(c, r)
			if math.Hypot(wx-pos.X, wy-pos.Y) <= p.Radius() {
				a.screen.SetContent(c, r, glyphPlanet, nil, style)
			}
		}
	}
	// Always show at least the center cell.
	if c, r := a.toCell(pos); inside(c, r, cols, rows) {
		a.screen.SetContent(c, r, glyphPlanet, nil, style)
	}
	for _, cr := range p.Craters().All() {
		if c, r := a.toCell(p.CraterPosition(cr)); inside(c, r, cols, rows) {
			a.screen.SetContent(c, r, glyphCrater, nil, style.Reverse(true))
		}
	}
}

func (a *App) drawHUD(cols int) {
	st := a.world.Stats()
	status := ""
	if a.paused {
		status = " PAUSED"
	}
	line := fmt.Sprintf(" frame %d  planets %d  satellites %d  explosions %d%s  [p]lanet [s]atellite [space] pause [q]uit ",
		st.Frame, st.Planets, st.Satellites, st.Explosions, status)
	col := 0
	for _, ch := range line {
		if col >= cols {
			break
		}
		a.screen.SetContent(col, 0, ch, nil, styleHUD)
		col++
	}
}

// Run polls terminal events and steps the world at fps until ctx is done
// or the user quits.
func (a *App) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if !a.paused {
				a.world.Step()
			}
			a.Draw()
			a.screen.Show()
		}
	}
}

func inside(c, r, cols, rows int) bool {
	return c >= 0 && c < cols && r >= 1 && r < rows
}

func styleFor(c color.NRGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func fade(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}
