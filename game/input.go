package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragThreshold is how far in pixels a press must move before it pans
// instead of spawning.
const dragThreshold = 4

// Input translates mouse, wheel and touch input into camera moves and spawns.
type Input struct {
	left     pointer
	touchIDs []ebiten.TouchID
}

// NewInput creates an input handler
func NewInput() *Input {
	return &Input{}
}

// Update reads this tick's input and applies it to g.
func (in *Input) Update(g *Game) {
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.left.press(x, y)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if dx, dy := in.left.move(x, y); dx != 0 || dy != 0 {
			g.camera.Pan(dx, dy)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && in.left.release() {
		g.spawnSatelliteAtScreen(x, y)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.spawnPlanetAtScreen(x, y)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camera.ZoomBy(wy)
	}

	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		g.spawnSatelliteAtScreen(tx, ty)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		cfg := g.world.Config()
		g.world.SpawnPlanetAt(g.renderer.rng.Float64()*cfg.Width, g.renderer.rng.Float64()*cfg.Height)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.paused {
		g.world.Step()
	}
}

func (g *Game) spawnSatelliteAtScreen(x, y int) {
	wx, wy := g.camera.ScreenToWorld(float64(x), float64(y))
	g.world.SpawnSatelliteAt(wx, wy)
}

func (g *Game) spawnPlanetAtScreen(x, y int) {
	wx, wy := g.camera.ScreenToWorld(float64(x), float64(y))
	g.world.SpawnPlanetAt(wx, wy)
}

// pointer tracks one held button, telling taps apart from drags.
type pointer struct {
	down           bool
	dragging       bool
	startX, startY int
	lastX, lastY   int
}

func (p *pointer) press(x, y int) {
	*p = pointer{down: true, startX: x, startY: y, lastX: x, lastY: y}
}

// move returns the screen delta to pan by once the press has become a drag.
func (p *pointer) move(x, y int) (float64, float64) {
	if !p.down {
		return 0, 0
	}
	if !p.dragging {
		dx, dy := x-p.startX, y-p.startY
		if dx*dx+dy*dy < dragThreshold*dragThreshold {
			return 0, 0
		}
		p.dragging = true
	}
	dx, dy := float64(x-p.lastX), float64(y-p.lastY)
	p.lastX, p.lastY = x, y
	return dx, dy
}

// release ends the press and reports whether it was a tap.
func (p *pointer) release() bool {
	tap := p.down && !p.dragging
	*p = pointer{}
	return tap
}
