package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"orbitfield/sim"
	"orbitfield/viewport"
)

// DebugState holds global debug flags that persist across world resets
type DebugState struct {
	ShowOverlay bool // Orbit paths, host links and per-planet mass labels
}

// Global debug state instance
var globalDebugState = &DebugState{
	ShowOverlay: false,
}

// GetDebugState returns the global debug state
func GetDebugState() *DebugState {
	return globalDebugState
}

var (
	orbitPathColor = withAlpha(colornames.Slategray, 90)
	hostLinkColor  = withAlpha(colornames.Lightseagreen, 110)
)

// drawDebugOverlay draws orbit paths, satellite host links and planet labels.
func drawDebugOverlay(screen *ebiten.Image, w *sim.World, cam *viewport.Camera) {
	for _, p := range w.Planets() {
		c := p.Center()
		cx, cy := cam.WorldToScreen(c.X, c.Y)
		if p.OrbitRadius() > 0 {
			vector.StrokeCircle(screen, float32(cx), float32(cy), float32(p.OrbitRadius()*cam.Zoom), 1, orbitPathColor, true)
		}
		pos := p.Position()
		sx, sy := cam.WorldToScreen(pos.X, pos.Y)
		label := fmt.Sprintf("m %.0f/%.0f h %d", p.Mass(), p.InitMass(), p.HitCount())
		ebitenutil.DebugPrintAt(screen, label, int(sx+p.Radius()*cam.Zoom)+4, int(sy)-8)
	}

	for _, s := range w.Satellites() {
		host := w.Host(s)
		if host == nil {
			continue
		}
		sp, hp := s.Position(), host.Position()
		x0, y0 := cam.WorldToScreen(sp.X, sp.Y)
		x1, y1 := cam.WorldToScreen(hp.X, hp.Y)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, hostLinkColor, true)
	}
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
