package game

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"orbitfield/sim"
	"orbitfield/surface"
	"orbitfield/viewport"
)

const (
	tailWidth      = 1.5
	tailMaxAlpha   = 200
	particleSprite = 8
	hudX, hudY     = 8, 8
	hudLineHeight  = 16
)

var satelliteColor = colornames.Lightsteelblue

// Renderer handles all rendering
type Renderer struct {
	camera   *viewport.Camera
	rng      *rand.Rand
	stars    *viewport.Starfield
	starsImg *ebiten.Image
	textures *planetTextures
	particle *ebiten.Image
}

// NewRenderer creates a new renderer
func NewRenderer(camera *viewport.Camera, rng *rand.Rand) *Renderer {
	return &Renderer{
		camera:   camera,
		rng:      rng,
		textures: newPlanetTextures(ebiten.NewImageFromImage),
	}
}

// SetStarfield regenerates the background for a viewport of width x height.
func (r *Renderer) SetStarfield(width, height float64) {
	r.stars = viewport.NewStarfield(r.rng, width, height)
	if r.starsImg != nil {
		r.starsImg.Deallocate()
	}
	b := r.stars.Bounds
	img := ebiten.NewImage(int(b.Width())+1, int(b.Height())+1)
	img.Fill(viewport.BackgroundColor)
	for _, s := range r.stars.Stars {
		x, y := float32(s.X-b.MinX), float32(s.Y-b.MinY)
		vector.DrawFilledCircle(img, x, y, float32(s.Radius), s.Color, true)
		if s.Halo.A > 0 {
			vector.DrawFilledCircle(img, x, y, float32(s.HaloRadius()), withAlphaN(s.Halo, s.Halo.A/3), true)
		}
	}
	r.starsImg = img
}

// Render draws the entire world
func (r *Renderer) Render(screen *ebiten.Image, w *sim.World, fps float64, paused bool) {
	screen.Fill(viewport.BackgroundColor)
	r.drawStarfield(screen)

	r.textures.prune(w.Planets())
	for _, p := range w.Planets() {
		r.drawPlanet(screen, p)
	}
	for _, s := range w.Satellites() {
		r.drawSatellite(screen, s)
	}
	r.drawExplosions(screen, w.Explosions())

	if GetDebugState().ShowOverlay {
		drawDebugOverlay(screen, w, r.camera)
	}
	for i, line := range hudLines(w.Stats(), fps, paused) {
		ebitenutil.DebugPrintAt(screen, line, hudX, hudY+i*hudLineHeight)
	}
}

// worldGeoM maps world coordinates onto the screen.
func (r *Renderer) worldGeoM(m *ebiten.GeoM) {
	m.Translate(-r.camera.X, -r.camera.Y)
	m.Scale(r.camera.Zoom, r.camera.Zoom)
	m.Translate(r.camera.Width/2, r.camera.Height/2)
}

func (r *Renderer) drawStarfield(screen *ebiten.Image) {
	if r.starsImg == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(r.stars.Bounds.MinX, r.stars.Bounds.MinY)
	r.worldGeoM(&op.GeoM)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.starsImg, op)
}

func (r *Renderer) drawPlanet(screen *ebiten.Image, p *sim.Planet) {
	pos := p.Position()
	if !r.camera.Visible(pos.X, pos.Y, p.Radius(), 0) {
		return
	}
	img := r.textures.get(p)
	if img == nil {
		return
	}
	size := float64(img.Bounds().Dx())
	k := 2 * p.Radius() / size

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-size/2, -size/2)
	op.GeoM.Rotate(p.SpinAngle())
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(pos.X, pos.Y)
	r.worldGeoM(&op.GeoM)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (r *Renderer) drawSatellite(screen *ebiten.Image, s *sim.Satellite) {
	cam := r.camera
	tail := s.Tail()
	for i := 1; i < len(tail); i++ {
		x0, y0 := cam.WorldToScreen(tail[i-1].X, tail[i-1].Y)
		x1, y1 := cam.WorldToScreen(tail[i].X, tail[i].Y)
		c := withAlpha(satelliteColor, tailAlpha(i, len(tail)))
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), tailWidth, c, true)
	}

	pos := s.Position()
	if !cam.Visible(pos.X, pos.Y, s.Size(), 4) {
		return
	}
	x, y := cam.WorldToScreen(pos.X, pos.Y)
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(satelliteScreenRadius(s.Size(), cam.Zoom)), satelliteColor, true)
}

func (r *Renderer) drawExplosions(screen *ebiten.Image, explosions []*sim.Explosion) {
	if len(explosions) == 0 {
		return
	}
	sprite := r.particleSprite()
	for _, e := range explosions {
		for _, pt := range e.Particles() {
			if !r.camera.Visible(pt.Pos.X, pt.Pos.Y, pt.Size, 2) {
				continue
			}
			k := 2 * pt.Size / particleSprite
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(-particleSprite/2, -particleSprite/2)
			op.GeoM.Scale(k, k)
			op.GeoM.Translate(pt.Pos.X, pt.Pos.Y)
			r.worldGeoM(&op.GeoM)
			op.ColorScale.ScaleWithColor(pt.Color)
			op.ColorScale.ScaleAlpha(float32(pt.Fade()))
			op.Blend = ebiten.BlendLighter
			screen.DrawImage(sprite, op)
		}
	}
}

// particleSprite returns a white disc tinted per particle.
func (r *Renderer) particleSprite() *ebiten.Image {
	if r.particle == nil {
		r.particle = ebiten.NewImage(particleSprite, particleSprite)
		vector.DrawFilledCircle(r.particle, particleSprite/2, particleSprite/2, particleSprite/2, color.White, true)
	}
	return r.particle
}

// planetTextures caches one baked texture per planet and rebakes it only when
// the planet's crater field changes.
type planetTextures struct {
	upload  func(image.Image) *ebiten.Image
	entries map[sim.EntityID]*planetTexture
	bakes   int
}

type planetTexture struct {
	params  surface.Params
	base    *image.RGBA
	img     *ebiten.Image
	version uint64
}

func newPlanetTextures(upload func(image.Image) *ebiten.Image) *planetTextures {
	return &planetTextures{
		upload:  upload,
		entries: make(map[sim.EntityID]*planetTexture),
	}
}

func (t *planetTextures) get(p *sim.Planet) *ebiten.Image {
	e, ok := t.entries[p.ID()]
	if !ok {
		params := surface.Params{Radius: p.Radius(), Color: p.Color(), Seed: int64(p.ID())}
		e = &planetTexture{params: params, base: surface.Base(params)}
		t.entries[p.ID()] = e
		t.bake(e, p)
		return e.img
	}
	if e.version != p.Craters().Version() {
		t.bake(e, p)
	}
	return e.img
}

func (t *planetTextures) bake(e *planetTexture, p *sim.Planet) {
	if e.img != nil {
		e.img.Deallocate()
	}
	e.img = t.upload(surface.Bake(e.base, e.params, p.Craters().All()))
	e.version = p.Craters().Version()
	t.bakes++
}

// prune releases textures of planets that are gone.
func (t *planetTextures) prune(live []*sim.Planet) {
	if len(t.entries) == 0 {
		return
	}
	alive := make(map[sim.EntityID]struct{}, len(live))
	for _, p := range live {
		alive[p.ID()] = struct{}{}
	}
	for id, e := range t.entries {
		if _, ok := alive[id]; ok {
			continue
		}
		if e.img != nil {
			e.img.Deallocate()
		}
		delete(t.entries, id)
	}
}

// satelliteScreenRadius returns the drawn radius for a satellite of the
// given size; size is a diameter, matching the hit test.
func satelliteScreenRadius(size, zoom float64) float64 {
	return max(1, size*0.5*zoom)
}

// tailAlpha fades tail segment i of n from transparent to tailMaxAlpha.
func tailAlpha(i, n int) uint8 {
	if n <= 1 {
		return tailMaxAlpha
	}
	return uint8(tailMaxAlpha * i / (n - 1))
}

func hudLines(st sim.Stats, fps float64, paused bool) []string {
	status := ""
	if paused {
		status = "  PAUSED"
	}
	return []string{
		fmt.Sprintf("FPS %.0f  frame %d%s", fps, st.Frame, status),
		fmt.Sprintf("planets %d  satellites %d  craters %d  particles %d", st.Planets, st.Satellites, st.Craters, st.Particles),
		fmt.Sprintf("destroyed %d  lost %d  collisions %d", st.Totals.PlanetsDestroyed, st.Totals.SatellitesLost, st.Totals.PlanetCollisions),
		"LMB satellite  RMB planet  wheel zoom  drag pan  space pause  F1 debug",
	}
}

func withAlphaN(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
