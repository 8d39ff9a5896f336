// Package surface bakes planet textures on the CPU: a noise-shaded disc
// with the planet's craters darkened into it.
package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"

	"orbitfield/sim"
)

// Texture tuning.
const (
	minTextureSize   = 48
	texelsPerRadius  = 6.0 // texture side per unit of display radius
	minTextureRadius = 8.0
	noiseScale       = 1.6
	darkFactor       = 0.35
	craterSteps      = 6
	craterMargin     = 2.0
)

var (
	craterShade = colorful.Color{R: 20.0 / 255, G: 20.0 / 255, B: 30.0 / 255}
	innerShade  = colorful.Color{R: 30.0 / 255, G: 30.0 / 255, B: 40.0 / 255}
	rimLight    = colorful.Color{R: 1, G: 1, B: 1}
)

// Params describes the planet a texture is generated for.
type Params struct {
	Radius float64 // display radius in world units
	Color  color.NRGBA
	Seed   int64
}

// TextureSize returns the side in pixels of a texture for a planet of the given display radius.
func TextureSize(radius float64) int {
	return max(minTextureSize, int(math.Floor(math.Max(minTextureRadius, radius)*texelsPerRadius)))
}

// Base generates the crater free texture. Pixels outside the disc are transparent.
func Base(p Params) *image.RGBA {
	size := TextureSize(p.Radius)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	noise := perlin.NewPerlin(2, 2, 3, p.Seed)
	offset := float64(p.Seed%1000) + 0.5
	base := colorOf(p.Color)
	dark := colorful.Color{R: base.R * darkFactor, G: base.G * darkFactor, B: base.B * darkFactor}

	c := float64(size) / 2
	radius := c - 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := math.Hypot(dx, dy)
			if d > radius {
				continue
			}
			n := noise.Noise2D(dx/radius*noiseScale+offset, dy/radius*noiseScale+offset+10)
			n = clamp01(0.5 + 0.5*n)
			rim := math.Pow(1-d/radius, 1.3)
			shade := 0.6 + 0.6*rim
			col := dark.BlendRgb(base, n*0.9)
			col = colorful.Color{R: col.R * shade, G: col.G * shade, B: col.B * shade}.Clamped()
			r, g, b := col.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// Bake returns a copy of base with craters drawn in. Crater angles are
// local to the texture, so the caller rotates the result by the planet's
// spin when drawing it.
func Bake(base *image.RGBA, p Params, craters []sim.Crater) *image.RGBA {
	img := image.NewRGBA(base.Bounds())
	copy(img.Pix, base.Pix)
	if len(craters) == 0 {
		return img
	}

	size := float64(img.Bounds().Dx())
	c := size / 2
	texRadius := c - 1
	scale := size / (math.Max(4, p.Radius) * 2)
	maxCrater := math.Max(4, texRadius*0.9)
	planet := colorOf(p.Color)

	for _, cr := range craters {
		cs := math.Min(maxCrater, cr.Size*scale)
		dist := math.Max(0, texRadius-cs*0.5-craterMargin)
		px := c + math.Cos(cr.LocalAngle)*dist
		py := c + math.Sin(cr.LocalAngle)*dist

		dark := planet.BlendRgb(craterShade, 0.55*cr.Depth)
		for k := 0; k < craterSteps; k++ {
			f := 1 - float64(k)/craterSteps
			r := cs * (0.18 + 0.82*f) * 0.5
			a := 0.18 * (1 + f) * (200 * cr.Depth / 255)
			multiplyDisc(img, px, py, r, dark, a)
		}

		rim := planet.BlendRgb(rimLight, 0.1)
		strokeRing(img, px, py, cs*0.51, math.Max(1, cs*0.06), rim, 80*cr.Depth/255)

		off := cs * 0.06
		inner := planet.BlendRgb(innerShade, 0.25*cr.Depth)
		multiplyDisc(img, px+0.6*off, py+0.4*off, cs*0.31, inner, 70*cr.Depth/255)
	}
	return img
}

// multiplyDisc multiplies the opaque pixels inside the circle by col at strength a.
func multiplyDisc(img *image.RGBA, cx, cy, r float64, col colorful.Color, a float64) {
	forEachTexel(img, cx, cy, r+1, func(i int, x, y float64) {
		if math.Hypot(x-cx, y-cy) > r {
			return
		}
		img.Pix[i+0] = uint8(float64(img.Pix[i+0]) * (1 - a + a*col.R))
		img.Pix[i+1] = uint8(float64(img.Pix[i+1]) * (1 - a + a*col.G))
		img.Pix[i+2] = uint8(float64(img.Pix[i+2]) * (1 - a + a*col.B))
	})
}

// strokeRing blends col over the opaque pixels within width/2 of the circle.
func strokeRing(img *image.RGBA, cx, cy, r, width float64, col colorful.Color, a float64) {
	half := width / 2
	forEachTexel(img, cx, cy, r+half+1, func(i int, x, y float64) {
		if math.Abs(math.Hypot(x-cx, y-cy)-r) > half {
			return
		}
		img.Pix[i+0] = uint8(float64(img.Pix[i+0])*(1-a) + col.R*255*a)
		img.Pix[i+1] = uint8(float64(img.Pix[i+1])*(1-a) + col.G*255*a)
		img.Pix[i+2] = uint8(float64(img.Pix[i+2])*(1-a) + col.B*255*a)
	})
}

// forEachTexel calls fn for every opaque pixel in the square of half side
// extent around (cx, cy). Pixel centers are at +0.5.
func forEachTexel(img *image.RGBA, cx, cy, extent float64, fn func(i int, x, y float64)) {
	b := img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(cx-extent)))
	x1 := min(b.Max.X-1, int(math.Ceil(cx+extent)))
	y0 := max(b.Min.Y, int(math.Floor(cy-extent)))
	y1 := min(b.Max.Y-1, int(math.Ceil(cy+extent)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue
			}
			fn(i, float64(x)+0.5, float64(y)+0.5)
		}
	}
}

func colorOf(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
