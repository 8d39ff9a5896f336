package viewport

import (
	"image/color"
	"math/rand"
)

// Starfield tuning.
const (
	StarCount       = 800
	FieldMultiplier = 3.0 // starfield side relative to the viewport
	haloChance      = 0.08
	haloScale       = 1.2
)

// BackgroundColor fills the starfield behind the stars.
var BackgroundColor = color.NRGBA{R: 10, G: 12, B: 30, A: 255}

// Star is a single background star. Halo, when non zero, is drawn over the
// star at Radius*1.2.
type Star struct {
	X, Y   float64
	Radius float64
	Color  color.NRGBA
	Halo   color.NRGBA
}

// HaloRadius returns the radius of the star's halo.
func (s Star) HaloRadius() float64 { return s.Radius * haloScale }

// Starfield is a static field of stars larger than the viewport.
type Starfield struct {
	Bounds Rect
	Stars  []Star
}

// NewStarfield scatters StarCount stars over a field FieldMultiplier times
// the viewport, centered on the viewport center.
func NewStarfield(rng *rand.Rand, width, height float64) *Starfield {
	fw, fh := width*FieldMultiplier, height*FieldMultiplier
	minX := width/2 - fw/2
	minY := height/2 - fh/2
	f := &Starfield{
		Bounds: Rect{MinX: minX, MinY: minY, MaxX: minX + fw, MaxY: minY + fh},
		Stars:  make([]Star, 0, StarCount),
	}
	for i := 0; i < StarCount; i++ {
		b := uint8(180 + rng.Intn(76))
		a := uint8(120 + rng.Intn(136))
		s := Star{
			X:      minX + rng.Float64()*fw,
			Y:      minY + rng.Float64()*fh,
			Radius: (0.5 + rng.Float64()*1.7) / 2,
			Color:  color.NRGBA{R: b, G: b, B: 255, A: a},
		}
		if rng.Float64() < haloChance {
			s.Halo = color.NRGBA{
				R: uint8(180 + rng.Intn(76)),
				G: uint8(180 + rng.Intn(76)),
				B: uint8(200 + rng.Intn(56)),
				A: a,
			}
		}
		f.Stars = append(f.Stars, s)
	}
	return f
}
