package sim

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// BlendColors mixes a and b in RGB space; t=0 gives a, t=1 gives b.
func BlendColors(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t)}
}
