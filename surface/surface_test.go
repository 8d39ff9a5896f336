package surface

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"orbitfield/sim"
)

func TestTextureSize(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{0, 48},
		{4, 48},
		{10, 60},
		{22, 132},
	}
	for _, tt := range tests {
		if got := TextureSize(tt.radius); got != tt.want {
			t.Errorf("TextureSize(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestBaseIsDisc(t *testing.T) {
	img := Base(Params{Radius: 12, Color: color.NRGBA{R: 200, G: 150, B: 100, A: 255}, Seed: 3})
	size := TextureSize(12)
	if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), size, size)
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := img.RGBAAt(size/2, size/2).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestBakeDarkensCraterAndKeepsBase(t *testing.T) {
	p := Params{Radius: 20, Color: color.NRGBA{R: 220, G: 200, B: 180, A: 255}, Seed: 11}
	base := Base(p)
	orig := bytes.Clone(base.Pix)

	crater := sim.Crater{LocalAngle: 0, Size: 10, Depth: 1}
	baked := Bake(base, p, []sim.Crater{crater})

	if !bytes.Equal(base.Pix, orig) {
		t.Fatal("Bake modified the base texture")
	}

	size := float64(base.Bounds().Dx())
	c := size / 2
	scale := size / (p.Radius * 2)
	cs := crater.Size * scale
	x := int(c + math.Max(0, c-1-cs*0.5-craterMargin))
	y := int(c)

	before := base.RGBAAt(x, y)
	after := baked.RGBAAt(x, y)
	if int(after.R)+int(after.G)+int(after.B) >= int(before.R)+int(before.G)+int(before.B) {
		t.Errorf("crater center not darkened: %v -> %v", before, after)
	}

	// The opposite side is untouched.
	ox := int(size) - x
	if baked.RGBAAt(ox, y) != base.RGBAAt(ox, y) {
		t.Errorf("pixel opposite the crater changed")
	}
}

func TestBakeWithoutCratersCopiesBase(t *testing.T) {
	p := Params{Radius: 10, Color: color.NRGBA{R: 90, G: 160, B: 200, A: 255}}
	base := Base(p)
	baked := Bake(base, p, nil)
	if !bytes.Equal(base.Pix, baked.Pix) {
		t.Error("baked texture differs from base")
	}
	if &base.Pix[0] == &baked.Pix[0] {
		t.Error("Bake returned the base buffer")
	}
}
