package sim

import "math"

// Crater merge tuning.
const (
	craterRefRadius      = 40.0 // planet radius at which merge thresholds are unscaled
	craterMargin         = 2.0  // gap kept between a crater and the planet rim
	craterMaxGrowth      = 1.6  // crater size cap relative to the planet display size
	craterExactMergeDist = 1.0
	craterMergeFraction  = 0.12
)

// Crater is an impact mark on a planet surface. LocalAngle is measured in
// the planet's spinning frame so the crater turns with the surface; it is
// fixed at creation and never changes, even when later impacts merge in.
type Crater struct {
	LocalAngle float64
	Size       float64
	Depth      float64 // 0..1
}

// surfaceFrame is the planet geometry a crater field is placed against.
type surfaceFrame struct {
	Center Vec2
	Spin   float64
	Radius float64 // display radius
}

// placement returns the distance from the planet center at which a crater
// of the given size sits.
func (s surfaceFrame) placement(size float64) float64 {
	return math.Max(0, s.Radius-size*0.5-craterMargin)
}

// worldPos returns the current world position of c.
func (s surfaceFrame) worldPos(c Crater) Vec2 {
	return polar(s.Center, normalizeAngle(c.LocalAngle+s.Spin), s.placement(c.Size))
}

// CraterField is the set of craters owned by one planet. Entries are only
// ever appended or grown, so the count never decreases.
type CraterField struct {
	craters []Crater
	version uint64
}

// Len returns the number of craters.
func (f *CraterField) Len() int { return len(f.craters) }

// All returns the craters. The slice must not be modified.
func (f *CraterField) All() []Crater { return f.craters }

// Version increases every time a crater is added or grown. Texture caches
// compare it to decide when to re-bake.
func (f *CraterField) Version() uint64 { return f.version }

// add merges an impact at world angle into an existing crater or appends a
// new one. It returns the index of the affected crater and whether it merged.
func (f *CraterField) add(s surfaceFrame, worldAngle, size, depth float64) (int, bool) {
	defer func() { f.version++ }()

	impact := polar(s.Center, worldAngle, s.placement(size))
	sizeScale := clamp(s.Radius/craterRefRadius, 0.25, 2.0)
	exactMergeDist := math.Max(0.5, craterExactMergeDist*sizeScale)
	sizeRatioThresh := 1.15 + 0.15*sizeScale
	maxSize := s.Radius * craterMaxGrowth

	for i := range f.craters {
		c := &f.craters[i]
		d := impact.Dist(s.worldPos(*c))
		mergeThresh := math.Max(1.2, (size*0.5+c.Size*0.5)*craterMergeFraction*sizeScale)

		if d <= exactMergeDist {
			c.grow(size*0.9, depth*0.7, maxSize)
			return i, true
		}
		if d <= mergeThresh {
			ratio := math.Max(c.Size, size) / math.Max(1, math.Min(c.Size, size))
			if ratio <= sizeRatioThresh {
				c.grow(size*0.8, depth*0.6, maxSize)
				return i, true
			}
		}
	}

	f.craters = append(f.craters, Crater{
		LocalAngle: normalizeAngle(worldAngle - s.Spin),
		Size:       size,
		Depth:      clamp(depth, 0, 1),
	})
	return len(f.craters) - 1, false
}

// grow enlarges c without ever shrinking it, even if it already exceeds the cap.
func (c *Crater) grow(dSize, dDepth, maxSize float64) {
	c.Size = math.Max(c.Size, math.Min(maxSize, c.Size+dSize))
	c.Depth = math.Max(c.Depth, math.Min(1, c.Depth+dDepth))
}
