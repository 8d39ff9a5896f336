// Package viewport holds the camera and starfield math shared by the
// window and terminal front ends.
package viewport

import "math"

// Zoom limits and wheel step.
const (
	DefaultMaxZoom = 2.5
	ZoomStep       = 1.05
)

// Rect is an axis aligned rectangle in world coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Camera represents the viewport into the world
type Camera struct {
	X, Y    float64 // Camera position in world coordinates
	Zoom    float64 // Zoom level
	Width   float64 // Viewport width
	Height  float64 // Viewport height
	MinZoom float64
	MaxZoom float64

	bounds    Rect
	hasBounds bool
}

// NewCamera creates a camera looking at the middle of a width x height
// viewport, so world and screen coordinates coincide at zoom 1.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		X:       width / 2,
		Y:       height / 2,
		Zoom:    1.0,
		Width:   width,
		Height:  height,
		MinZoom: 0.1,
		MaxZoom: DefaultMaxZoom,
	}
}

// SetBounds limits the camera to r. The minimum zoom becomes the level at
// which r exactly covers the viewport on its tighter axis.
func (c *Camera) SetBounds(r Rect) {
	c.bounds = r
	c.hasBounds = true
	c.updateMinZoom()
	c.clamp()
}

// Bounds returns the area the camera is limited to.
func (c *Camera) Bounds() Rect { return c.bounds }

// Resize changes the viewport size and re-clamps zoom and position.
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
	c.updateMinZoom()
	c.clamp()
}

// ZoomBy applies steps wheel notches; positive zooms in.
func (c *Camera) ZoomBy(steps float64) {
	if steps == 0 {
		return
	}
	c.Zoom *= math.Pow(ZoomStep, steps)
	c.clamp()
}

// Pan moves the camera by a screen space delta, as when dragging the
// world under the cursor.
func (c *Camera) Pan(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
	c.clamp()
}

// WorldToScreen converts world coordinates to screen coordinates
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + c.Width/2
	sy := (wy-c.Y)*c.Zoom + c.Height/2
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := (sx-c.Width/2)/c.Zoom + c.X
	wy := (sy-c.Height/2)/c.Zoom + c.Y
	return wx, wy
}

// Visible reports whether a circle at world (wx, wy) with world radius r
// touches the viewport, with margin screen pixels of slack.
func (c *Camera) Visible(wx, wy, r, margin float64) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	rr := r*c.Zoom + margin
	return sx+rr >= 0 && sx-rr <= c.Width && sy+rr >= 0 && sy-rr <= c.Height
}

func (c *Camera) updateMinZoom() {
	if !c.hasBounds || c.bounds.Width() <= 0 || c.bounds.Height() <= 0 {
		return
	}
	c.MinZoom = math.Max(c.Width/c.bounds.Width(), c.Height/c.bounds.Height())
}

// clamp keeps the zoom in range and the visible area inside the bounds.
func (c *Camera) clamp() {
	maxZoom := math.Max(c.MaxZoom, c.MinZoom)
	c.Zoom = math.Max(c.MinZoom, math.Min(maxZoom, c.Zoom))
	if !c.hasBounds {
		return
	}
	halfW := c.Width / (2 * c.Zoom)
	halfH := c.Height / (2 * c.Zoom)
	c.X = clampAxis(c.X, c.bounds.MinX+halfW, c.bounds.MaxX-halfW)
	c.Y = clampAxis(c.Y, c.bounds.MinY+halfH, c.bounds.MaxY-halfH)
}

// clampAxis clamps v into [lo, hi], centering when the range is inverted.
func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
