// Package render draws layout geometry with Gio.
package render

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

const (
	minZoom = 0.01
	maxZoom = 10000.0
)

// Camera maps layout coordinates (lambda, Y up) onto screen pixels (Y down).
type Camera struct {
	// Center is the layout point shown in the middle of the screen.
	Center geom.Position

	// Zoom is pixels per lambda.
	Zoom float64

	ScreenWidth  int
	ScreenHeight int

	FlipView bool    // mirror around the vertical axis
	Rotation float64 // view rotation in degrees, counter-clockwise

	// Pivot is the layout point rotation and flipping happen around.
	Pivot geom.Position
}

// NewCamera creates a camera looking at the origin.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts a layout position to screen pixels.
func (c *Camera) WorldToScreen(pos geom.Position) (float64, float64) {
	pos = c.viewTransform(pos)

	x := (pos.X-c.Center.X)*c.Zoom + float64(c.ScreenWidth)/2.0
	y := (pos.Y-c.Center.Y)*c.Zoom + float64(c.ScreenHeight)/2.0

	// Layout Y grows upward
	return x, float64(c.ScreenHeight) - y
}

// ScreenToWorld converts screen pixels to a layout position.
func (c *Camera) ScreenToWorld(screenX, screenY float64) geom.Position {
	y := float64(c.ScreenHeight) - screenY

	pos := geom.Position{
		X: (screenX-float64(c.ScreenWidth)/2.0)/c.Zoom + c.Center.X,
		Y: (y-float64(c.ScreenHeight)/2.0)/c.Zoom + c.Center.Y,
	}
	return c.inverseViewTransform(pos)
}

// Pan moves the view by a screen pixel offset.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.Center.X -= deltaX / c.Zoom
	c.Center.Y += deltaY / c.Zoom
}

// ZoomAt scales the view by factor keeping the point under the cursor fixed.
// factor > 1 zooms in.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToWorld(screenX, screenY)

	c.Zoom = math.Min(math.Max(c.Zoom*factor, minZoom), maxZoom)

	after := c.ScreenToWorld(screenX, screenY)
	c.Center = c.Center.Add(before.Sub(after))
}

// Fit centers the view on bbox and zooms so it fills 90% of the screen.
// Degenerate boxes keep the current zoom.
func (c *Camera) Fit(bbox geom.BoundingBox) {
	if bbox.IsEmpty() {
		return
	}
	c.Center = bbox.Center()
	c.Pivot = c.Center

	width, height := bbox.Width(), bbox.Height()
	if width <= 0 || height <= 0 {
		return
	}
	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	c.Zoom = math.Min(zoomX, zoomY)
}

// Resize updates the screen dimensions.
func (c *Camera) Resize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// Flip toggles the mirrored view.
func (c *Camera) Flip() {
	c.FlipView = !c.FlipView
}

// Rotate turns the view, keeping Rotation in [0, 360).
func (c *Camera) Rotate(degrees float64) {
	c.Rotation = math.Mod(c.Rotation+degrees, 360)
	if c.Rotation < 0 {
		c.Rotation += 360
	}
}

// VisibleBounds returns the layout area currently on screen.
func (c *Camera) VisibleBounds() geom.BoundingBox {
	w, h := float64(c.ScreenWidth), float64(c.ScreenHeight)
	return geom.BoundsOf([]geom.Position{
		c.ScreenToWorld(0, 0),
		c.ScreenToWorld(w, 0),
		c.ScreenToWorld(0, h),
		c.ScreenToWorld(w, h),
	})
}

func (c *Camera) viewTransform(pos geom.Position) geom.Position {
	p := pos.Sub(c.Pivot)
	p = rotate(p, c.Rotation)
	if c.FlipView {
		p.X = -p.X
	}
	return p.Add(c.Pivot)
}

func (c *Camera) inverseViewTransform(pos geom.Position) geom.Position {
	p := pos.Sub(c.Pivot)
	if c.FlipView {
		p.X = -p.X
	}
	p = rotate(p, -c.Rotation)
	return p.Add(c.Pivot)
}

func rotate(p geom.Position, degrees float64) geom.Position {
	if degrees == 0 {
		return p
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)
	return geom.Position{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}
