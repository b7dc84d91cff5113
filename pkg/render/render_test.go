package render

import (
	"math"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

const tol = 1e-9

func near(a, b geom.Position) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

func TestWorldToScreen(t *testing.T) {
	c := NewCamera(800, 600)

	tests := []struct {
		name   string
		pos    geom.Position
		wx, wy float64
	}{
		{"origin at screen center", geom.Position{}, 400, 300},
		{"y grows upward", geom.Position{X: 1, Y: 1}, 410, 290},
		{"negative quadrant", geom.Position{X: -2, Y: -3}, 380, 330},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := c.WorldToScreen(tt.pos)
			if !scalar.EqualWithinAbs(x, tt.wx, tol) || !scalar.EqualWithinAbs(y, tt.wy, tol) {
				t.Errorf("WorldToScreen(%+v) = (%v, %v), want (%v, %v)", tt.pos, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestScreenRoundTrip(t *testing.T) {
	c := NewCamera(640, 480)
	c.Center = geom.Position{X: 3, Y: -7}
	c.Pivot = geom.Position{X: 1, Y: 1}
	c.Zoom = 4.5

	for _, rot := range []float64{0, 90, 33} {
		for _, flip := range []bool{false, true} {
			c.Rotation = rot
			c.FlipView = flip
			for _, p := range []geom.Position{{X: 0, Y: 0}, {X: 12.5, Y: -3}, {X: -100, Y: 42}} {
				x, y := c.WorldToScreen(p)
				if got := c.ScreenToWorld(x, y); !near(got, p) {
					t.Errorf("rot=%v flip=%v: round trip of %+v = %+v", rot, flip, p, got)
				}
			}
		}
	}
}

func TestRotationAndFlip(t *testing.T) {
	c := NewCamera(100, 100)
	c.Zoom = 1

	c.Rotate(90)
	// (10,0) rotated a quarter turn lands on +Y, i.e. above the center
	x, y := c.WorldToScreen(geom.Position{X: 10, Y: 0})
	if !scalar.EqualWithinAbs(x, 50, tol) || !scalar.EqualWithinAbs(y, 40, tol) {
		t.Errorf("rotated point = (%v, %v), want (50, 40)", x, y)
	}

	c.Rotate(-90)
	c.Flip()
	x, _ = c.WorldToScreen(geom.Position{X: 10, Y: 0})
	if !scalar.EqualWithinAbs(x, 40, tol) {
		t.Errorf("flipped x = %v, want 40", x)
	}
}

func TestRotateNormalizes(t *testing.T) {
	c := NewCamera(10, 10)
	steps := []struct {
		delta, want float64
	}{
		{-90, 270},
		{180, 90},
		{360, 90},
		{-450, 0},
	}
	for _, s := range steps {
		c.Rotate(s.delta)
		if !scalar.EqualWithinAbs(c.Rotation, s.want, tol) {
			t.Fatalf("Rotate(%v) -> %v, want %v", s.delta, c.Rotation, s.want)
		}
	}
}

func TestPanAndZoom(t *testing.T) {
	c := NewCamera(200, 200)

	c.Pan(10, 20)
	if !near(c.Center, geom.Position{X: -1, Y: 2}) {
		t.Errorf("center after pan = %+v", c.Center)
	}

	anchor := c.ScreenToWorld(50, 70)
	c.ZoomAt(50, 70, 2.5)
	if c.Zoom != 25 {
		t.Errorf("zoom = %v, want 25", c.Zoom)
	}
	if got := c.ScreenToWorld(50, 70); !near(got, anchor) {
		t.Errorf("point under cursor moved from %+v to %+v", anchor, got)
	}

	c.ZoomAt(0, 0, 1e9)
	if c.Zoom != maxZoom {
		t.Errorf("zoom not clamped: %v", c.Zoom)
	}
}

func TestFit(t *testing.T) {
	c := NewCamera(200, 100)
	c.Fit(geom.BoundsOf([]geom.Position{{X: -10, Y: -5}, {X: 10, Y: 5}}))

	if !scalar.EqualWithinAbs(c.Zoom, 9, tol) {
		t.Errorf("zoom = %v, want 9", c.Zoom)
	}
	if !near(c.Center, geom.Position{}) {
		t.Errorf("center = %+v", c.Center)
	}

	// An empty box leaves the camera alone
	before := *c
	c.Fit(geom.NewBoundingBox())
	if *c != before {
		t.Errorf("Fit(empty) changed camera")
	}

	// A single point recenters without touching zoom
	c.Fit(geom.BoundsOf([]geom.Position{{X: 4, Y: 4}}))
	if !near(c.Center, geom.Position{X: 4, Y: 4}) || c.Zoom != before.Zoom {
		t.Errorf("Fit(point) = center %+v zoom %v", c.Center, c.Zoom)
	}
}

func TestVisibleBounds(t *testing.T) {
	c := NewCamera(200, 100)
	bb := c.VisibleBounds()
	if !scalar.EqualWithinAbs(bb.Width(), 20, tol) || !scalar.EqualWithinAbs(bb.Height(), 10, tol) {
		t.Errorf("visible area = %vx%v, want 20x10", bb.Width(), bb.Height())
	}
	if !bb.Contains(geom.Position{}) {
		t.Errorf("origin not visible")
	}
}

func TestGridPoints(t *testing.T) {
	tests := []struct {
		name string
		bbox geom.BoundingBox
		grid float64
		want int
	}{
		{"unit square", geom.BoundsOf([]geom.Position{{X: -1, Y: -1}, {X: 1, Y: 1}}), 1, 9},
		{"offset box", geom.BoundsOf([]geom.Position{{X: 0.2, Y: 0.2}, {X: 2.7, Y: 1.1}}), 0.5, 10},
		{"between grid lines", geom.BoundsOf([]geom.Position{{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}}), 1, 0},
		{"empty", geom.NewBoundingBox(), 1, 0},
		{"no grid", geom.BoundsOf([]geom.Position{{X: -1, Y: -1}, {X: 1, Y: 1}}), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := GridPoints(tt.bbox, tt.grid)
			if len(pts) != tt.want {
				t.Fatalf("got %d points, want %d", len(pts), tt.want)
			}
			for _, p := range pts {
				if !tt.bbox.Contains(p) || !geom.OnGrid(p.X, tt.grid, 1e-9) || !geom.OnGrid(p.Y, tt.grid, 1e-9) {
					t.Errorf("bad grid point %+v", p)
				}
			}
		})
	}
}

func TestLayerColor(t *testing.T) {
	if LayerColor("Metal-1") != LayerColor("Metal-1-Node") {
		t.Errorf("layer and its pure node should share a color")
	}
	if LayerColor("Metal-1") == LayerColor("Metal-2") {
		t.Errorf("Metal-1 and Metal-2 should differ")
	}
	a, b := LayerColor("mystery"), LayerColor("mystery")
	if a != b || a.A == 0 {
		t.Errorf("fallback color unstable or transparent: %v %v", a, b)
	}
}

func TestDrawCell(t *testing.T) {
	c := NewCamera(300, 300)
	cell := design.NewCell("ring")
	ring := &design.NodeInst{
		Kind:  "Metal-1-Node",
		Layer: "Metal-1",
		Size:  geom.Size{Width: 10, Height: 10},
		Trace: []geom.Position{{X: 5, Y: 0}, {X: 0, Y: 5}, {X: -5, Y: 0}, {X: 0, Y: -5}},
	}
	box := &design.NodeInst{Kind: "Via-1-Node", Layer: "Via1", Center: geom.Position{X: 8, Y: 8}, Size: geom.Size{Width: 2, Height: 2}}
	for _, n := range []*design.NodeInst{ring, box} {
		if err := cell.AddNode(n); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}
	c.Fit(cell.Bounds())
	if math.IsInf(c.Zoom, 0) || c.Zoom <= 0 {
		t.Fatalf("bad zoom %v", c.Zoom)
	}

	gtx := layout.Context{Ops: new(op.Ops)}
	DrawAxes(gtx, c)
	DrawGrid(gtx, c, 1)
	DrawCell(gtx, c, cell)
	DrawOutline(gtx, c, geom.Position{}, ring.Trace[:2], ColorOutline) // too short, skipped
}
