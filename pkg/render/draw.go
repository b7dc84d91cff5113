package render

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

// minGridSpacing is the smallest on-screen distance between grid dots, in pixels.
const minGridSpacing = 8.0

// outlinePath builds the closed screen-space path of points offset by origin.
func outlinePath(gtx layout.Context, camera *Camera, origin geom.Position, points []geom.Position) clip.PathSpec {
	var path clip.Path
	path.Begin(gtx.Ops)
	for i, pt := range points {
		x, y := camera.WorldToScreen(origin.Add(pt))
		if i == 0 {
			path.MoveTo(f32.Pt(float32(x), float32(y)))
		} else {
			path.LineTo(f32.Pt(float32(x), float32(y)))
		}
	}
	path.Close()
	return path.End()
}

// DrawOutline fills the closed polygon points, given relative to origin.
func DrawOutline(gtx layout.Context, camera *Camera, origin geom.Position, points []geom.Position, fill color.NRGBA) {
	if len(points) < 3 {
		return
	}
	paint.FillShape(gtx.Ops, fill, clip.Outline{Path: outlinePath(gtx, camera, origin, points)}.Op())
}

// StrokeOutline draws the edges of the closed polygon points.
func StrokeOutline(gtx layout.Context, camera *Camera, origin geom.Position, points []geom.Position, width float64, stroke color.NRGBA) {
	if len(points) < 2 {
		return
	}
	paint.FillShape(gtx.Ops, stroke, clip.Stroke{
		Path:  outlinePath(gtx, camera, origin, points),
		Width: float32(width),
	}.Op())
}

// DrawNode draws a placed node: its trace when it has one, otherwise its box.
func DrawNode(gtx layout.Context, camera *Camera, n *design.NodeInst) {
	fill := LayerColor(n.Layer)
	points := n.Trace
	if len(points) == 0 {
		w, h := n.Size.Width/2, n.Size.Height/2
		points = []geom.Position{{X: -w, Y: -h}, {X: w, Y: -h}, {X: w, Y: h}, {X: -w, Y: h}}
	}
	DrawOutline(gtx, camera, n.Center, points, fill)
	StrokeOutline(gtx, camera, n.Center, points, 1, ColorOutline)
}

// DrawCell draws every node of a cell.
func DrawCell(gtx layout.Context, camera *Camera, cell *design.Cell) {
	for _, n := range cell.Nodes {
		DrawNode(gtx, camera, n)
	}
}

// DrawGrid marks grid points inside the visible area. Nothing is drawn when
// the grid would be denser than minGridSpacing pixels.
func DrawGrid(gtx layout.Context, camera *Camera, grid float64) {
	if grid <= 0 || grid*camera.Zoom < minGridSpacing {
		return
	}
	for _, p := range GridPoints(camera.VisibleBounds(), grid) {
		x, y := camera.WorldToScreen(p)
		dot := image.Rect(int(x), int(y), int(x)+1, int(y)+1)
		paint.FillShape(gtx.Ops, ColorGrid, clip.Rect(dot).Op())
	}
}

// DrawAxes draws the layout X and Y axes through the origin.
func DrawAxes(gtx layout.Context, camera *Camera) {
	w, h := float64(camera.ScreenWidth), float64(camera.ScreenHeight)
	ox, oy := camera.WorldToScreen(geom.Position{})
	drawLine(gtx, 0, oy, w, oy, 1, ColorAxis)
	drawLine(gtx, ox, 0, ox, h, 1, ColorAxis)
}

// GridPoints lists the grid positions inside bbox.
func GridPoints(bbox geom.BoundingBox, grid float64) []geom.Position {
	if bbox.IsEmpty() || grid <= 0 {
		return nil
	}
	x0 := math.Ceil(bbox.Min.X/grid) * grid
	y0 := math.Ceil(bbox.Min.Y/grid) * grid
	nx := int(math.Floor((bbox.Max.X-x0)/grid)) + 1
	ny := int(math.Floor((bbox.Max.Y-y0)/grid)) + 1
	if nx <= 0 || ny <= 0 {
		return nil
	}

	points := make([]geom.Position, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			points = append(points, geom.Position{X: x0 + float64(i)*grid, Y: y0 + float64(j)*grid})
		}
	}
	return points
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float64, c color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(x1), float32(y1)))
	path.LineTo(f32.Pt(float32(x2), float32(y2)))
	paint.FillShape(gtx.Ops, c, clip.Stroke{Path: path.End(), Width: float32(width)}.Op())
}
