// Package geom provides the small set of planar types shared by the layout
// generators, the design database and the preview renderer.
package geom

import "math"

// Layout angles are stored as integer tenths of a degree.
const (
	DecidegreesToDegrees = 0.1
	DegreesToDecidegrees = 10.0
)

// FullCircle is 360 degrees expressed in decidegrees.
const FullCircle Decidegrees = 3600

// Decidegrees is an angle in tenths of a degree.
type Decidegrees int

// Degrees returns the angle in degrees.
func (a Decidegrees) Degrees() float64 {
	return float64(a) * DecidegreesToDegrees
}

// Radians returns the angle in radians.
func (a Decidegrees) Radians() float64 {
	return float64(a) * math.Pi / 1800.0
}

// FromDegrees converts degrees to the nearest decidegree.
func FromDegrees(deg float64) Decidegrees {
	return Decidegrees(math.Round(deg * DegreesToDecidegrees))
}

// Position is a point in lambda units.
type Position struct {
	X, Y float64
}

// Add returns p+q.
func (p Position) Add(q Position) Position {
	return Position{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Position) Sub(q Position) Position {
	return Position{p.X - q.X, p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is an extent in lambda.
type Size struct {
	Width, Height float64
}

// BoundingBox is an axis-aligned rectangle. A box with Min beyond Max on
// either axis holds no points.
type BoundingBox struct {
	Min, Max Position
}

// NewBoundingBox returns a box that holds no points, ready for Expand.
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{Min: Position{inf, inf}, Max: Position{-inf, -inf}}
}

// BoundsOf returns the smallest box holding every point.
func BoundsOf(points []Position) BoundingBox {
	bb := NewBoundingBox()
	for _, p := range points {
		bb.Expand(p)
	}
	return bb
}

// IsEmpty reports whether bb holds no points.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand grows bb to hold p.
func (bb *BoundingBox) Expand(p Position) {
	bb.Min = Position{math.Min(bb.Min.X, p.X), math.Min(bb.Min.Y, p.Y)}
	bb.Max = Position{math.Max(bb.Max.X, p.X), math.Max(bb.Max.Y, p.Y)}
}

// ExpandBox grows bb to hold other. Empty boxes are ignored.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if other.IsEmpty() {
		return
	}
	bb.Expand(other.Min)
	bb.Expand(other.Max)
}

// Contains reports whether p lies inside bb or on its edge.
func (bb BoundingBox) Contains(p Position) bool {
	inX := p.X >= bb.Min.X && p.X <= bb.Max.X
	return inX && p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Size returns the extent of bb, zero when it is empty.
func (bb BoundingBox) Size() Size {
	if bb.IsEmpty() {
		return Size{}
	}
	return Size{bb.Max.X - bb.Min.X, bb.Max.Y - bb.Min.Y}
}

// Width returns the horizontal extent of bb, zero when it is empty.
func (bb BoundingBox) Width() float64 { return bb.Size().Width }

// Height returns the vertical extent of bb, zero when it is empty.
func (bb BoundingBox) Height() float64 { return bb.Size().Height }

// Center returns the midpoint of bb, or the origin when it is empty.
func (bb BoundingBox) Center() Position {
	if bb.IsEmpty() {
		return Position{}
	}
	return Position{(bb.Min.X + bb.Max.X) / 2, (bb.Min.Y + bb.Max.Y) / 2}
}
