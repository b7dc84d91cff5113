package annulus

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

// MaxSegments bounds the vertex count regardless of policy.
const MaxSegments = 1 << 20

// Normalize applies the input policy to a spec.
func Normalize(spec Spec, policy Policy) (Spec, error) {
	if !finite(spec.Inner) || !finite(spec.Outer) {
		return spec, fmt.Errorf("%w: radii must be finite (inner %g, outer %g)", ErrInvalidParameter, spec.Inner, spec.Outer)
	}
	if spec.Inner < 0 {
		return spec, fmt.Errorf("%w: inner radius %g is negative", ErrInvalidParameter, spec.Inner)
	}
	if spec.Outer < spec.Inner {
		return spec, fmt.Errorf("%w: outer radius %g is smaller than inner radius %g", ErrInvalidParameter, spec.Outer, spec.Inner)
	}
	if spec.Segments > MaxSegments {
		return spec, fmt.Errorf("%w: %d segments exceeds the limit of %d", ErrInvalidParameter, spec.Segments, MaxSegments)
	}

	if spec.Segments < MinSegments {
		if policy == Reject {
			return spec, fmt.Errorf("%w: %d segments, need at least %d", ErrInvalidParameter, spec.Segments, MinSegments)
		}
		spec.Segments = MinSegments
	}
	if spec.Sweep <= 0 || spec.Sweep > geom.FullCircle {
		if policy == Reject {
			return spec, fmt.Errorf("%w: sweep %.1f degrees is outside (0, 360]", ErrInvalidParameter, spec.Sweep.Degrees())
		}
		spec.Sweep = geom.FullCircle
	}
	return spec, nil
}

// PointCount returns the number of outline vertices for a normalized spec.
func PointCount(spec Spec) int {
	switch {
	case spec.Inner > 0:
		return 2 * (spec.Segments + 1)
	case spec.Sweep < geom.FullCircle:
		return spec.Segments + 3
	default:
		return spec.Segments + 1
	}
}

// Generate computes the ring outline on a grid of the given resolution.
func Generate(spec Spec, grid float64, policy Policy) (Result, error) {
	if !(grid > 0) || math.IsInf(grid, 0) {
		return Result{}, fmt.Errorf("%w: grid resolution %g must be positive", ErrInvalidParameter, grid)
	}
	s, err := Normalize(spec, policy)
	if err != nil {
		return Result{}, err
	}

	wedge := s.Inner == 0 && s.Sweep < geom.FullCircle
	points := make([]geom.Position, 0, PointCount(s))

	if s.Inner > 0 {
		for i := 0; i <= s.Segments; i++ {
			points = append(points, arcPoint(s.Inner, angleAt(s, i), grid))
		}
	}
	if wedge {
		points = append(points, geom.Position{})
	}
	for i := s.Segments; i >= 0; i-- {
		points = append(points, arcPoint(s.Outer, angleAt(s, i), grid))
	}
	if wedge {
		points = append(points, geom.Position{})
	}

	bbox := geom.BoundsOf(points)
	center := bbox.Center()
	for i, p := range points {
		points[i] = geom.SnapPosition(p.Sub(center), grid)
	}

	return Result{
		Points:   points,
		Width:    bbox.Width(),
		Height:   bbox.Height(),
		Segments: s.Segments,
		Sweep:    s.Sweep,
	}, nil
}

// angleAt is the angle of vertex i, computed from scratch for every vertex.
func angleAt(s Spec, i int) geom.Decidegrees {
	return geom.Decidegrees(int(s.Sweep) * i / s.Segments)
}

func arcPoint(radius float64, angle geom.Decidegrees, grid float64) geom.Position {
	rad := angle.Radians()
	return geom.SnapPosition(geom.Position{
		X: radius * math.Cos(rad),
		Y: radius * math.Sin(rad),
	}, grid)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
