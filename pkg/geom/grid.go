package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Snap rounds v to the nearest multiple of grid.
// A non-positive or non-finite grid leaves v unchanged.
func Snap(v, grid float64) float64 {
	if !(grid > 0) || math.IsInf(grid, 0) {
		return v
	}
	snapped := math.Round(v/grid) * grid
	// Avoid handing out -0 for points that land on an axis
	if snapped == 0 {
		return 0
	}
	return snapped
}

// SnapPosition snaps both coordinates of p to the grid.
func SnapPosition(p Position, grid float64) Position {
	return Position{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// OnGrid reports whether v lies on a multiple of grid within tol.
func OnGrid(v, grid, tol float64) bool {
	if !(grid > 0) {
		return true
	}
	return scalar.EqualWithinAbs(v, Snap(v, grid), tol)
}
