// Package annulus generates the outline of a ring or ring sector for a
// pure-layer primitive node.
//
// # Overview
//
// Generate turns a Spec (inner radius, outer radius, segment count and sweep)
// into a closed polygon:
//
//	spec := annulus.Spec{Inner: 5, Outer: 10, Segments: 32, Sweep: 3600}
//	res, err := annulus.Generate(spec, 0.5, annulus.Clamp)
//	// res.Points is the outline, res.Width x res.Height its nominal size
//
// When the inner radius is positive the outline first walks the inner arc in
// increasing angle, then the outer arc back in decreasing angle, which keeps
// the contour simple. With a zero inner radius and a partial sweep the
// outline is a pie slice and carries the apex (the ring center) at both seams.
//
// # Angles
//
// Sweeps are integer decidegrees (tenths of a degree). The angle of vertex i
// is computed as sweep*i/segments in integer arithmetic for every vertex, so
// the last vertex lands exactly on the sweep and never drifts.
//
// # Grid
//
// Every vertex is snapped to the manufacturing grid as it is produced. The
// outline is then re-centered on its bounding box and snapped again, so all
// returned coordinates are grid multiples and the box is centered on (0, 0)
// within one grid unit.
//
// # Input policy
//
// Out-of-range segment counts and sweeps are corrected silently under Clamp
// and rejected with ErrInvalidParameter under Reject. Negative or inverted
// radii are rejected under both policies.
package annulus
