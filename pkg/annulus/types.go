package annulus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

// MinSegments is the smallest number of segments a ring is drawn with.
const MinSegments = 4

// ErrInvalidParameter reports a ring specification that cannot be generated.
var ErrInvalidParameter = errors.New("annulus: invalid parameter")

// Spec describes a ring or ring sector.
type Spec struct {
	Inner    float64          // Inner radius, 0 for a disc or pie slice
	Outer    float64          // Outer radius, >= Inner
	Segments int              // Number of straight segments per arc
	Sweep    geom.Decidegrees // Angular extent in (0, 3600]
}

// Policy selects how out-of-range segment counts and sweeps are handled.
type Policy int

const (
	// Clamp silently corrects out-of-range values.
	Clamp Policy = iota
	// Reject returns ErrInvalidParameter for out-of-range values.
	Reject
)

func (p Policy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "clamp" or "reject".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clamp", "":
		return Clamp, nil
	case "reject", "strict":
		return Reject, nil
	}
	return Clamp, fmt.Errorf("annulus: unknown policy %q (want clamp or reject)", s)
}

// Result is a generated outline.
type Result struct {
	// Points is the closed outline relative to the center of its bounding box.
	Points []geom.Position

	// Width and Height are the bounding box size of the snapped outline,
	// used as the nominal size of the placed node.
	Width  float64
	Height float64

	// Segments and Sweep are the values actually used after clamping.
	Segments int
	Sweep    geom.Decidegrees
}

// Bounds returns the bounding box of the points.
func (r Result) Bounds() geom.BoundingBox {
	return geom.BoundsOf(r.Points)
}
