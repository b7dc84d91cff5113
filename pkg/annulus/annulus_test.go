package annulus

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

func mustGenerate(t *testing.T, spec Spec, grid float64) Result {
	t.Helper()
	res, err := Generate(spec, grid, Clamp)
	if err != nil {
		t.Fatalf("Generate(%+v, %v) failed: %v", spec, grid, err)
	}
	return res
}

func TestPointCount(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want int
	}{
		{"ring full circle", Spec{Inner: 5, Outer: 10, Segments: 16, Sweep: 3600}, 34},
		{"ring sector", Spec{Inner: 5, Outer: 10, Segments: 16, Sweep: 900}, 34},
		{"pie slice", Spec{Inner: 0, Outer: 10, Segments: 16, Sweep: 1800}, 19},
		{"disc", Spec{Inner: 0, Outer: 10, Segments: 16, Sweep: 3600}, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointCount(tt.spec); got != tt.want {
				t.Errorf("PointCount() = %d, want %d", got, tt.want)
			}
			res := mustGenerate(t, tt.spec, 1)
			if len(res.Points) != tt.want {
				t.Errorf("Generate() produced %d points, want %d", len(res.Points), tt.want)
			}
		})
	}
}

func TestFullCircleDisc(t *testing.T) {
	res := mustGenerate(t, Spec{Inner: 0, Outer: 10, Segments: 32, Sweep: 3600}, 1)

	if len(res.Points) != 33 {
		t.Fatalf("expected 33 points, got %d", len(res.Points))
	}
	if res.Width != 20 || res.Height != 20 {
		t.Errorf("size = %vx%v, want 20x20", res.Width, res.Height)
	}

	// With the extremes at 0, 90, 180 and 270 degrees the box is symmetric,
	// so no re-centering offset applies and radii can be checked directly.
	for i, p := range res.Points {
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-10) > 1 {
			t.Errorf("point %d %+v has radius %v, want 10 +/- 1", i, p, r)
		}
		if p == (geom.Position{}) {
			t.Errorf("point %d is an apex, full circles have none", i)
		}
	}

	// The seam closes exactly: first and last vertex are both at 3600 and 0
	first, last := res.Points[0], res.Points[len(res.Points)-1]
	if first != last || first != (geom.Position{X: 10, Y: 0}) {
		t.Errorf("seam points = %+v and %+v, want (10, 0)", first, last)
	}
}

func TestQuarterWedge(t *testing.T) {
	res := mustGenerate(t, Spec{Inner: 0, Outer: 10, Segments: 4, Sweep: 900}, 1)

	// Before centering: apex, (0,10), (4,9), (7,7), (9,4), (10,0), apex.
	// The box spans [0,10] in both axes so everything shifts by (-5,-5).
	want := []geom.Position{
		{X: -5, Y: -5},
		{X: -5, Y: 5},
		{X: -1, Y: 4},
		{X: 2, Y: 2},
		{X: 4, Y: -1},
		{X: 5, Y: -5},
		{X: -5, Y: -5},
	}
	if !reflect.DeepEqual(res.Points, want) {
		t.Errorf("points = %+v\nwant   %+v", res.Points, want)
	}
	if res.Width != 10 || res.Height != 10 {
		t.Errorf("size = %vx%v, want 10x10", res.Width, res.Height)
	}
	if res.Points[0] != res.Points[len(res.Points)-1] {
		t.Errorf("apex points should shift identically")
	}
}

func TestRingBoundaries(t *testing.T) {
	const inner, outer, segments = 5.0, 10.0, 16
	res := mustGenerate(t, Spec{Inner: inner, Outer: outer, Segments: segments, Sweep: 3600}, 1)

	n := segments + 1
	for i, p := range res.Points {
		r := math.Hypot(p.X, p.Y)
		want := outer
		if i < n {
			want = inner
		}
		if math.Abs(r-want) > 1 {
			t.Errorf("point %d %+v has radius %v, want %v +/- 1", i, p, r, want)
		}
	}

	// Inner arc runs forward from angle 0, outer arc runs back to angle 0
	if res.Points[0] != (geom.Position{X: inner, Y: 0}) {
		t.Errorf("first inner point = %+v", res.Points[0])
	}
	if res.Points[n] != (geom.Position{X: outer, Y: 0}) {
		t.Errorf("first outer point = %+v", res.Points[n])
	}
	if res.Points[len(res.Points)-1] != (geom.Position{X: outer, Y: 0}) {
		t.Errorf("last outer point = %+v", res.Points[len(res.Points)-1])
	}
	if res.Points[1].Y <= 0 {
		t.Errorf("inner arc should advance counter-clockwise, got %+v", res.Points[1])
	}
	if res.Points[n+1].Y >= 0 {
		t.Errorf("outer arc should start near 360 degrees, got %+v", res.Points[n+1])
	}
}

func TestGridAlignmentAndCentering(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		grid float64
	}{
		{"odd sector", Spec{Inner: 3.3, Outer: 7.7, Segments: 13, Sweep: 1234}, 0.5},
		{"pie slice", Spec{Inner: 0, Outer: 12.25, Segments: 9, Sweep: 2700}, 0.25},
		{"fine grid", Spec{Inner: 1, Outer: 2, Segments: 64, Sweep: 3000}, 0.001},
		{"coarse grid", Spec{Inner: 2, Outer: 9, Segments: 7, Sweep: 1000}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustGenerate(t, tt.spec, tt.grid)

			for i, p := range res.Points {
				if !geom.OnGrid(p.X, tt.grid, 1e-9) || !geom.OnGrid(p.Y, tt.grid, 1e-9) {
					t.Errorf("point %d %+v is off the %v grid", i, p, tt.grid)
				}
			}

			c := res.Bounds().Center()
			if math.Abs(c.X) > tt.grid || math.Abs(c.Y) > tt.grid {
				t.Errorf("bounding box center %+v is more than one grid unit from origin", c)
			}
			if !geom.OnGrid(res.Width, tt.grid, 1e-9) || !geom.OnGrid(res.Height, tt.grid, 1e-9) {
				t.Errorf("size %vx%v is off grid", res.Width, res.Height)
			}
		})
	}
}

func TestSectorRadiiAfterCentering(t *testing.T) {
	const inner, outer, segments, grid = 4.0, 9.0, 10, 0.5
	res := mustGenerate(t, Spec{Inner: inner, Outer: outer, Segments: segments, Sweep: 1500}, grid)

	// Recover the ring center from the outer seam point at angle 0, whose
	// snapped pre-centering position is (outer, 0). Snapping before and after
	// the shift can each move a point by half a grid unit per axis.
	seam := res.Points[len(res.Points)-1]
	origin := geom.Position{X: seam.X - outer, Y: seam.Y}

	n := segments + 1
	for i, p := range res.Points {
		r := p.Distance(origin)
		want := outer
		if i < n {
			want = inner
		}
		if math.Abs(r-want) > 2*grid*math.Sqrt2 {
			t.Errorf("point %d has radius %v, want %v", i, r, want)
		}
	}
}

func TestClampBehavior(t *testing.T) {
	base := Spec{Inner: 2, Outer: 6, Segments: 4, Sweep: 3600}

	tests := []struct {
		name string
		spec Spec
	}{
		{"segments below minimum", Spec{Inner: 2, Outer: 6, Segments: 1, Sweep: 3600}},
		{"zero segments", Spec{Inner: 2, Outer: 6, Segments: 0, Sweep: 3600}},
		{"negative segments", Spec{Inner: 2, Outer: 6, Segments: -3, Sweep: 3600}},
		{"sweep above full circle", Spec{Inner: 2, Outer: 6, Segments: 4, Sweep: 4000}},
		{"zero sweep", Spec{Inner: 2, Outer: 6, Segments: 4, Sweep: 0}},
		{"negative sweep", Spec{Inner: 2, Outer: 6, Segments: 4, Sweep: -900}},
	}

	want := mustGenerate(t, base, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustGenerate(t, tt.spec, 1)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Generate(%+v) differs from Generate(%+v)", tt.spec, base)
			}
			if got.Segments != 4 || got.Sweep != geom.FullCircle {
				t.Errorf("effective values = %d segments, %d sweep", got.Segments, got.Sweep)
			}
		})
	}
}

func TestRejectPolicy(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"segments below minimum", Spec{Inner: 2, Outer: 6, Segments: 3, Sweep: 3600}},
		{"sweep above full circle", Spec{Inner: 2, Outer: 6, Segments: 8, Sweep: 3601}},
		{"zero sweep", Spec{Inner: 2, Outer: 6, Segments: 8, Sweep: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.spec, 1, Reject)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}

	if _, err := Generate(Spec{Inner: 2, Outer: 6, Segments: 4, Sweep: 3600}, 1, Reject); err != nil {
		t.Errorf("in-range spec rejected: %v", err)
	}
}

func TestInvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		grid float64
	}{
		{"negative inner", Spec{Inner: -1, Outer: 6, Segments: 8, Sweep: 3600}, 1},
		{"outer below inner", Spec{Inner: 7, Outer: 6, Segments: 8, Sweep: 3600}, 1},
		{"nan radius", Spec{Inner: 0, Outer: math.NaN(), Segments: 8, Sweep: 3600}, 1},
		{"infinite radius", Spec{Inner: 0, Outer: math.Inf(1), Segments: 8, Sweep: 3600}, 1},
		{"too many segments", Spec{Inner: 0, Outer: 6, Segments: MaxSegments + 1, Sweep: 3600}, 1},
		{"zero grid", Spec{Inner: 0, Outer: 6, Segments: 8, Sweep: 3600}, 0},
		{"negative grid", Spec{Inner: 0, Outer: 6, Segments: 8, Sweep: 3600}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, policy := range []Policy{Clamp, Reject} {
				if _, err := Generate(tt.spec, tt.grid, policy); !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("%v: error = %v, want ErrInvalidParameter", policy, err)
				}
			}
		})
	}
}

func TestZeroThicknessRing(t *testing.T) {
	res := mustGenerate(t, Spec{Inner: 5, Outer: 5, Segments: 8, Sweep: 3600}, 1)
	if len(res.Points) != 18 {
		t.Errorf("expected 18 points, got %d", len(res.Points))
	}
	if res.Width != 10 || res.Height != 10 {
		t.Errorf("size = %vx%v, want 10x10", res.Width, res.Height)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"clamp", Clamp, false},
		{"", Clamp, false},
		{"Reject", Reject, false},
		{"strict", Reject, false},
		{"lenient", Clamp, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
