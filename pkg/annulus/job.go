package annulus

import (
	"context"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/tech"
)

// MakeJob places a ring of pure-layer geometry into a cell. It implements
// job.Job; the job's value is the design.NodeRef of the new node.
type MakeJob struct {
	Spec   Spec
	Policy Policy

	Technology string // Technology whose grid and layers are used
	Layer      string // Layer to draw on; must have a pure-layer node
	Cell       design.CellRef

	Techs tech.Repository
}

// Name implements job.Job.
func (j MakeJob) Name() string {
	return fmt.Sprintf("make annulus on %s in %s", j.Layer, j.Cell)
}

// Do implements job.Job.
func (j MakeJob) Do(ctx context.Context, db *design.Database) (any, error) {
	if j.Techs == nil {
		return nil, fmt.Errorf("annulus: no technology repository")
	}
	t, err := j.Techs.Lookup(j.Technology)
	if err != nil {
		return nil, err
	}
	grid, err := t.Resolution()
	if err != nil {
		return nil, err
	}
	kind, err := t.PureLayerNode(j.Layer)
	if err != nil {
		return nil, err
	}

	res, err := Generate(j.Spec, grid, j.Policy)
	if err != nil {
		return nil, err
	}
	if err := checkAligned(res.Points, grid); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ref design.NodeRef
	err = db.Apply(func(tx *design.Tx) error {
		if _, err := tx.EnsureCell(j.Cell); err != nil {
			return err
		}
		n, err := tx.CreatePrimitiveInstance(kind, j.Layer, geom.Position{}, res.Width, res.Height, j.Cell)
		if err != nil {
			return err
		}
		ref = design.NodeRef{Cell: j.Cell, ID: n.ID}
		return tx.SetOutline(ref, res.Points)
	})
	if err != nil {
		return nil, fmt.Errorf("annulus: place in %s: %w", j.Cell, err)
	}
	return ref, nil
}

// alignTolerance absorbs float error from snapping, in lambda.
const alignTolerance = 1e-9

// checkAligned refuses an outline with a vertex off the manufacturing grid.
func checkAligned(points []geom.Position, grid float64) error {
	for i, p := range points {
		if !geom.OnGrid(p.X, grid, alignTolerance) || !geom.OnGrid(p.Y, grid, alignTolerance) {
			return fmt.Errorf("annulus: vertex %d (%g, %g) is off the %g lambda grid", i, p.X, p.Y, grid)
		}
	}
	return nil
}
