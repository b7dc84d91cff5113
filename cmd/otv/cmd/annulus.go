package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/OpenTraceLab/OpenTraceVLSI/internal/prefs"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/annulus"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/job"
)

// scratchLibrary holds the result when no library file is given.
const scratchLibrary = "scratch"

var (
	annInner    float64
	annOuter    float64
	annSegments int
	annSweep    float64
	annLayer    string
	annPolicy   string
	annLib      string
	annCell     string
	annOut      string
	annPoints   bool
	annNoSave   bool
)

var annulusCmd = &cobra.Command{
	Use:   "annulus",
	Short: "Place a ring, sector or disc on a layer",
	Long: `Generates an annulus outline snapped to the technology's manufacturing
grid and places it as a pure-layer node into a cell.

Radii are in lambda, the sweep in degrees counter-clockwise from +X. An inner
radius of 0 makes a disc, or a pie slice when the sweep is below 360. Values
not given on the command line default to the last ones used.

Out-of-range segment counts and sweeps are clamped unless --strict or
--policy reject is given.`,
	Args: cobra.NoArgs,
	RunE: runAnnulus,
}

var annulusViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Generate an annulus and preview it in a window",
	Long: `Generates an annulus like "otv annulus" and opens it in an interactive viewer.

Controls:
  Scroll Wheel      - Zoom in/out
  Drag              - Pan
  R / Left Arrow    - Rotate 90°
  F                 - Flip view
  G                 - Toggle grid
  Space             - Fit to window
  Q / Escape        - Quit`,
	Args: cobra.NoArgs,
	RunE: runAnnulusView,
}

func init() {
	rootCmd.AddCommand(annulusCmd)
	annulusCmd.AddCommand(annulusViewCmd)

	pf := annulusCmd.PersistentFlags()
	pf.Float64Var(&annInner, "inner", 0, "inner radius in lambda (0 for a disc)")
	pf.Float64Var(&annOuter, "outer", 10, "outer radius in lambda")
	pf.IntVar(&annSegments, "segments", 32, "number of arc segments")
	pf.Float64Var(&annSweep, "sweep", 360, "sweep angle in degrees")
	pf.StringVar(&annLayer, "layer", "Metal-1", "layer to draw on")
	pf.StringVar(&annPolicy, "policy", "clamp", "out-of-range handling: clamp or reject")
	pf.StringVar(&annLib, "lib", "", "library file to load (created when missing)")
	pf.StringVar(&annCell, "cell", "annulus", "cell to place the node in")
	pf.StringVar(&annOut, "out", "", "write the library here instead of --lib")
	pf.BoolVar(&annNoSave, "no-save-prefs", false, "do not remember these parameters")
	annulusCmd.Flags().BoolVar(&annPoints, "points", false, "print every outline point")
}

// annulusRequest is everything needed to run one generation.
type annulusRequest struct {
	spec       annulus.Spec
	policy     annulus.Policy
	technology string
	layer      string
	cell       design.CellRef
}

// placement is the outcome of a generation.
type placement struct {
	db    *design.Database
	ref   design.NodeRef
	node  *design.NodeInst
	grid  float64
	lib   string
	saved string
}

func runAnnulus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	pl, err := generateAnnulus(cmd)
	if err != nil {
		return err
	}

	n := pl.node
	fmt.Fprintf(out, "Placed %s in %s\n", n.Name, pl.ref.Cell)
	fmt.Fprintf(out, "  Node:   %s\n", pl.ref)
	fmt.Fprintf(out, "  Kind:   %s on %s\n", n.Kind, n.Layer)
	fmt.Fprintf(out, "  Size:   %g x %g lambda\n", n.Size.Width, n.Size.Height)
	fmt.Fprintf(out, "  Grid:   %g lambda\n", pl.grid)
	fmt.Fprintf(out, "  Points: %d\n", len(n.Trace))
	if annPoints {
		for _, p := range n.Trace {
			fmt.Fprintf(out, "    %g %g\n", p.X, p.Y)
		}
	}
	if pl.saved != "" {
		fmt.Fprintf(out, "✓ Saved library %s to %s\n", pl.lib, pl.saved)
	}
	return nil
}

// generateAnnulus resolves parameters, runs the placement job and saves the
// library and preferences.
func generateAnnulus(cmd *cobra.Command) (*placement, error) {
	ppath, err := prefsPath()
	if err != nil {
		return nil, err
	}
	p, err := prefs.Load(ppath)
	if err != nil {
		logger.Printf("ignoring preferences: %v", err)
		p = prefs.Defaults()
	}
	applyPrefs(cmd.Flags(), p)

	db, libName, err := openLibrary()
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(libName)
	if err != nil {
		return nil, err
	}
	if lib, err := db.Library(libName); err == nil && lib.Technology != "" && !cmd.Flags().Changed("technology") {
		req.technology = lib.Technology
	}

	techs, err := loadTechnologies()
	if err != nil {
		return nil, err
	}
	grid, err := techs.Resolution(req.technology)
	if err != nil {
		return nil, err
	}

	ref, err := runPlacement(cmd.Context(), db, annulus.MakeJob{
		Spec:       req.spec,
		Policy:     req.policy,
		Technology: req.technology,
		Layer:      req.layer,
		Cell:       req.cell,
		Techs:      techs,
	})
	if err != nil {
		return nil, err
	}
	node, err := db.Node(ref)
	if err != nil {
		return nil, err
	}

	pl := &placement{db: db, ref: ref, node: node, grid: grid, lib: libName}
	if target := saveTarget(); target != "" {
		lib, err := db.Library(libName)
		if err != nil {
			return nil, err
		}
		if err := design.SaveLibrary(target, lib); err != nil {
			return nil, err
		}
		logger.Printf("saved %s", target)
		pl.saved = target
	}

	if !annNoSave {
		p.Technology = req.technology
		p.Annulus = prefs.Annulus{
			Inner:    annInner,
			Outer:    annOuter,
			Segments: annSegments,
			Sweep:    annSweep,
			Layer:    annLayer,
		}
		if err := prefs.Save(ppath, p); err != nil {
			logger.Printf("could not save preferences: %v", err)
		}
	}
	return pl, nil
}

// applyPrefs fills every parameter flag the user did not set with the
// remembered value. The remembered technology only beats the built-in default.
func applyPrefs(flags *pflag.FlagSet, p *prefs.Prefs) {
	a := p.Annulus
	if !flags.Changed("inner") {
		annInner = a.Inner
	}
	if !flags.Changed("outer") {
		annOuter = a.Outer
	}
	if !flags.Changed("segments") {
		annSegments = a.Segments
	}
	if !flags.Changed("sweep") {
		annSweep = a.Sweep
	}
	if !flags.Changed("layer") && a.Layer != "" {
		annLayer = a.Layer
	}
	if p.Technology != "" {
		cfg.SetDefault("technology", p.Technology)
	}
}

func buildRequest(libName string) (annulusRequest, error) {
	policy, err := annulus.ParsePolicy(cfg.GetString("policy"))
	if err != nil {
		return annulusRequest{}, err
	}
	if cfg.GetBool("strict") {
		policy = annulus.Reject
	}
	return annulusRequest{
		spec: annulus.Spec{
			Inner:    annInner,
			Outer:    annOuter,
			Segments: annSegments,
			Sweep:    geom.FromDegrees(annSweep),
		},
		policy:     policy,
		technology: cfg.GetString("technology"),
		layer:      annLayer,
		cell:       design.CellRef{Library: libName, Cell: annCell},
	}, nil
}

// openLibrary loads --lib into a fresh database, or creates an empty library
// when the file does not exist yet.
func openLibrary() (*design.Database, string, error) {
	db := design.NewDatabase()
	if annLib == "" {
		return db, scratchLibrary, db.NewLibrary(scratchLibrary, cfg.GetString("technology"))
	}

	lib, err := design.LoadLibrary(annLib)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
		name := strings.TrimSuffix(filepath.Base(annLib), filepath.Ext(annLib))
		logger.Printf("creating library %s", name)
		return db, name, db.NewLibrary(name, cfg.GetString("technology"))
	}
	logger.Printf("loaded library %s from %s", lib.Name, annLib)
	return db, lib.Name, db.AddLibrary(lib)
}

func saveTarget() string {
	if annOut != "" {
		return annOut
	}
	return annLib
}

// runPlacement executes j on a job queue and waits for the node it places.
func runPlacement(ctx context.Context, db *design.Database, j job.Job) (design.NodeRef, error) {
	q := job.NewQueue(db, job.WithLogger(logger))
	q.Start(ctx)
	defer q.Close()

	fut, err := q.Submit(ctx, j)
	if err != nil {
		return design.NodeRef{}, err
	}
	v, err := fut.Wait(ctx)
	if err != nil {
		return design.NodeRef{}, err
	}
	ref, ok := v.(design.NodeRef)
	if !ok {
		return design.NodeRef{}, fmt.Errorf("%s returned %T, want a node reference", j.Name(), v)
	}
	return ref, nil
}

func runAnnulusView(cmd *cobra.Command, args []string) error {
	pl, err := generateAnnulus(cmd)
	if err != nil {
		return err
	}
	cell, err := pl.db.Cell(pl.ref.Cell)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), pl)
	return runViewer("Annulus - "+pl.ref.String(), cell, pl.grid)
}

func printSummary(out io.Writer, pl *placement) {
	fmt.Fprintf(out, "Placed %s (%g x %g lambda, %d points)\n",
		pl.ref, pl.node.Size.Width, pl.node.Size.Height, len(pl.node.Trace))
}
