package design

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/sexp"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

func sampleLibrary(t *testing.T) *Library {
	t.Helper()
	lib := NewLibrary("demo", "mocmos")
	cell := NewCell("ring")
	n := &NodeInst{
		Kind:   "Metal-1-Node",
		Layer:  "Metal-1",
		Center: geom.Position{X: 0.5, Y: -1},
		Size:   geom.Size{Width: 20, Height: 10},
		Trace:  []geom.Position{{X: 10, Y: 0}, {X: 0, Y: 5}, {X: -10, Y: 0}},
	}
	if err := cell.AddNode(n); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	n.Name = "Metal-1-Node@1"
	if err := lib.AddCell(cell); err != nil {
		t.Fatalf("AddCell failed: %v", err)
	}
	if err := lib.AddCell(NewCell("empty")); err != nil {
		t.Fatalf("AddCell failed: %v", err)
	}
	return lib
}

func TestLibraryFileRoundTrip(t *testing.T) {
	lib := sampleLibrary(t)

	var buf bytes.Buffer
	if err := WriteLibrary(&buf, lib); err != nil {
		t.Fatalf("WriteLibrary failed: %v", err)
	}

	got, err := ReadLibrary(&buf)
	if err != nil {
		t.Fatalf("ReadLibrary failed: %v", err)
	}
	if got.Name != "demo" || got.Technology != "mocmos" {
		t.Errorf("header = %q/%q", got.Name, got.Technology)
	}
	if names := got.CellNames(); len(names) != 2 {
		t.Fatalf("cells = %v", names)
	}

	cell, _ := got.Cell("ring")
	n, ok := cell.Node(1)
	if !ok {
		t.Fatalf("node 1 missing")
	}
	want, _ := lib.cells["ring"].Node(1)
	if n.Name != want.Name || n.Kind != want.Kind || n.Layer != want.Layer {
		t.Errorf("node header = %+v", n)
	}
	if n.Center != want.Center || n.Size != want.Size {
		t.Errorf("placement = %+v %+v", n.Center, n.Size)
	}
	if len(n.Trace) != len(want.Trace) {
		t.Fatalf("trace length = %d", len(n.Trace))
	}
	for i := range n.Trace {
		if n.Trace[i] != want.Trace[i] {
			t.Errorf("trace[%d] = %+v, want %+v", i, n.Trace[i], want.Trace[i])
		}
	}

	// New nodes continue numbering after the loaded ones
	extra := &NodeInst{Kind: "Poly-Node"}
	if err := cell.AddNode(extra); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if extra.ID != 2 {
		t.Errorf("next id = %d, want 2", extra.ID)
	}
}

// The written form must also be readable by a general purpose S-expression parser.
func TestLibraryFileIsPlainSexp(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLibrary(&buf, sampleLibrary(t)); err != nil {
		t.Fatalf("WriteLibrary failed: %v", err)
	}

	exprs, err := sexp.ParseString(buf.String())
	if err != nil {
		t.Fatalf("generic parser rejected output: %v\n%s", err, buf.String())
	}
	if len(exprs) != 1 {
		t.Fatalf("expected 1 top-level expression, got %d", len(exprs))
	}
	if exprs[0].IsLeaf() {
		t.Errorf("top-level expression should be a list")
	}
}

func TestReadLibraryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a library", `(kicad_pcb (version 1))`},
		{"atom root", `library`},
		{"missing name", `(library)`},
		{"node without kind", `(library "x" (cell "c" (node 1 "n")))`},
		{"bad coordinate", `(library "x" (cell "c" (node 1 "n" (kind "K") (at a 0))))`},
		{"duplicate node id", `(library "x" (cell "c" (node 1 "a" (kind "K")) (node 1 "b" (kind "K"))))`},
		{"duplicate cell", `(library "x" (cell "c") (cell "c"))`},
		{"zero node id", `(library "x" (cell "c" (node 0 "n" (kind "K"))))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadLibrary(strings.NewReader(tt.input)); err == nil {
				t.Errorf("ReadLibrary(%q) expected error", tt.input)
			}
		})
	}
}

func TestSaveAndLoadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.lib")
	if err := SaveLibrary(path, sampleLibrary(t)); err != nil {
		t.Fatalf("SaveLibrary failed: %v", err)
	}
	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}

	db := NewDatabase()
	if err := db.AddLibrary(lib); err != nil {
		t.Fatalf("AddLibrary failed: %v", err)
	}
	if _, err := db.Node(NodeRef{Cell: CellRef{Library: "demo", Cell: "ring"}, ID: 1}); err != nil {
		t.Errorf("loaded node not reachable: %v", err)
	}
}

func TestLibraryWithoutTechnology(t *testing.T) {
	lib := NewLibrary("bare", "")
	if err := lib.AddCell(NewCell("top")); err != nil {
		t.Fatalf("AddCell failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteLibrary(&buf, lib); err != nil {
		t.Fatalf("WriteLibrary failed: %v", err)
	}
	if strings.Contains(buf.String(), "technology") {
		t.Errorf("library without technology wrote a technology clause:\n%s", buf.String())
	}

	got, err := ReadLibrary(&buf)
	if err != nil {
		t.Fatalf("ReadLibrary failed: %v", err)
	}
	if got.Name != "bare" || got.Technology != "" {
		t.Errorf("read library %q technology %q", got.Name, got.Technology)
	}
	if _, ok := got.Cell("top"); !ok {
		t.Errorf("cell top missing after round trip")
	}

	// Files with an empty clause load as having no technology
	old, err := ReadLibrary(strings.NewReader(`(library "bare" (technology ))`))
	if err != nil {
		t.Fatalf("ReadLibrary of empty technology clause failed: %v", err)
	}
	if old.Technology != "" {
		t.Errorf("Technology = %q, want empty", old.Technology)
	}
}
