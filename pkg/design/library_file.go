package design

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design/sexpr"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

// WriteLibrary serializes a library as an S-expression:
//
//	(library "demo" (technology mocmos)
//	  (cell "ring"
//	    (node 1 "Metal-1-Node@1" (kind "Metal-1-Node") (layer "Metal-1")
//	      (at 0 0) (size 20 20)
//	      (trace (xy 10 0) ...))))
func WriteLibrary(w io.Writer, lib *Library) error {
	root := sexpr.Tagged("library", sexpr.String(lib.Name))
	if lib.Technology != "" {
		root.Append(sexpr.Tagged("technology", sexpr.Symbol(lib.Technology)))
	}

	for _, name := range lib.CellNames() {
		cell := lib.cells[name]
		c := sexpr.Tagged("cell", sexpr.String(cell.Name))
		for _, n := range cell.Nodes {
			c.Append(nodeToSexp(n))
		}
		root.Append(c)
	}

	return sexpr.Write(w, root)
}

// SaveLibrary writes a library to a file.
func SaveLibrary(filename string, lib *Library) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteLibrary(file, lib); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func nodeToSexp(n *NodeInst) *sexpr.List {
	node := sexpr.Tagged("node", sexpr.Int(n.ID), sexpr.String(n.Name),
		sexpr.Tagged("kind", sexpr.String(n.Kind)))
	if n.Layer != "" {
		node.Append(sexpr.Tagged("layer", sexpr.String(n.Layer)))
	}
	node.Append(
		sexpr.Tagged("at", sexpr.Float(n.Center.X), sexpr.Float(n.Center.Y)),
		sexpr.Tagged("size", sexpr.Float(n.Size.Width), sexpr.Float(n.Size.Height)),
	)
	if len(n.Trace) > 0 {
		trace := sexpr.Tagged("trace")
		for _, p := range n.Trace {
			trace.Append(sexpr.Tagged("xy", sexpr.Float(p.X), sexpr.Float(p.Y)))
		}
		node.Append(trace)
	}
	return node
}

// LoadLibrary reads a library file.
func LoadLibrary(filename string) (*Library, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadLibrary(file)
}

// ReadLibrary parses a library written by WriteLibrary.
func ReadLibrary(r io.Reader) (*Library, error) {
	exprs, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := exprs[0].(*sexpr.List)
	if !ok {
		return nil, fmt.Errorf("not a library file: expected a list")
	}
	if name, err := sexpr.Name(root); err != nil || name != "library" {
		return nil, fmt.Errorf("not a library file: expected 'library'")
	}

	libName, err := sexpr.GetString(root, 1)
	if err != nil {
		return nil, fmt.Errorf("library name: %w", err)
	}
	var techName string
	// An empty (technology) clause means no technology.
	if tech, found := sexpr.FindNode(root, "technology"); found && tech.Len() > 1 {
		if techName, err = sexpr.GetString(tech, 1); err != nil {
			return nil, fmt.Errorf("library %s technology: %w", libName, err)
		}
	}

	lib := NewLibrary(libName, techName)
	for _, cellNode := range sexpr.FindAllNodes(root, "cell") {
		cell, err := parseCell(cellNode)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", libName, err)
		}
		if err := lib.AddCell(cell); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func parseCell(s *sexpr.List) (*Cell, error) {
	name, err := sexpr.GetString(s, 1)
	if err != nil {
		return nil, fmt.Errorf("cell name: %w", err)
	}
	cell := NewCell(name)
	for _, nodeExpr := range sexpr.FindAllNodes(s, "node") {
		n, err := parseNode(nodeExpr)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", name, err)
		}
		if err := cell.AddNode(n); err != nil {
			return nil, err
		}
	}
	return cell, nil
}

func parseNode(s *sexpr.List) (*NodeInst, error) {
	id, err := sexpr.GetInt(s, 1)
	if err != nil {
		return nil, fmt.Errorf("node id: %w", err)
	}
	if id < 1 {
		return nil, fmt.Errorf("node id %d must be positive", id)
	}
	n := &NodeInst{ID: id}
	if n.Name, err = sexpr.GetString(s, 2); err != nil {
		return nil, fmt.Errorf("node %d name: %w", id, err)
	}

	kind, found := sexpr.FindNode(s, "kind")
	if !found {
		return nil, fmt.Errorf("node %d: missing kind", id)
	}
	if n.Kind, err = sexpr.GetString(kind, 1); err != nil {
		return nil, fmt.Errorf("node %d kind: %w", id, err)
	}
	if layer, found := sexpr.FindNode(s, "layer"); found {
		if n.Layer, err = sexpr.GetString(layer, 1); err != nil {
			return nil, fmt.Errorf("node %d layer: %w", id, err)
		}
	}
	if at, found := sexpr.FindNode(s, "at"); found {
		if n.Center, err = getXY(at); err != nil {
			return nil, fmt.Errorf("node %d at: %w", id, err)
		}
	}
	if size, found := sexpr.FindNode(s, "size"); found {
		wh, err := getXY(size)
		if err != nil {
			return nil, fmt.Errorf("node %d size: %w", id, err)
		}
		n.Size = geom.Size{Width: wh.X, Height: wh.Y}
	}
	if trace, found := sexpr.FindNode(s, "trace"); found {
		for _, xy := range sexpr.FindAllNodes(trace, "xy") {
			p, err := getXY(xy)
			if err != nil {
				return nil, fmt.Errorf("node %d trace: %w", id, err)
			}
			n.Trace = append(n.Trace, p)
		}
	}
	return n, nil
}

func getXY(s *sexpr.List) (geom.Position, error) {
	x, err := sexpr.GetFloat(s, 1)
	if err != nil {
		return geom.Position{}, err
	}
	y, err := sexpr.GetFloat(s, 2)
	if err != nil {
		return geom.Position{}, err
	}
	return geom.Position{X: x, Y: y}, nil
}
