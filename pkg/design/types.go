// Package design is the in-memory design database that layout generators
// place primitive instances into.
//
// Committed cells are never mutated: every change batch (see Database.Apply)
// works on copies of the cells it touches and swaps them in on success, so a
// *Cell obtained from the database is a stable snapshot.
package design

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

var (
	ErrNoSuchLibrary = errors.New("design: no such library")
	ErrNoSuchCell    = errors.New("design: no such cell")
	ErrNoSuchNode    = errors.New("design: no such node")
	ErrExists        = errors.New("design: already exists")
	ErrInvalid       = errors.New("design: invalid argument")
)

// CellRef names a cell inside a library.
type CellRef struct {
	Library string
	Cell    string
}

func (r CellRef) String() string {
	return r.Library + ":" + r.Cell
}

// NodeRef is the handle of a placed node.
type NodeRef struct {
	Cell CellRef
	ID   int
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s#%d", r.Cell, r.ID)
}

// NodeInst is a placed primitive instance.
type NodeInst struct {
	ID     int
	Name   string
	Kind   string // Primitive node name from the technology, e.g. "Metal-1-Node"
	Layer  string
	Center geom.Position
	Size   geom.Size

	// Trace is the custom outline relative to Center; empty for plain boxes.
	Trace []geom.Position
}

// Bounds returns the node's extent in cell coordinates.
func (n *NodeInst) Bounds() geom.BoundingBox {
	bbox := geom.NewBoundingBox()
	if len(n.Trace) > 0 {
		for _, p := range n.Trace {
			bbox.Expand(n.Center.Add(p))
		}
		return bbox
	}
	half := geom.Position{X: n.Size.Width / 2, Y: n.Size.Height / 2}
	bbox.Expand(n.Center.Sub(half))
	bbox.Expand(n.Center.Add(half))
	return bbox
}

func (n *NodeInst) clone() *NodeInst {
	c := *n
	if n.Trace != nil {
		c.Trace = append([]geom.Position(nil), n.Trace...)
	}
	return &c
}

// Cell is a named collection of nodes.
type Cell struct {
	Name   string
	Nodes  []*NodeInst
	nextID int
}

// NewCell creates an empty cell.
func NewCell(name string) *Cell {
	return &Cell{Name: name, nextID: 1}
}

// Node returns the node with the given id.
func (c *Cell) Node(id int) (*NodeInst, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Bounds returns the union of all node bounds.
func (c *Cell) Bounds() geom.BoundingBox {
	bbox := geom.NewBoundingBox()
	for _, n := range c.Nodes {
		bbox.ExpandBox(n.Bounds())
	}
	return bbox
}

// AddNode appends a node, assigning the next free id when n.ID is zero.
func (c *Cell) AddNode(n *NodeInst) error {
	if c.nextID < 1 {
		c.nextID = 1
	}
	if n.ID == 0 {
		n.ID = c.nextID
	} else if _, dup := c.Node(n.ID); dup {
		return fmt.Errorf("%w: node %d in cell %s", ErrExists, n.ID, c.Name)
	}
	if n.ID >= c.nextID {
		c.nextID = n.ID + 1
	}
	c.Nodes = append(c.Nodes, n)
	return nil
}

func (c *Cell) clone() *Cell {
	nodes := make([]*NodeInst, len(c.Nodes))
	for i, n := range c.Nodes {
		nodes[i] = n.clone()
	}
	return &Cell{Name: c.Name, Nodes: nodes, nextID: c.nextID}
}

// Library is a named set of cells bound to one technology.
type Library struct {
	Name       string
	Technology string
	cells      map[string]*Cell
}

// NewLibrary creates an empty library.
func NewLibrary(name, technology string) *Library {
	return &Library{
		Name:       name,
		Technology: technology,
		cells:      make(map[string]*Cell),
	}
}

// Cell returns the cell with the given name.
func (l *Library) Cell(name string) (*Cell, bool) {
	c, ok := l.cells[name]
	return c, ok
}

// AddCell registers a cell.
func (l *Library) AddCell(c *Cell) error {
	if _, ok := l.cells[c.Name]; ok {
		return fmt.Errorf("%w: cell %s in library %s", ErrExists, c.Name, l.Name)
	}
	l.cells[c.Name] = c
	return nil
}

// CellNames returns the sorted cell names.
func (l *Library) CellNames() []string {
	names := make([]string, 0, len(l.cells))
	for name := range l.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) snapshot() *Library {
	cells := make(map[string]*Cell, len(l.cells))
	for name, c := range l.cells {
		cells[name] = c
	}
	return &Library{Name: l.Name, Technology: l.Technology, cells: cells}
}
