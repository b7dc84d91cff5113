package design

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/geom"
)

// Database holds every open library.
type Database struct {
	mu        sync.RWMutex
	libraries map[string]*Library
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{libraries: make(map[string]*Library)}
}

// NewLibrary creates and registers an empty library.
func (db *Database) NewLibrary(name, technology string) error {
	return db.AddLibrary(NewLibrary(name, technology))
}

// AddLibrary registers a library, typically one returned by ReadLibrary.
func (db *Database) AddLibrary(lib *Library) error {
	if lib == nil || lib.Name == "" {
		return fmt.Errorf("%w: library needs a name", ErrInvalid)
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.libraries[lib.Name]; ok {
		return fmt.Errorf("%w: library %s", ErrExists, lib.Name)
	}
	if lib.cells == nil {
		lib.cells = make(map[string]*Cell)
	}
	db.libraries[lib.Name] = lib
	return nil
}

// Libraries returns the sorted library names.
func (db *Database) Libraries() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.libraries))
	for name := range db.libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Library returns a snapshot of the named library. Later changes to the
// database are not visible through it.
func (db *Database) Library(name string) (*Library, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	lib, ok := db.libraries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchLibrary, name)
	}
	return lib.snapshot(), nil
}

// Cell returns the committed cell.
func (db *Database) Cell(ref CellRef) (*Cell, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.lookupCell(ref)
}

// Node returns a committed node.
func (db *Database) Node(ref NodeRef) (*NodeInst, error) {
	cell, err := db.Cell(ref.Cell)
	if err != nil {
		return nil, err
	}
	n, ok := cell.Node(ref.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchNode, ref)
	}
	return n, nil
}

func (db *Database) lookupCell(ref CellRef) (*Cell, error) {
	lib, ok := db.libraries[ref.Library]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchLibrary, ref.Library)
	}
	cell, ok := lib.cells[ref.Cell]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchCell, ref)
	}
	return cell, nil
}

// Apply runs fn as one change batch. Cells touched through tx are copied
// on first use; when fn returns nil the copies replace the committed cells,
// otherwise they are discarded and the database is left as it was.
func (db *Database) Apply(fn func(tx *Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := &Tx{db: db, staged: make(map[CellRef]*Cell)}
	if err := fn(tx); err != nil {
		return err
	}

	for ref, cell := range tx.staged {
		db.libraries[ref.Library].cells[ref.Cell] = cell
	}
	return nil
}

// Tx is a change batch in progress. It is only valid inside Apply.
type Tx struct {
	db     *Database
	staged map[CellRef]*Cell
}

// Cell returns the staged copy of a cell, copying it on first access.
func (tx *Tx) Cell(ref CellRef) (*Cell, error) {
	if c, ok := tx.staged[ref]; ok {
		return c, nil
	}
	committed, err := tx.db.lookupCell(ref)
	if err != nil {
		return nil, err
	}
	c := committed.clone()
	tx.staged[ref] = c
	return c, nil
}

// NewCell creates an empty cell.
func (tx *Tx) NewCell(ref CellRef) (*Cell, error) {
	if ref.Cell == "" {
		return nil, fmt.Errorf("%w: cell needs a name", ErrInvalid)
	}
	lib, ok := tx.db.libraries[ref.Library]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchLibrary, ref.Library)
	}
	if _, ok := tx.staged[ref]; ok {
		return nil, fmt.Errorf("%w: cell %s", ErrExists, ref)
	}
	if _, ok := lib.cells[ref.Cell]; ok {
		return nil, fmt.Errorf("%w: cell %s", ErrExists, ref)
	}
	c := NewCell(ref.Cell)
	tx.staged[ref] = c
	return c, nil
}

// EnsureCell returns the cell, creating it when the library has none by that name.
func (tx *Tx) EnsureCell(ref CellRef) (*Cell, error) {
	c, err := tx.Cell(ref)
	if err == nil {
		return c, nil
	}
	if _, ok := tx.db.libraries[ref.Library]; !ok {
		return nil, err
	}
	return tx.NewCell(ref)
}

// CreatePrimitiveInstance places a primitive node of the given kind centered
// at center with the given nominal size.
func (tx *Tx) CreatePrimitiveInstance(kind, layer string, center geom.Position, width, height float64, ref CellRef) (*NodeInst, error) {
	if kind == "" {
		return nil, fmt.Errorf("%w: primitive kind is empty", ErrInvalid)
	}
	if width < 0 || height < 0 || math.IsNaN(width) || math.IsNaN(height) {
		return nil, fmt.Errorf("%w: size %gx%g", ErrInvalid, width, height)
	}
	cell, err := tx.Cell(ref)
	if err != nil {
		return nil, err
	}

	n := &NodeInst{
		Kind:   kind,
		Layer:  layer,
		Center: center,
		Size:   geom.Size{Width: width, Height: height},
	}
	if err := cell.AddNode(n); err != nil {
		return nil, err
	}
	n.Name = fmt.Sprintf("%s@%d", kind, n.ID)
	return n, nil
}

// SetOutline replaces the trace of a node.
func (tx *Tx) SetOutline(ref NodeRef, points []geom.Position) error {
	cell, err := tx.Cell(ref.Cell)
	if err != nil {
		return err
	}
	n, ok := cell.Node(ref.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchNode, ref)
	}
	n.Trace = append([]geom.Position(nil), points...)
	return nil
}
