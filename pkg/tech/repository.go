package tech

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Repository knows how to look up technologies by name.
type Repository interface {
	Lookup(name string) (*Technology, error)
}

//go:embed builtin/*.tech
var builtinFS embed.FS

// MemoryRepository is an in-memory set of technologies keyed by name.
type MemoryRepository struct {
	mu    sync.RWMutex
	techs map[string]*Technology
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{techs: make(map[string]*Technology)}
}

// DefaultRepository returns a repository preloaded with the built-in technologies.
func DefaultRepository() (*MemoryRepository, error) {
	r := NewMemoryRepository()
	if err := r.loadFS(builtinFS, "builtin"); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers a technology. Names are unique.
func (r *MemoryRepository) Add(t *Technology) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.techs[t.Name]; ok {
		return fmt.Errorf("tech: technology %s already registered", t.Name)
	}
	r.techs[t.Name] = t
	return nil
}

// AddFile validates and registers every technology in a parsed file.
func (r *MemoryRepository) AddFile(file *File) error {
	if file == nil {
		return fmt.Errorf("tech: invalid technology file")
	}
	for _, decl := range file.Technologies {
		t, err := NewTechnology(decl)
		if err != nil {
			return err
		}
		if err := r.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements the Repository interface.
func (r *MemoryRepository) Lookup(name string) (*Technology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.techs[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTechnology, name)
}

// Resolution returns the manufacturing grid of the named technology.
func (r *MemoryRepository) Resolution(name string) (float64, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return t.Resolution()
}

// Names returns the sorted technology names.
func (r *MemoryRepository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.techs))
	for name := range r.techs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFiles adds the technologies declared in each path.
func (r *MemoryRepository) LoadFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	parser, err := NewParser()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := r.load(parser, path, func() (io.ReadCloser, error) { return os.Open(path) }); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir adds every .tech file below root.
func (r *MemoryRepository) LoadDir(root string) error {
	return r.loadFS(os.DirFS(root), ".")
}

func (r *MemoryRepository) loadFS(fsys fs.FS, root string) error {
	parser, err := NewParser()
	if err != nil {
		return err
	}
	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".tech"):
			return nil
		}
		return r.load(parser, path, func() (io.ReadCloser, error) { return fsys.Open(path) })
	})
}

func (r *MemoryRepository) load(parser *Parser, name string, open func() (io.ReadCloser, error)) error {
	f, err := open()
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := parser.Parse(name, f)
	if err != nil {
		return fmt.Errorf("tech: %w", err)
	}
	if err := r.AddFile(file); err != nil {
		return fmt.Errorf("tech: add %s: %w", name, err)
	}
	return nil
}
