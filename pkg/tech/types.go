// Package tech describes fabrication technologies: their manufacturing grid
// (resolution), unit scale and the pure-layer primitive nodes that layout
// generators place.
//
// Technologies are declared in a small text format:
//
//	# MOSIS scalable CMOS
//	technology mocmos "MOSIS CMOS" {
//	    scale 200;          # nanometers per lambda
//	    resolution 0.5;     # manufacturing grid in lambda
//	    layer Metal-1 pure "Metal-1-Node";
//	    layer Via1;
//	}
package tech

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownTechnology is returned when a lookup names no known technology.
	ErrUnknownTechnology = errors.New("tech: unknown technology")
	// ErrNoResolution is returned when a technology declares no manufacturing grid.
	ErrNoResolution = errors.New("tech: technology has no resolution")
	// ErrUnknownLayer is returned when a layer has no pure-layer node.
	ErrUnknownLayer = errors.New("tech: unknown layer")
)

// Layer is a fabrication layer of a technology.
type Layer struct {
	Name     string
	PureNode string // Primitive node drawing pure geometry on this layer, "" if none
}

// Technology is a validated technology description.
type Technology struct {
	Name        string
	Description string

	scale      float64
	resolution float64
	layers     []Layer
}

// NewTechnology validates a parsed declaration.
func NewTechnology(decl *TechnologyDecl) (*Technology, error) {
	t := &Technology{
		Name:        decl.Name,
		Description: decl.Description,
	}

	seen := make(map[string]bool)
	for _, st := range decl.Statements {
		switch {
		case st.Scale != nil:
			if !positive(*st.Scale) {
				return nil, fmt.Errorf("tech %s: scale must be positive, got %g", t.Name, *st.Scale)
			}
			t.scale = *st.Scale
		case st.Resolution != nil:
			if !positive(*st.Resolution) {
				return nil, fmt.Errorf("tech %s: resolution must be positive, got %g", t.Name, *st.Resolution)
			}
			t.resolution = *st.Resolution
		case st.Layer != nil:
			if seen[st.Layer.Name] {
				return nil, fmt.Errorf("tech %s: %s: layer %s declared twice", t.Name, st.Layer.Pos, st.Layer.Name)
			}
			seen[st.Layer.Name] = true
			t.layers = append(t.layers, Layer{Name: st.Layer.Name, PureNode: st.Layer.PureNode})
		}
	}

	return t, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Resolution returns the manufacturing grid in lambda units.
func (t *Technology) Resolution() (float64, error) {
	if t.resolution == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoResolution, t.Name)
	}
	return t.resolution, nil
}

// Scale returns nanometers per lambda unit, or 0 when undeclared.
func (t *Technology) Scale() float64 {
	return t.scale
}

// Layers returns the declared layers in declaration order.
func (t *Technology) Layers() []Layer {
	return append([]Layer(nil), t.layers...)
}

// PureLayerNode returns the pure-layer primitive node for a layer.
func (t *Technology) PureLayerNode(layer string) (string, error) {
	for _, l := range t.layers {
		if l.Name != layer {
			continue
		}
		if l.PureNode == "" {
			return "", fmt.Errorf("%w: %s has no pure-layer node in %s", ErrUnknownLayer, layer, t.Name)
		}
		return l.PureNode, nil
	}
	return "", fmt.Errorf("%w: %s in %s", ErrUnknownLayer, layer, t.Name)
}
