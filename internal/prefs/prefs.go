// Package prefs remembers the last values used for generator parameters
// between runs.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Annulus holds the last used annulus parameters. Sweep is in degrees.
type Annulus struct {
	Inner    float64 `json:"inner"`
	Outer    float64 `json:"outer"`
	Segments int     `json:"segments"`
	Sweep    float64 `json:"sweep"`
	Layer    string  `json:"layer"`
}

// Prefs is the persisted preference file.
type Prefs struct {
	Technology string  `json:"technology,omitempty"`
	Annulus    Annulus `json:"annulus"`
}

// Defaults returns the values used before anything was saved.
func Defaults() *Prefs {
	return &Prefs{
		Technology: "mocmos",
		Annulus: Annulus{
			Inner:    0,
			Outer:    10,
			Segments: 32,
			Sweep:    360,
			Layer:    "Metal-1",
		},
	}
}

// DefaultPath returns the preference file location in the user config dir,
// e.g. ~/.config/otv/prefs.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: %w", err)
	}
	return filepath.Join(dir, "otv", "prefs.json"), nil
}

// Load reads preferences from path. A missing file yields Defaults.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}

	p := Defaults()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("prefs: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating its directory.
func Save(path string, p *Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
