// Package prefs persists the few settings the desktop app remembers
// between runs.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "preferences.json"

// Prefs are the on-disk user preferences. Zero values mean unset; the
// window falls back to its own defaults.
type Prefs struct {
	LastDirectory string `json:"last_directory,omitempty"` // Directory of the last opened image
	Strategy      string `json:"strategy,omitempty"`       // Segmentation strategy name

	path string
}

// Load reads preferences from the user config dir. A missing or
// unreadable file yields empty preferences, never an error.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return loadFrom(filepath.Join(configDir, "rbc-analyzer", prefsFile))
}

func loadFrom(path string) *Prefs {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, p)
	return p
}

// Save writes preferences to disk, creating the config dir if needed.
func (p *Prefs) Save() error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
