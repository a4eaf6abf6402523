package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FilePersistence keeps the selection in a small JSON file, so the
// site remembers its theme and language across restarts. Unreadable or
// unparseable content reads as "nothing stored".
type FilePersistence struct {
	path string
}

// NewFilePersistence stores the selection at path.
func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

// Load returns the stored selection, if any.
func (p *FilePersistence) Load() (State, bool) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return State{}, false
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, false
	}
	return s, true
}

// Save writes the selection, creating the parent directory as needed.
func (p *FilePersistence) Save(s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, b, 0o644)
}
