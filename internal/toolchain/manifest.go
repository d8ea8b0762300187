package toolchain

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/sh4/zabuton/internal/model"
)

// Manifest is the declarative symlink map bundled with the toolchain.
type Manifest struct {
	Files []SymlinkEntry `json:"files"`
}

// SymlinkEntry links Target to Src, both relative to the install root.
type SymlinkEntry struct {
	Src    string `json:"src"`
	Target string `json:"target"`
}

// ParseManifest parses a symlink manifest. Comments and trailing commas are
// accepted.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("could not parse symlink manifest: %w: %w", err, model.ErrNotValid)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate validates the manifest.
func (m Manifest) Validate() error {
	for i, f := range m.Files {
		if f.Src == "" || f.Target == "" {
			return fmt.Errorf("entry %d: src and target are required: %w", i, model.ErrNotValid)
		}
		if !filepath.IsLocal(filepath.FromSlash(f.Src)) {
			return fmt.Errorf("entry %d: src %q escapes the install root: %w", i, f.Src, model.ErrNotValid)
		}
		if !filepath.IsLocal(filepath.FromSlash(f.Target)) {
			return fmt.Errorf("entry %d: target %q escapes the install root: %w", i, f.Target, model.ErrNotValid)
		}
	}
	return nil
}
