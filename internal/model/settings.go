package model

import (
	"fmt"
	"time"
)

// Settings is the application configuration.
type Settings struct {
	// DataDir holds the toolchain root, worktrees and caches.
	DataDir string
	// ToolchainBundleDir holds the bundled toolchain archive and symlink manifest.
	ToolchainBundleDir string
	// ExtractWorkers is the parallel extraction level, 0 means hardware concurrency minus one.
	ExtractWorkers int
	// GitCABundle is an optional PEM root certificate bundle used for git over https.
	GitCABundle string
	// DownloadTimeout bounds a single archive download, 0 means no timeout.
	DownloadTimeout time.Duration
}

// Validate validates the settings.
func (s Settings) Validate() error {
	if s.ExtractWorkers < 0 {
		return fmt.Errorf("extract workers must be >= 0, got: %d: %w", s.ExtractWorkers, ErrNotValid)
	}
	if s.DownloadTimeout < 0 {
		return fmt.Errorf("download timeout must be >= 0, got: %s: %w", s.DownloadTimeout, ErrNotValid)
	}
	return nil
}
