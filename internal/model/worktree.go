package model

import "fmt"

// WorktreeKind discriminates the worktree variants.
type WorktreeKind string

const (
	// WorktreeKindDirectory is a plain directory wrapper.
	WorktreeKindDirectory WorktreeKind = "directory"
	// WorktreeKindZipFile is a tree materialized from a zip archive.
	WorktreeKindZipFile WorktreeKind = "zipfile"
	// WorktreeKindGit is a tree materialized by a git clone.
	WorktreeKindGit WorktreeKind = "git"
)

// ParseWorktreeKind returns the kind for its string form.
func ParseWorktreeKind(s string) (WorktreeKind, error) {
	switch k := WorktreeKind(s); k {
	case WorktreeKindDirectory, WorktreeKindZipFile, WorktreeKindGit:
		return k, nil
	}
	return "", fmt.Errorf("unknown worktree kind %q: %w", s, ErrNotValid)
}

// WorktreeRecord is the registration of a live worktree. Kind selects the
// variant the record is rebuilt into.
type WorktreeRecord struct {
	Kind      WorktreeKind
	Workspace Workspace
	Root      string
	// Source is the URL the tree was materialized from, empty for directories.
	Source string
}

// Validate validates the record.
func (r WorktreeRecord) Validate() error {
	if _, err := ParseWorktreeKind(string(r.Kind)); err != nil {
		return err
	}
	if err := r.Workspace.Validate(); err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}
	if r.Root == "" {
		return fmt.Errorf("root is required: %w", ErrNotValid)
	}
	return nil
}
