package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// WorkspaceID identifies a workspace.
type WorkspaceID uuid.UUID

// NewWorkspaceID returns a new random workspace ID.
func NewWorkspaceID() WorkspaceID { return WorkspaceID(uuid.New()) }

// ParseWorkspaceID parses the canonical string form of a workspace ID.
func ParseWorkspaceID(s string) (WorkspaceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WorkspaceID{}, fmt.Errorf("invalid workspace id %q: %w", s, ErrNotValid)
	}
	return WorkspaceID(id), nil
}

func (w WorkspaceID) String() string { return uuid.UUID(w).String() }

// IsZero reports whether the ID was never set.
func (w WorkspaceID) IsZero() bool { return uuid.UUID(w) == uuid.Nil }

// Workspace is the logical identity a worktree belongs to.
// It is a value, updates are done by copying.
type Workspace struct {
	ID      WorkspaceID
	Name    string
	Comment string
	Deleted bool
}

// NewWorkspace returns a workspace with a fresh random ID.
func NewWorkspace(name string) Workspace {
	return Workspace{ID: NewWorkspaceID(), Name: name}
}

// Validate validates the workspace.
func (w Workspace) Validate() error {
	if w.ID.IsZero() {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if w.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	return nil
}

// WorkspaceFindRequest filters workspaces, nil fields match everything.
type WorkspaceFindRequest struct {
	ID      *WorkspaceID
	Name    *string
	Deleted *bool
	// Comment matches workspaces whose comment contains it.
	Comment *string
}

// Match reports whether the workspace satisfies every set filter.
func (r WorkspaceFindRequest) Match(w Workspace) bool {
	if r.ID != nil && *r.ID != w.ID {
		return false
	}
	if r.Name != nil && *r.Name != w.Name {
		return false
	}
	if r.Deleted != nil && *r.Deleted != w.Deleted {
		return false
	}
	if r.Comment != nil && !strings.Contains(w.Comment, *r.Comment) {
		return false
	}
	return true
}
