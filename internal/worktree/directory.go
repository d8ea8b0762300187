package worktree

import (
	"context"

	"github.com/sh4/zabuton/internal/model"
)

// DirectoryWorktree wraps an existing directory.
type DirectoryWorktree struct {
	workspace model.Workspace
	root      string
}

var _ Worktree = &DirectoryWorktree{}

// NewDirectoryWorktree returns a worktree for root, it has no side effects.
func NewDirectoryWorktree(workspace model.Workspace, root string) *DirectoryWorktree {
	return &DirectoryWorktree{workspace: workspace, root: root}
}

func (d *DirectoryWorktree) Kind() model.WorktreeKind   { return model.WorktreeKindDirectory }
func (d *DirectoryWorktree) Workspace() model.Workspace { return d.workspace }
func (d *DirectoryWorktree) Root() string               { return d.root }

func (d *DirectoryWorktree) Record() model.WorktreeRecord {
	return model.WorktreeRecord{Kind: d.Kind(), Workspace: d.workspace, Root: d.root}
}

func (d *DirectoryWorktree) DeletePermanently(ctx context.Context) error {
	return removeRoot(ctx, d.root)
}
