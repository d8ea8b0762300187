package worktree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
)

// Worktree is a filesystem tree owned by a workspace. Nothing else writes
// inside the root while the worktree is live.
type Worktree interface {
	Kind() model.WorktreeKind
	Workspace() model.Workspace
	Root() string
	// Record returns the registration of the worktree.
	Record() model.WorktreeRecord
	// DeletePermanently removes the root from disk, it can't be undone.
	DeletePermanently(ctx context.Context) error
}

// ProgressOptions selects where an operation reports its progress. When
// Progress is missing a context owned by the operation is created for
// Consumer.
type ProgressOptions struct {
	Progress *progress.Context
	Consumer progress.Consumer
}

// FromRecord rebuilds a live worktree from its registration.
func FromRecord(r model.WorktreeRecord, git *GitFactory) (Worktree, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worktree record: %w", err)
	}

	switch r.Kind {
	case model.WorktreeKindDirectory:
		return NewDirectoryWorktree(r.Workspace, r.Root), nil
	case model.WorktreeKindZipFile:
		return &ZipFileWorktree{workspace: r.Workspace, root: r.Root, source: r.Source}, nil
	case model.WorktreeKindGit:
		if git == nil {
			return nil, fmt.Errorf("git worktrees need a git factory: %w", model.ErrNotValid)
		}
		return git.Open(r.Workspace, r.Root, r.Source)
	}

	return nil, fmt.Errorf("unknown worktree kind %q: %w", r.Kind, model.ErrNotValid)
}

func removeRoot(ctx context.Context, root string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("could not remove %q: %w", root, err)
	}
	return nil
}

// ensureFreeRoot fails when root already exists.
func ensureFreeRoot(root string) error {
	_, err := os.Lstat(root)
	switch {
	case err == nil:
		return fmt.Errorf("worktree root %q: %w", root, model.ErrAlreadyExists)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("could not stat worktree root %q: %w", root, err)
	}
}
