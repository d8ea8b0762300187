package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/sh4/zabuton/internal/model"
)

// WorktreeDirRepository rebuilds worktree registrations from a worktrees
// directory laid out as <dir>/<workspace id>. Only the workspace ID survives
// on disk, it is also used as the workspace name.
type WorktreeDirRepository struct {
	fs   fs.FS
	root string
}

// NewWorktreeDirRepository creates a new worktree directory repository,
// root is the OS path filesystem is rooted at.
func NewWorktreeDirRepository(filesystem fs.FS, root string) *WorktreeDirRepository {
	return &WorktreeDirRepository{fs: filesystem, root: root}
}

// ListWorktrees returns a record for every workspace directory. Trees with a
// .git directory are git worktrees, the rest were extracted from archives.
func (r *WorktreeDirRepository) ListWorktrees(ctx context.Context) ([]model.WorktreeRecord, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return []model.WorktreeRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading worktrees directory: %w", err)
	}

	recs := []model.WorktreeRecord{}
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !e.IsDir() {
			continue
		}
		id, err := model.ParseWorkspaceID(e.Name())
		if err != nil {
			continue
		}

		kind := model.WorktreeKindZipFile
		if info, err := fs.Stat(r.fs, path.Join(e.Name(), ".git")); err == nil && info.IsDir() {
			kind = model.WorktreeKindGit
		}

		recs = append(recs, model.WorktreeRecord{
			Kind:      kind,
			Workspace: model.Workspace{ID: id, Name: id.String()},
			Root:      filepath.Join(r.root, e.Name()),
		})
	}

	return recs, nil
}
