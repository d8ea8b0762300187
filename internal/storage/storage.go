package storage

import (
	"context"

	"github.com/sh4/zabuton/internal/model"
)

// WorkspaceRepository is the interface for workspace persistence.
type WorkspaceRepository interface {
	// SaveWorkspace creates or replaces the workspace with the same ID.
	SaveWorkspace(ctx context.Context, w model.Workspace) error
	GetWorkspace(ctx context.Context, id model.WorkspaceID) (*model.Workspace, error)
	FindWorkspaces(ctx context.Context, req model.WorkspaceFindRequest) ([]model.Workspace, error)
	DeleteWorkspace(ctx context.Context, id model.WorkspaceID) error
}

// WorktreeRepository is the interface for worktree registrations, a
// workspace has at most one worktree.
type WorktreeRepository interface {
	RegisterWorktree(ctx context.Context, r model.WorktreeRecord) error
	GetWorktree(ctx context.Context, workspace model.WorkspaceID) (*model.WorktreeRecord, error)
	ListWorktrees(ctx context.Context) ([]model.WorktreeRecord, error)
	UnregisterWorktree(ctx context.Context, workspace model.WorkspaceID) error
}

// SettingsRepository loads the application settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context, path string) (model.Settings, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name WorkspaceRepository --structname MockWorkspaceRepository --filename workspace_repository.go
//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name WorktreeRepository --structname MockWorktreeRepository --filename worktree_repository.go
