package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of the workspace and worktree
// repositories. Everything is lost when the process exits.
type Repository struct {
	workspaces map[model.WorkspaceID]model.Workspace
	worktrees  map[model.WorkspaceID]model.WorktreeRecord
	mu         sync.RWMutex
	logger     log.Logger
}

var (
	_ storage.WorkspaceRepository = &Repository{}
	_ storage.WorktreeRepository  = &Repository{}
)

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		workspaces: make(map[model.WorkspaceID]model.Workspace),
		worktrees:  make(map[model.WorkspaceID]model.WorktreeRecord),
		logger:     cfg.Logger,
	}, nil
}

// SaveWorkspace creates or replaces a workspace.
func (r *Repository) SaveWorkspace(ctx context.Context, w model.Workspace) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.workspaces[w.ID] = w
	r.logger.Debugf("Saved workspace in repository: %s", w.ID)

	return nil
}

// GetWorkspace retrieves a workspace by ID.
func (r *Repository) GetWorkspace(ctx context.Context, id model.WorkspaceID) (*model.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}

	return &w, nil
}

// FindWorkspaces returns the workspaces matching req sorted by name.
func (r *Repository) FindWorkspaces(ctx context.Context, req model.WorkspaceFindRequest) ([]model.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws := []model.Workspace{}
	for _, w := range r.workspaces {
		if req.Match(w) {
			ws = append(ws, w)
		}
	}
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Name != ws[j].Name {
			return ws[i].Name < ws[j].Name
		}
		return ws[i].ID.String() < ws[j].ID.String()
	})

	return ws, nil
}

// DeleteWorkspace deletes a workspace.
func (r *Repository) DeleteWorkspace(ctx context.Context, id model.WorkspaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, model.ErrNotFound)
	}

	delete(r.workspaces, id)
	r.logger.Debugf("Deleted workspace from repository: %s", id)

	return nil
}

// RegisterWorktree registers the worktree of a workspace.
func (r *Repository) RegisterWorktree(ctx context.Context, rec model.WorktreeRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid worktree: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.worktrees[rec.Workspace.ID]; ok {
		return fmt.Errorf("worktree for workspace %s: %w", rec.Workspace.ID, model.ErrAlreadyExists)
	}

	r.worktrees[rec.Workspace.ID] = rec
	r.logger.Debugf("Registered %s worktree in repository: %s", rec.Kind, rec.Root)

	return nil
}

// GetWorktree retrieves the worktree of a workspace.
func (r *Repository) GetWorktree(ctx context.Context, workspace model.WorkspaceID) (*model.WorktreeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.worktrees[workspace]
	if !ok {
		return nil, fmt.Errorf("worktree for workspace %s: %w", workspace, model.ErrNotFound)
	}

	return &rec, nil
}

// ListWorktrees returns all worktrees sorted by root.
func (r *Repository) ListWorktrees(ctx context.Context) ([]model.WorktreeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]model.WorktreeRecord, 0, len(r.worktrees))
	for _, rec := range r.worktrees {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Root < recs[j].Root })

	return recs, nil
}

// UnregisterWorktree removes the worktree registration of a workspace.
func (r *Repository) UnregisterWorktree(ctx context.Context, workspace model.WorkspaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.worktrees[workspace]; !ok {
		return fmt.Errorf("worktree for workspace %s: %w", workspace, model.ErrNotFound)
	}

	delete(r.worktrees, workspace)
	r.logger.Debugf("Unregistered worktree from repository: %s", workspace)

	return nil
}
