package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/sh4/zabuton/internal/app/worktreeremove"
	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/storage"
)

// WorktreeRemover deletes the registered worktree of a workspace.
type WorktreeRemover interface {
	Run(ctx context.Context, req worktreeremove.Request) (*model.WorktreeRecord, error)
}

// ServiceConfig is the configuration for the workspace service.
type ServiceConfig struct {
	Repository      storage.WorkspaceRepository
	WorktreeRemover WorktreeRemover
	Logger          log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.WorktreeRemover == nil {
		return fmt.Errorf("worktree remover is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Workspace"})

	return nil
}

// Service manages the workspace lifecycle. Deletion is soft until
// DeletePermanently is called on a deleted workspace.
type Service struct {
	repo     storage.WorkspaceRepository
	worktree WorktreeRemover
	logger   log.Logger
}

// NewService creates a new workspace service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:     cfg.Repository,
		worktree: cfg.WorktreeRemover,
		logger:   cfg.Logger,
	}, nil
}

// Save creates or replaces a workspace.
func (s *Service) Save(ctx context.Context, w model.Workspace) error {
	if err := s.repo.SaveWorkspace(ctx, w); err != nil {
		return fmt.Errorf("could not save workspace: %w", err)
	}
	return nil
}

// Find returns the workspace with id.
func (s *Service) Find(ctx context.Context, id model.WorkspaceID) (*model.Workspace, error) {
	w, err := s.repo.GetWorkspace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get workspace: %w", err)
	}
	return w, nil
}

// FindBy returns the workspaces matching req.
func (s *Service) FindBy(ctx context.Context, req model.WorkspaceFindRequest) ([]model.Workspace, error) {
	ws, err := s.repo.FindWorkspaces(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("could not find workspaces: %w", err)
	}
	return ws, nil
}

// Delete marks the workspace as deleted.
func (s *Service) Delete(ctx context.Context, id model.WorkspaceID) error {
	return s.setDeleted(ctx, id, true)
}

// Restore undoes a Delete.
func (s *Service) Restore(ctx context.Context, id model.WorkspaceID) error {
	return s.setDeleted(ctx, id, false)
}

func (s *Service) setDeleted(ctx context.Context, id model.WorkspaceID, deleted bool) error {
	w, err := s.Find(ctx, id)
	if err != nil {
		return err
	}

	w.Deleted = deleted
	if err := s.Save(ctx, *w); err != nil {
		return err
	}
	s.logger.WithCtxValues(ctx).Debugf("Workspace %s deleted flag set to %t", id, deleted)

	return nil
}

// DeletePermanently removes a deleted workspace and its worktree.
func (s *Service) DeletePermanently(ctx context.Context, id model.WorkspaceID) error {
	w, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if !w.Deleted {
		return fmt.Errorf("workspace %s: %w", id, model.ErrNotDeleted)
	}

	_, err = s.worktree.Run(ctx, worktreeremove.Request{WorkspaceID: id})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("could not remove worktree: %w", err)
	}

	if err := s.repo.DeleteWorkspace(ctx, id); err != nil {
		return fmt.Errorf("could not delete workspace: %w", err)
	}
	s.logger.WithCtxValues(ctx).Infof("Workspace %s (%s) deleted permanently", w.Name, id)

	return nil
}
