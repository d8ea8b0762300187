package worktreeremove

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/storage"
	"github.com/sh4/zabuton/internal/worktree"
)

// ServiceConfig is the configuration for the worktree remove service.
type ServiceConfig struct {
	Repository storage.WorktreeRepository
	// GitFactory opens git worktrees, without it they are removed as plain directories.
	GitFactory *worktree.GitFactory
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.WorktreeRemove"})

	return nil
}

// Service removes registered worktrees.
type Service struct {
	repo   storage.WorktreeRepository
	git    *worktree.GitFactory
	logger log.Logger
}

// NewService creates a new worktree remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		git:    cfg.GitFactory,
		logger: cfg.Logger,
	}, nil
}

// Request represents the remove request parameters.
type Request struct {
	WorkspaceID model.WorkspaceID
}

// Run deletes the worktree of the workspace from disk and unregisters it.
// A root that is already gone is only unregistered.
func (s *Service) Run(ctx context.Context, req Request) (*model.WorktreeRecord, error) {
	logger := s.logger.WithCtxValues(ctx).WithValues(log.Kv{"workspace": req.WorkspaceID.String()})

	rec, err := s.repo.GetWorktree(ctx, req.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("could not get worktree: %w", err)
	}

	_, err = os.Lstat(rec.Root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warningf("Worktree root %s is already gone", rec.Root)
	case err != nil:
		return nil, fmt.Errorf("could not stat worktree root: %w", err)
	default:
		if err := s.deleteTree(ctx, *rec); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UnregisterWorktree(ctx, req.WorkspaceID); err != nil {
		return nil, fmt.Errorf("could not unregister worktree: %w", err)
	}

	logger.Infof("Removed %s worktree %s", rec.Kind, rec.Root)
	return rec, nil
}

func (s *Service) deleteTree(ctx context.Context, rec model.WorktreeRecord) error {
	// Removal only needs the root, a missing git factory shouldn't block it.
	if rec.Kind == model.WorktreeKindGit && s.git == nil {
		rec.Kind = model.WorktreeKindDirectory
	}

	wt, err := worktree.FromRecord(rec, s.git)
	if err != nil {
		return fmt.Errorf("could not open worktree: %w", err)
	}
	if err := wt.DeletePermanently(ctx); err != nil {
		return fmt.Errorf("could not delete worktree: %w", err)
	}

	return nil
}
