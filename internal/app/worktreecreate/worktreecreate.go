package worktreecreate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/storage"
	"github.com/sh4/zabuton/internal/worktree"
)

// ZipFileCreator creates zip file worktrees.
type ZipFileCreator interface {
	Create(ctx context.Context, req worktree.ZipFileRequest) (*worktree.ZipFileWorktree, error)
}

// GitCloner creates git worktrees.
type GitCloner interface {
	Clone(ctx context.Context, req worktree.GitCloneRequest) (*worktree.GitWorktree, error)
}

// ServiceConfig is the configuration for the worktree create service.
type ServiceConfig struct {
	ZipFiles   ZipFileCreator
	Git        GitCloner
	Workspaces storage.WorkspaceRepository
	Worktrees  storage.WorktreeRepository
	// Parent is where worktree roots are created when the request doesn't set one.
	Parent string
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.ZipFiles == nil {
		return fmt.Errorf("zip file creator is required")
	}
	if c.Git == nil {
		return fmt.Errorf("git cloner is required")
	}
	if c.Workspaces == nil {
		return fmt.Errorf("workspace repository is required")
	}
	if c.Worktrees == nil {
		return fmt.Errorf("worktree repository is required")
	}
	if c.Parent == "" {
		return fmt.Errorf("parent directory is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.WorktreeCreate"})

	return nil
}

// Service creates worktrees and registers them.
type Service struct {
	zipFiles   ZipFileCreator
	git        GitCloner
	workspaces storage.WorkspaceRepository
	worktrees  storage.WorktreeRepository
	parent     string
	logger     log.Logger
}

// NewService creates a new worktree create service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		zipFiles:   cfg.ZipFiles,
		git:        cfg.Git,
		workspaces: cfg.Workspaces,
		worktrees:  cfg.Worktrees,
		parent:     cfg.Parent,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the create request parameters.
type Request struct {
	Workspace model.Workspace
	Kind      model.WorktreeKind
	// Source is the archive URL, the repository URL or the directory path
	// depending on Kind.
	Source string
	// Parent overrides the configured parent directory.
	Parent   string
	Consumer progress.Consumer
}

func (r Request) validate() error {
	if err := r.Workspace.Validate(); err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}
	if _, err := model.ParseWorktreeKind(string(r.Kind)); err != nil {
		return err
	}
	if r.Source == "" {
		return fmt.Errorf("source is required: %w", model.ErrNotValid)
	}
	return nil
}

// Run creates the worktree of the workspace, saves the workspace and
// registers the worktree. A workspace has at most one worktree.
func (s *Service) Run(ctx context.Context, req Request) (worktree.Worktree, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	_, err := s.worktrees.GetWorktree(ctx, req.Workspace.ID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("worktree for workspace %s: %w", req.Workspace.ID, model.ErrAlreadyExists)
	case !errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("could not get worktree: %w", err)
	}

	parent := req.Parent
	if parent == "" {
		parent = s.parent
	}
	opts := worktree.ProgressOptions{Consumer: req.Consumer}

	var wt worktree.Worktree
	switch req.Kind {
	case model.WorktreeKindDirectory:
		wt, err = s.directory(req)
	case model.WorktreeKindZipFile:
		wt, err = s.zipFiles.Create(ctx, worktree.ZipFileRequest{
			Workspace:       req.Workspace,
			Parent:          parent,
			URL:             req.Source,
			ProgressOptions: opts,
		})
	case model.WorktreeKindGit:
		wt, err = s.git.Clone(ctx, worktree.GitCloneRequest{
			Workspace:       req.Workspace,
			Parent:          parent,
			URL:             req.Source,
			ProgressOptions: opts,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s worktree: %w", req.Kind, err)
	}

	if err := s.register(ctx, wt); err != nil {
		// Directory worktrees are not ours to remove.
		if wt.Kind() != model.WorktreeKindDirectory {
			if derr := wt.DeletePermanently(context.WithoutCancel(ctx)); derr != nil {
				s.logger.Errorf("Could not clean up unregistered worktree %s: %s", wt.Root(), derr)
			}
		}
		return nil, err
	}

	s.logger.WithCtxValues(ctx).Infof("Created %s worktree for workspace %s at %s", wt.Kind(), req.Workspace.Name, wt.Root())
	return wt, nil
}

func (s *Service) directory(req Request) (worktree.Worktree, error) {
	root, err := filepath.Abs(req.Source)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %q: %w", req.Source, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("directory %q: %w: %w", root, err, model.ErrNotValid)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory: %w", root, model.ErrNotValid)
	}

	return worktree.NewDirectoryWorktree(req.Workspace, root), nil
}

func (s *Service) register(ctx context.Context, wt worktree.Worktree) error {
	if err := s.workspaces.SaveWorkspace(ctx, wt.Workspace()); err != nil {
		return fmt.Errorf("could not save workspace: %w", err)
	}
	if err := s.worktrees.RegisterWorktree(ctx, wt.Record()); err != nil {
		return fmt.Errorf("could not register worktree: %w", err)
	}
	return nil
}
