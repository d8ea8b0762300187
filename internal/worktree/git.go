package worktree

import (
	"context"
	"fmt"
	"os"

	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/vcs"
)

// GitFactoryConfig is the configuration for the GitFactory.
type GitFactoryConfig struct {
	Backend vcs.Backend
	Logger  log.Logger
}

func (c *GitFactoryConfig) defaults() error {
	if c.Backend == nil {
		return fmt.Errorf("git backend is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "worktree.GitFactory"})

	return nil
}

// GitFactory creates git worktrees.
type GitFactory struct {
	backend vcs.Backend
	logger  log.Logger
}

// NewGitFactory returns a new GitFactory.
func NewGitFactory(cfg GitFactoryConfig) (*GitFactory, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &GitFactory{
		backend: cfg.Backend,
		logger:  cfg.Logger,
	}, nil
}

// GitCloneRequest is the git worktree creation request.
type GitCloneRequest struct {
	Workspace model.Workspace
	// Parent is the directory the worktree root is created in.
	Parent string
	URL    string
	ProgressOptions
}

// Clone clones the repository into <parent>/<workspace id> reporting one
// CloneRepository stage on the ProgressScale.
func (f *GitFactory) Clone(ctx context.Context, req GitCloneRequest) (_ *GitWorktree, err error) {
	if err := req.Workspace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace: %w", err)
	}
	if req.Parent == "" {
		return nil, fmt.Errorf("parent directory is required: %w", model.ErrNotValid)
	}
	if req.URL == "" {
		return nil, fmt.Errorf("repository url is required: %w", model.ErrNotValid)
	}

	root := conventions.WorktreePath(req.Parent, req.Workspace.ID.String())
	if err := ensureFreeRoot(root); err != nil {
		return nil, err
	}

	pc, release := progress.Attach(ctx, req.Progress, req.Consumer)
	defer func() { release(err) }()

	unit := pc.Next(progress.KindCloneRepository, ProgressScale)
	tracker := newTransferTracker(unit, CloneFraction)
	repo, err := f.backend.Clone(ctx, req.URL, root, tracker.report)
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}
	unit.Finish()

	f.logger.WithCtxValues(ctx).Infof("Git worktree cloned from %s at %s", req.URL, root)

	return newGitWorktree(req.Workspace, root, req.URL, repo, f.logger), nil
}

// Open wraps an existing checkout.
func (f *GitFactory) Open(workspace model.Workspace, root, source string) (*GitWorktree, error) {
	repo, err := f.backend.Open(root)
	if err != nil {
		return nil, err
	}
	return newGitWorktree(workspace, root, source, repo, f.logger), nil
}

// GitWorktree is a tree backed by a git repository.
type GitWorktree struct {
	workspace model.Workspace
	root      string
	source    string
	repo      vcs.Repository
	logger    log.Logger
}

var _ Worktree = &GitWorktree{}

func newGitWorktree(workspace model.Workspace, root, source string, repo vcs.Repository, logger log.Logger) *GitWorktree {
	return &GitWorktree{
		workspace: workspace,
		root:      root,
		source:    source,
		repo:      repo,
		logger:    logger.WithValues(log.Kv{"workspace": workspace.ID.String()}),
	}
}

func (g *GitWorktree) Kind() model.WorktreeKind   { return model.WorktreeKindGit }
func (g *GitWorktree) Workspace() model.Workspace { return g.workspace }
func (g *GitWorktree) Root() string               { return g.root }

func (g *GitWorktree) Record() model.WorktreeRecord {
	return model.WorktreeRecord{Kind: g.Kind(), Workspace: g.workspace, Root: g.root, Source: g.source}
}

func (g *GitWorktree) DeletePermanently(ctx context.Context) error {
	return removeRoot(ctx, g.root)
}

func (g *GitWorktree) HeadName() (string, error)            { return g.repo.HeadName() }
func (g *GitWorktree) TagNames() ([]string, error)          { return g.repo.TagNames() }
func (g *GitWorktree) LocalBranchNames() ([]string, error)  { return g.repo.LocalBranchNames() }
func (g *GitWorktree) RemoteBranchNames() ([]string, error) { return g.repo.RemoteBranchNames() }
func (g *GitWorktree) Remotes() ([]vcs.Remote, error)       { return g.repo.Remotes() }

// Fetch fetches remote reporting a FetchRepository stage.
func (g *GitWorktree) Fetch(ctx context.Context, remote string, opts ProgressOptions) (err error) {
	pc, release := progress.Attach(ctx, opts.Progress, opts.Consumer)
	defer func() { release(err) }()

	unit := pc.Next(progress.KindFetchRepository, ProgressScale)
	tracker := newTransferTracker(unit, FetchFraction)
	if err := g.repo.Fetch(ctx, remote, tracker.report); err != nil {
		return err
	}
	unit.Finish()

	return nil
}

// Checkout checks out refspec reporting a CheckoutRepository stage.
func (g *GitWorktree) Checkout(ctx context.Context, refspec string, opts ProgressOptions) (err error) {
	pc, release := progress.Attach(ctx, opts.Progress, opts.Consumer)
	defer func() { release(err) }()

	unit := pc.Next(progress.KindCheckoutRepository, ProgressScale)
	tracker := &checkoutTracker{unit: unit}
	if err := g.repo.Checkout(ctx, refspec, tracker.report); err != nil {
		return err
	}
	unit.Finish()
	g.logger.WithCtxValues(ctx).Debugf("Checked out %s", refspec)

	return nil
}

// Reset resets to HEAD reporting a ResetRepository stage.
func (g *GitWorktree) Reset(ctx context.Context, kind vcs.ResetKind, opts ProgressOptions) (err error) {
	pc, release := progress.Attach(ctx, opts.Progress, opts.Consumer)
	defer func() { release(err) }()

	unit := pc.Next(progress.KindResetRepository, ProgressScale)
	tracker := &checkoutTracker{unit: unit}
	if err := g.repo.Reset(ctx, kind, tracker.report); err != nil {
		return err
	}
	unit.Finish()

	return nil
}

// Log walks the history from HEAD until fn returns false.
func (g *GitWorktree) Log(ctx context.Context, fn func(vcs.Commit) bool) error {
	return g.repo.Log(ctx, fn)
}
