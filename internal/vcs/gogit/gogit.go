// Package gogit is the go-git backed version control backend.
package gogit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/vcs"
)

// BackendConfig is the configuration for the Backend.
type BackendConfig struct {
	Init   InitConfig
	Logger log.Logger
}

func (c *BackendConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "gogit.Backend"})

	return nil
}

// Backend implements vcs.Backend with go-git.
type Backend struct {
	logger log.Logger
}

var _ vcs.Backend = &Backend{}

// NewBackend returns a new Backend, git is initialized before it's returned.
func NewBackend(cfg BackendConfig) (*Backend, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := Initialize(cfg.Init); err != nil {
		return nil, fmt.Errorf("could not initialize git: %w", err)
	}

	return &Backend{logger: cfg.Logger}, nil
}

// Clone clones url into dest and checks out the default branch.
func (b *Backend) Clone(ctx context.Context, url, dest string, fn vcs.TransferFunc) (vcs.Repository, error) {
	b.logger.WithCtxValues(ctx).Debugf("Cloning %s into %s", url, dest)

	pw := newProgressWriter(fn)
	repo, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:      url,
		Progress: pw,
	})
	if err != nil {
		return nil, fmt.Errorf("could not clone repository: %w", err)
	}

	r := &repository{repo: repo, logger: b.logger}
	steps, err := r.headFileCount()
	if err != nil {
		// Empty repositories have no HEAD commit.
		steps = 0
	}
	pw.complete(steps)

	return r, nil
}

// Open opens the repository at path.
func (b *Backend) Open(path string) (vcs.Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("could not open repository: %w", err)
	}

	return &repository{repo: repo, logger: b.logger}, nil
}

type repository struct {
	repo   *gogit.Repository
	logger log.Logger
}

func (r *repository) Fetch(ctx context.Context, remote string, fn vcs.TransferFunc) error {
	pw := newProgressWriter(fn)
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remote,
		Progress:   pw,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("could not fetch %q: %w", remote, err)
	}
	pw.complete(0)

	return nil
}

func (r *repository) Checkout(ctx context.Context, refspec string, fn vcs.CheckoutFunc) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("could not get worktree: %w", err)
	}

	plan, err := r.resolveCheckout(refspec)
	if err != nil {
		return err
	}

	steps, err := r.fileCount(plan.target)
	if err != nil {
		return err
	}
	report(fn, 0, steps)

	if err := ctx.Err(); err != nil {
		return err
	}
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("could not get HEAD: %w", err)
	}
	if err := wt.Checkout(plan.opts); err != nil {
		// go-git moves HEAD and creates the branch before refusing to
		// overwrite local changes.
		_ = r.repo.Storer.SetReference(head)
		if plan.track != nil {
			_ = r.repo.Storer.RemoveReference(plan.opts.Branch)
		}
		return fmt.Errorf("could not checkout %q: %w", refspec, err)
	}
	if plan.track != nil {
		err := r.repo.CreateBranch(plan.track)
		if err != nil && !errors.Is(err, gogit.ErrBranchExists) {
			return fmt.Errorf("could not create tracking branch %q: %w", plan.track.Name, err)
		}
	}
	report(fn, steps, steps)

	return nil
}

// checkoutPlan is a resolved checkout. track is the branch config written
// once the checkout of a new tracking branch succeeds.
type checkoutPlan struct {
	opts   *gogit.CheckoutOptions
	target plumbing.Hash
	track  *config.Branch
}

// resolveCheckout resolves refspec the way git does: local branch, remote
// branch (creating the local tracking branch), then any revision.
func (r *repository) resolveCheckout(refspec string) (*checkoutPlan, error) {
	local := plumbing.NewBranchReferenceName(refspec)
	if ref, err := r.repo.Reference(local, true); err == nil {
		return &checkoutPlan{opts: &gogit.CheckoutOptions{Branch: local}, target: ref.Hash()}, nil
	}

	remoteRef := plumbing.ReferenceName("refs/remotes/" + refspec)
	if ref, err := r.repo.Reference(remoteRef, true); err == nil {
		remote, branch, ok := strings.Cut(refspec, "/")
		if ok && branch != "" && branch != "HEAD" {
			return r.trackingPlan(remote, branch, ref.Hash()), nil
		}
	}

	if ref, err := r.repo.Reference(plumbing.NewTagReferenceName(refspec), true); err == nil {
		hash, err := r.peel(ref.Hash())
		if err != nil {
			return nil, err
		}
		return &checkoutPlan{opts: &gogit.CheckoutOptions{Hash: hash}, target: hash}, nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(refspec))
	if err != nil {
		return nil, fmt.Errorf("could not resolve %q: %w", refspec, err)
	}

	return &checkoutPlan{opts: &gogit.CheckoutOptions{Hash: *hash}, target: *hash}, nil
}

// peel returns the commit of a lightweight or annotated tag.
func (r *repository) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	if _, err := r.repo.CommitObject(hash); err == nil {
		return hash, nil
	}
	tag, err := r.repo.TagObject(hash)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("could not get tag %s: %w", hash, err)
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("could not get commit of tag %s: %w", tag.Name, err)
	}
	return commit.Hash, nil
}

// trackingPlan checks out the local branch of a remote branch. An existing
// local branch is used as it is.
func (r *repository) trackingPlan(remote, branch string, hash plumbing.Hash) *checkoutPlan {
	local := plumbing.NewBranchReferenceName(branch)
	if _, err := r.repo.Reference(local, true); err == nil {
		return &checkoutPlan{opts: &gogit.CheckoutOptions{Branch: local}, target: hash}
	}

	return &checkoutPlan{
		opts:   &gogit.CheckoutOptions{Branch: local, Hash: hash, Create: true},
		target: hash,
		track:  &config.Branch{Name: branch, Remote: remote, Merge: local},
	}
}

func (r *repository) Reset(ctx context.Context, kind vcs.ResetKind, fn vcs.CheckoutFunc) error {
	var mode gogit.ResetMode
	switch kind {
	case vcs.ResetSoft:
		mode = gogit.SoftReset
	case vcs.ResetMixed:
		mode = gogit.MixedReset
	case vcs.ResetHard:
		mode = gogit.HardReset
	default:
		return fmt.Errorf("unknown reset kind %d", kind)
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("could not get HEAD: %w", err)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("could not get worktree: %w", err)
	}

	steps, err := r.fileCount(head.Hash())
	if err != nil {
		return err
	}
	report(fn, 0, steps)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: head.Hash(), Mode: mode}); err != nil {
		return fmt.Errorf("could not %s reset: %w", kind, err)
	}
	report(fn, steps, steps)

	return nil
}

func (r *repository) Log(ctx context.Context, fn func(vcs.Commit) bool) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("could not get HEAD: %w", err)
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash(), Order: gogit.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("could not get log: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(toCommit(c)) {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not walk log: %w", err)
	}

	return nil
}

func (r *repository) HeadName() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("could not get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

func (r *repository) LocalBranchNames() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("could not get branches: %w", err)
	}
	return refNames(iter)
}

func (r *repository) RemoteBranchNames() ([]string, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("could not get references: %w", err)
	}
	remotes := storer.NewReferenceFilteredIter(func(ref *plumbing.Reference) bool {
		return ref.Name().IsRemote() && ref.Type() == plumbing.HashReference
	}, iter)
	return refNames(remotes)
}

func (r *repository) TagNames() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("could not get tags: %w", err)
	}
	return refNames(iter)
}

func (r *repository) Remotes() ([]vcs.Remote, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("could not get remotes: %w", err)
	}

	res := make([]vcs.Remote, 0, len(remotes))
	for _, rm := range remotes {
		cfg := rm.Config()
		remote := vcs.Remote{Name: cfg.Name}
		if len(cfg.URLs) > 0 {
			remote.FetchURL = cfg.URLs[0]
		}
		res = append(res, remote)
	}

	return res, nil
}

func (r *repository) headFileCount() (int64, error) {
	head, err := r.repo.Head()
	if err != nil {
		return 0, err
	}
	return r.fileCount(head.Hash())
}

// fileCount is the number of files checked out for a commit, the checkout
// step total.
func (r *repository) fileCount(hash plumbing.Hash) (int64, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return 0, fmt.Errorf("could not get commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return 0, fmt.Errorf("could not get tree of %s: %w", hash, err)
	}

	var n int64
	err = tree.Files().ForEach(func(*object.File) error {
		n++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("could not walk tree of %s: %w", hash, err)
	}

	return n, nil
}

func report(fn vcs.CheckoutFunc, completed, total int64) {
	if fn != nil {
		fn(vcs.CheckoutProgress{TotalSteps: total, CompletedSteps: completed})
	}
}

func refNames(iter storer.ReferenceIter) ([]string, error) {
	defer iter.Close()

	var names []string
	err := iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not iterate references: %w", err)
	}

	return names, nil
}

func toCommit(c *object.Commit) vcs.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return vcs.Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       vcs.Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    vcs.Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}
