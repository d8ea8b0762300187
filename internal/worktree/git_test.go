package worktree_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/vcs"
	"github.com/sh4/zabuton/internal/vcs/vcsmock"
	"github.com/sh4/zabuton/internal/worktree"
)

// sampler records the unit values seen by a polling consumer.
type sampler struct {
	values []int64
	aux    []any
	kinds  []progress.Kind
}

func (s *sampler) consumer() progress.Consumer {
	return progress.Poll(time.Millisecond, func(u *progress.Unit) {
		s.kinds = append(s.kinds, u.Kind())
		s.values = append(s.values, u.Current())
		s.aux = append(s.aux, u.Aux())
	})
}

func (s *sampler) assertMonotonic(t *testing.T) {
	t.Helper()

	for i := 1; i < len(s.values); i++ {
		assert.GreaterOrEqual(t, s.values[i], s.values[i-1])
	}
}

func newGitFactory(t *testing.T, backend vcs.Backend) *worktree.GitFactory {
	t.Helper()

	f, err := worktree.NewGitFactory(worktree.GitFactoryConfig{Backend: backend})
	require.NoError(t, err)
	return f
}

func TestGitClone(t *testing.T) {
	ws := model.NewWorkspace("firmware")
	parent := t.TempDir()
	root := filepath.Join(parent, ws.ID.String())
	url := "https://example.com/firmware.git"

	repo := vcsmock.NewMockRepository(t)
	backend := vcsmock.NewMockBackend(t)
	backend.On("Clone", mock.Anything, url, root, mock.Anything).Return(func(ctx context.Context, url, dest string, fn vcs.TransferFunc) (vcs.Repository, error) {
		if err := os.MkdirAll(filepath.Join(dest, ".git"), 0o755); err != nil {
			return nil, err
		}
		fn(vcs.TransferProgress{TotalObjects: 10, ReceivedObjects: 5, SidebandMessage: "Counting objects: 10"})
		fn(vcs.TransferProgress{TotalObjects: 10, ReceivedObjects: 10, IndexedObjects: 4, SidebandMessage: "Counting objects: 10"})
		// A stale report must not move the bar back.
		fn(vcs.TransferProgress{TotalObjects: 10, ReceivedObjects: 2})
		fn(vcs.TransferProgress{TotalObjects: 10, ReceivedObjects: 10, IndexedObjects: 10, TotalSteps: 3, CompletedSteps: 3, SidebandMessage: "done"})
		return repo, nil
	})

	s := &sampler{}
	wt, err := newGitFactory(t, backend).Clone(context.Background(), worktree.GitCloneRequest{
		Workspace:       ws,
		Parent:          parent,
		URL:             url,
		ProgressOptions: worktree.ProgressOptions{Consumer: s.consumer()},
	})
	require.NoError(t, err)

	require.NotEmpty(t, s.values)
	s.assertMonotonic(t)
	assert.Equal(t, worktree.ProgressScale, s.values[len(s.values)-1])
	assert.Equal(t, "done", s.aux[len(s.aux)-1])
	for _, k := range s.kinds {
		assert.Equal(t, progress.KindCloneRepository, k)
	}

	assert.Equal(t, root, wt.Root())
	assert.Equal(t, model.WorktreeRecord{Kind: model.WorktreeKindGit, Workspace: ws, Root: root, Source: url}, wt.Record())
}

func TestGitCloneFailureRemovesRoot(t *testing.T) {
	ws := model.NewWorkspace("firmware")
	parent := t.TempDir()
	errTest := errors.New("whatever")

	backend := vcsmock.NewMockBackend(t)
	backend.On("Clone", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(func(ctx context.Context, url, dest string, fn vcs.TransferFunc) (vcs.Repository, error) {
		_ = os.MkdirAll(filepath.Join(dest, ".git"), 0o755)
		return nil, errTest
	})

	_, err := newGitFactory(t, backend).Clone(context.Background(), worktree.GitCloneRequest{
		Workspace: ws,
		Parent:    parent,
		URL:       "https://example.com/firmware.git",
	})
	assert.ErrorIs(t, err, errTest)
	assertEmptyDir(t, parent)
}

func TestGitCloneInvalid(t *testing.T) {
	tests := map[string]struct {
		req worktree.GitCloneRequest
	}{
		"A missing URL should fail.": {
			req: worktree.GitCloneRequest{Workspace: model.NewWorkspace("a"), Parent: "/tmp"},
		},
		"A missing parent should fail.": {
			req: worktree.GitCloneRequest{Workspace: model.NewWorkspace("a"), URL: "https://example.com/a.git"},
		},
		"An invalid workspace should fail.": {
			req: worktree.GitCloneRequest{Parent: "/tmp", URL: "https://example.com/a.git"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			backend := vcsmock.NewMockBackend(t)
			_, err := newGitFactory(t, backend).Clone(context.Background(), test.req)
			assert.ErrorIs(t, err, model.ErrNotValid)
		})
	}
}

func openGitWorktree(t *testing.T, repo vcs.Repository) *worktree.GitWorktree {
	t.Helper()

	root := t.TempDir()
	backend := vcsmock.NewMockBackend(t)
	backend.On("Open", root).Once().Return(repo, nil)

	wt, err := newGitFactory(t, backend).Open(model.NewWorkspace("firmware"), root, "https://example.com/firmware.git")
	require.NoError(t, err)
	return wt
}

func TestGitWorktreeOperations(t *testing.T) {
	errTest := errors.New("whatever")

	tests := map[string]struct {
		mock    func(m *vcsmock.MockRepository)
		run     func(wt *worktree.GitWorktree, opts worktree.ProgressOptions) error
		expKind progress.Kind
		expErr  bool
	}{
		"Fetch should report a fetch stage.": {
			mock: func(m *vcsmock.MockRepository) {
				m.On("Fetch", mock.Anything, "origin", mock.Anything).Once().Return(func(ctx context.Context, remote string, fn vcs.TransferFunc) error {
					fn(vcs.TransferProgress{TotalObjects: 4, ReceivedObjects: 2})
					fn(vcs.TransferProgress{TotalObjects: 4, ReceivedObjects: 4, IndexedObjects: 4})
					return nil
				})
			},
			run: func(wt *worktree.GitWorktree, opts worktree.ProgressOptions) error {
				return wt.Fetch(context.Background(), "origin", opts)
			},
			expKind: progress.KindFetchRepository,
		},
		"Checkout should report a checkout stage.": {
			mock: func(m *vcsmock.MockRepository) {
				m.On("Checkout", mock.Anything, "dev", mock.Anything).Once().Return(func(ctx context.Context, refspec string, fn vcs.CheckoutFunc) error {
					fn(vcs.CheckoutProgress{TotalSteps: 8})
					fn(vcs.CheckoutProgress{TotalSteps: 8, CompletedSteps: 8})
					return nil
				})
			},
			run: func(wt *worktree.GitWorktree, opts worktree.ProgressOptions) error {
				return wt.Checkout(context.Background(), "dev", opts)
			},
			expKind: progress.KindCheckoutRepository,
		},
		"Reset should report a reset stage.": {
			mock: func(m *vcsmock.MockRepository) {
				m.On("Reset", mock.Anything, vcs.ResetHard, mock.Anything).Once().Return(nil)
			},
			run: func(wt *worktree.GitWorktree, opts worktree.ProgressOptions) error {
				return wt.Reset(context.Background(), vcs.ResetHard, opts)
			},
			expKind: progress.KindResetRepository,
		},
		"A failing checkout should return the error.": {
			mock: func(m *vcsmock.MockRepository) {
				m.On("Checkout", mock.Anything, "nope", mock.Anything).Once().Return(errTest)
			},
			run: func(wt *worktree.GitWorktree, opts worktree.ProgressOptions) error {
				return wt.Checkout(context.Background(), "nope", opts)
			},
			expKind: progress.KindCheckoutRepository,
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := vcsmock.NewMockRepository(t)
			test.mock(repo)
			wt := openGitWorktree(t, repo)

			s := &sampler{}
			err := test.run(wt, worktree.ProgressOptions{Consumer: s.consumer()})

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				require.NotEmpty(s.values)
				assert.Equal(worktree.ProgressScale, s.values[len(s.values)-1])
			}
			s.assertMonotonic(t)
			for _, k := range s.kinds {
				assert.Equal(test.expKind, k)
			}
		})
	}
}

func TestGitWorktreeAccessors(t *testing.T) {
	repo := vcsmock.NewMockRepository(t)
	repo.On("HeadName").Return("main", nil)
	repo.On("TagNames").Return([]string{"v1"}, nil)
	repo.On("LocalBranchNames").Return([]string{"dev", "main"}, nil)
	repo.On("RemoteBranchNames").Return([]string{"origin/main"}, nil)
	repo.On("Remotes").Return([]vcs.Remote{{Name: "origin", FetchURL: "https://example.com/firmware.git"}}, nil)

	wt := openGitWorktree(t, repo)

	head, err := wt.HeadName()
	require.NoError(t, err)
	assert.Equal(t, "main", head)

	tags, err := wt.TagNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, tags)

	local, err := wt.LocalBranchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "main"}, local)

	remote, err := wt.RemoteBranchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"origin/main"}, remote)

	remotes, err := wt.Remotes()
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	assert.Equal(t, "origin", remotes[0].Name)
}

func TestFromRecord(t *testing.T) {
	ws := model.NewWorkspace("firmware")

	tests := map[string]struct {
		record  model.WorktreeRecord
		withGit bool
		expKind model.WorktreeKind
		expErr  error
	}{
		"A directory record should rebuild a directory worktree.": {
			record:  model.WorktreeRecord{Kind: model.WorktreeKindDirectory, Workspace: ws, Root: "/tmp/a"},
			expKind: model.WorktreeKindDirectory,
		},
		"A zip record should rebuild a zip worktree.": {
			record:  model.WorktreeRecord{Kind: model.WorktreeKindZipFile, Workspace: ws, Root: "/tmp/a", Source: "file:///a.zip"},
			expKind: model.WorktreeKindZipFile,
		},
		"A git record should open the repository.": {
			record:  model.WorktreeRecord{Kind: model.WorktreeKindGit, Workspace: ws, Root: "/tmp/a", Source: "https://example.com/a.git"},
			withGit: true,
			expKind: model.WorktreeKindGit,
		},
		"A git record without a factory should fail.": {
			record: model.WorktreeRecord{Kind: model.WorktreeKindGit, Workspace: ws, Root: "/tmp/a"},
			expErr: model.ErrNotValid,
		},
		"An invalid record should fail.": {
			record: model.WorktreeRecord{Kind: model.WorktreeKindDirectory, Workspace: ws},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var git *worktree.GitFactory
			if test.withGit {
				backend := vcsmock.NewMockBackend(t)
				backend.On("Open", test.record.Root).Once().Return(vcsmock.NewMockRepository(t), nil)
				git = newGitFactory(t, backend)
			}

			wt, err := worktree.FromRecord(test.record, git)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expKind, wt.Kind())
			assert.Equal(t, test.record, wt.Record())
		})
	}
}
