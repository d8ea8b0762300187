package worktreeremove_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/app/worktreeremove"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config worktreeremove.ServiceConfig
		expErr bool
	}{
		"valid config": {
			config: worktreeremove.ServiceConfig{Repository: &storagemock.MockWorktreeRepository{}},
		},
		"missing repository": {
			config: worktreeremove.ServiceConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := worktreeremove.NewService(test.config)
			if test.expErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotNil(t, svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	ws := model.NewWorkspace("blink")

	tests := map[string]struct {
		kind     model.WorktreeKind
		makeRoot bool
		mockRepo func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord)
		expErr   bool
		expErrIs error
	}{
		"Removing a directory worktree should delete it and unregister it.": {
			kind:     model.WorktreeKindDirectory,
			makeRoot: true,
			mockRepo: func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord) {
				m.On("GetWorktree", mock.Anything, ws.ID).Once().Return(&rec, nil)
				m.On("UnregisterWorktree", mock.Anything, ws.ID).Once().Return(nil)
			},
		},
		"Removing a git worktree without a git factory should delete the root.": {
			kind:     model.WorktreeKindGit,
			makeRoot: true,
			mockRepo: func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord) {
				m.On("GetWorktree", mock.Anything, ws.ID).Once().Return(&rec, nil)
				m.On("UnregisterWorktree", mock.Anything, ws.ID).Once().Return(nil)
			},
		},
		"A root that is already gone should only be unregistered.": {
			kind: model.WorktreeKindZipFile,
			mockRepo: func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord) {
				m.On("GetWorktree", mock.Anything, ws.ID).Once().Return(&rec, nil)
				m.On("UnregisterWorktree", mock.Anything, ws.ID).Once().Return(nil)
			},
		},
		"A missing registration should fail.": {
			kind: model.WorktreeKindDirectory,
			mockRepo: func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord) {
				m.On("GetWorktree", mock.Anything, ws.ID).Once().Return(nil, model.ErrNotFound)
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},
		"An unregister error should be returned.": {
			kind:     model.WorktreeKindDirectory,
			makeRoot: true,
			mockRepo: func(m *storagemock.MockWorktreeRepository, rec model.WorktreeRecord) {
				m.On("GetWorktree", mock.Anything, ws.ID).Once().Return(&rec, nil)
				m.On("UnregisterWorktree", mock.Anything, ws.ID).Once().Return(errors.New("whatever"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), ws.ID.String())
			if test.makeRoot {
				require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
			}
			rec := model.WorktreeRecord{Kind: test.kind, Workspace: ws, Root: root}

			repo := storagemock.NewMockWorktreeRepository(t)
			test.mockRepo(repo, rec)

			svc, err := worktreeremove.NewService(worktreeremove.ServiceConfig{Repository: repo})
			require.NoError(t, err)

			got, err := svc.Run(context.Background(), worktreeremove.Request{WorkspaceID: ws.ID})
			if test.expErr {
				require.Error(t, err)
				if test.expErrIs != nil {
					assert.ErrorIs(t, err, test.expErrIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, rec, *got)

			_, err = os.Stat(root)
			assert.True(t, errors.Is(err, fs.ErrNotExist))
		})
	}
}
