package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/sh4/zabuton/internal/app/worktreeremove"
	"github.com/sh4/zabuton/internal/archive"
	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/printer"
	"github.com/sh4/zabuton/internal/progress"
	storageio "github.com/sh4/zabuton/internal/storage/io"
	"github.com/sh4/zabuton/internal/storage/memory"
	"github.com/sh4/zabuton/internal/vcs/gogit"
	"github.com/sh4/zabuton/internal/worktree"
)

// newRepository returns a memory repository loaded with the worktrees found
// in the data directory.
func (c *RootCommand) newRepository(ctx context.Context) (*memory.Repository, error) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	dir := conventions.WorktreesPath(c.Settings.DataDir)
	recs, err := storageio.NewWorktreeDirRepository(os.DirFS(dir), dir).ListWorktrees(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list worktrees: %w", err)
	}
	for _, rec := range recs {
		if err := repo.SaveWorkspace(ctx, rec.Workspace); err != nil {
			return nil, err
		}
		if err := repo.RegisterWorktree(ctx, rec); err != nil {
			return nil, err
		}
	}
	c.Logger.Debugf("Loaded %d worktrees from %s", len(recs), dir)

	return repo, nil
}

func (c *RootCommand) newExtractor() (*archive.Extractor, error) {
	ex, err := archive.NewExtractor(archive.ExtractorConfig{
		Workers: c.Settings.ExtractWorkers,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create extractor: %w", err)
	}
	return ex, nil
}

func (c *RootCommand) newGitFactory() (*worktree.GitFactory, error) {
	backend, err := gogit.NewBackend(gogit.BackendConfig{
		Init: gogit.InitConfig{
			CABundle: c.Settings.GitCABundle,
			DataDir:  c.Settings.DataDir,
		},
		Logger: c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create git backend: %w", err)
	}

	f, err := worktree.NewGitFactory(worktree.GitFactoryConfig{Backend: backend, Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create git factory: %w", err)
	}
	return f, nil
}

func (c *RootCommand) newZipFileFactory() (*worktree.ZipFileFactory, error) {
	ex, err := c.newExtractor()
	if err != nil {
		return nil, err
	}

	f, err := worktree.NewZipFileFactory(worktree.ZipFileFactoryConfig{
		CacheDir:        conventions.CachePath(c.Settings.DataDir),
		Extractor:       ex,
		DownloadTimeout: c.Settings.DownloadTimeout,
		Logger:          c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create zip file factory: %w", err)
	}
	return f, nil
}

func (c *RootCommand) newWorktreeRemover(repo *memory.Repository, git *worktree.GitFactory) (*worktreeremove.Service, error) {
	svc, err := worktreeremove.NewService(worktreeremove.ServiceConfig{
		Repository: repo,
		GitFactory: git,
		Logger:     c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worktree remove service: %w", err)
	}
	return svc, nil
}

// progressConsumer returns the consumer drawing progress bars on stderr, nil
// when progress is disabled.
func (c *RootCommand) progressConsumer() (progress.Consumer, error) {
	if c.NoProgress {
		return nil, nil
	}

	p, err := printer.NewProgressPrinter(printer.ProgressPrinterConfig{
		Out:     c.Stderr,
		NoColor: c.NoColor,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create progress printer: %w", err)
	}
	return p.Consumer(), nil
}
