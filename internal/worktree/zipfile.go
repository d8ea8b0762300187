package worktree

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sh4/zabuton/internal/archive"
	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
)

// ZipFileWorktree is a tree extracted from a zip archive.
type ZipFileWorktree struct {
	workspace model.Workspace
	root      string
	source    string
}

var _ Worktree = &ZipFileWorktree{}

func (z *ZipFileWorktree) Kind() model.WorktreeKind   { return model.WorktreeKindZipFile }
func (z *ZipFileWorktree) Workspace() model.Workspace { return z.workspace }
func (z *ZipFileWorktree) Root() string               { return z.root }

// Source is the URL the archive was fetched from.
func (z *ZipFileWorktree) Source() string { return z.source }

func (z *ZipFileWorktree) Record() model.WorktreeRecord {
	return model.WorktreeRecord{Kind: z.Kind(), Workspace: z.workspace, Root: z.root, Source: z.source}
}

func (z *ZipFileWorktree) DeletePermanently(ctx context.Context) error {
	return removeRoot(ctx, z.root)
}

// Extractor extracts an archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, req archive.ExtractRequest) (*archive.Result, error)
}

// ZipFileFactoryConfig is the configuration for the ZipFileFactory.
type ZipFileFactoryConfig struct {
	HTTPClient *http.Client
	// CacheDir receives the downloads, they are removed once extracted.
	CacheDir  string
	Extractor Extractor
	// DownloadTimeout bounds a download, 0 means no timeout.
	DownloadTimeout time.Duration
	Logger          log.Logger
}

func (c *ZipFileFactoryConfig) defaults() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache dir is required")
	}
	if c.DownloadTimeout < 0 {
		return fmt.Errorf("download timeout must be >= 0")
	}

	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "worktree.ZipFileFactory"})

	if c.Extractor == nil {
		ex, err := archive.NewExtractor(archive.ExtractorConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create extractor: %w", err)
		}
		c.Extractor = ex
	}

	return nil
}

// ZipFileFactory creates zip file worktrees.
type ZipFileFactory struct {
	httpClient      *http.Client
	cacheDir        string
	extractor       Extractor
	downloadTimeout time.Duration
	logger          log.Logger
}

// NewZipFileFactory returns a new ZipFileFactory.
func NewZipFileFactory(cfg ZipFileFactoryConfig) (*ZipFileFactory, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &ZipFileFactory{
		httpClient:      cfg.HTTPClient,
		cacheDir:        cfg.CacheDir,
		extractor:       cfg.Extractor,
		downloadTimeout: cfg.DownloadTimeout,
		logger:          cfg.Logger,
	}, nil
}

// ZipFileRequest is the zip file worktree creation request.
type ZipFileRequest struct {
	Workspace model.Workspace
	// Parent is the directory the worktree root is created in.
	Parent string
	// URL is a file, http or https URL of a zip archive.
	URL string
	ProgressOptions
}

// Create materializes the archive in <parent>/<workspace id>. Remote archives
// are downloaded first, download and extraction are two stages of the same
// progress stream.
func (f *ZipFileFactory) Create(ctx context.Context, req ZipFileRequest) (_ *ZipFileWorktree, err error) {
	if err := req.Workspace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace: %w", err)
	}
	if req.Parent == "" {
		return nil, fmt.Errorf("parent directory is required: %w", model.ErrNotValid)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", req.URL, model.ErrNotValid)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "file", "http", "https":
	case "":
		return nil, fmt.Errorf("url %q has no scheme: %w", req.URL, model.ErrNotValid)
	default:
		return nil, fmt.Errorf("unsupported url scheme %q: %w", u.Scheme, model.ErrNotValid)
	}

	root := conventions.WorktreePath(req.Parent, req.Workspace.ID.String())
	if err := ensureFreeRoot(root); err != nil {
		return nil, err
	}

	pc, release := progress.Attach(ctx, req.Progress, req.Consumer)
	defer func() { release(err) }()

	logger := f.logger.WithCtxValues(ctx).WithValues(log.Kv{"workspace": req.Workspace.ID.String()})

	archivePath := filePath(u)
	if scheme != "file" {
		archivePath, err = f.download(ctx, pc, u)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := os.Remove(archivePath); err != nil {
				logger.Warningf("Could not remove cached download %s: %s", archivePath, err)
			}
		}()
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create worktree root: %w", err)
	}
	_, err = f.extractor.Extract(ctx, archive.ExtractRequest{
		Open:     archive.OpenFile(archivePath),
		Dir:      root,
		Progress: pc,
	})
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, fmt.Errorf("could not extract worktree: %w", err)
	}
	logger.Infof("Zip worktree created at %s", root)

	return &ZipFileWorktree{workspace: req.Workspace, root: root, source: req.URL}, nil
}

func filePath(u *url.URL) string {
	if u.Path == "" {
		return filepath.FromSlash(u.Opaque)
	}
	return filepath.FromSlash(u.Path)
}

// download streams the archive into the cache reporting a DownloadFile
// stage, the total is unknown without Content-Length.
func (f *ZipFileFactory) download(ctx context.Context, pc *progress.Context, u *url.URL) (_ string, err error) {
	if f.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.downloadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not download %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}

	unit := pc.Next(progress.KindDownloadFile, resp.ContentLength)

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create cache dir: %w", err)
	}
	path := filepath.Join(f.cacheDir, ulid.Make().String()+".zip")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err := io.Copy(progress.NewWriter(out, unit), resp.Body); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("could not close %s: %w", path, err)
	}
	unit.Finish()

	return path, nil
}
