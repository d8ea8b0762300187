package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sh4/zabuton/internal/archive"
	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/progress"
)

// Extractor extracts an archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, req archive.ExtractRequest) (*archive.Result, error)
}

// ListCommandsFunc returns the command names a multi-call binary provides.
type ListCommandsFunc func(ctx context.Context, binary string) ([]string, error)

// BusyboxListCommands runs the binary with --list.
func BusyboxListCommands(ctx context.Context, binary string) ([]string, error) {
	out, err := exec.CommandContext(ctx, binary, "--list").Output()
	if err != nil {
		return nil, fmt.Errorf("could not list %q commands: %w", binary, err)
	}

	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if name := strings.TrimSpace(sc.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read %q command list: %w", binary, err)
	}

	return names, nil
}

// InstallerConfig is the configuration for the Installer.
type InstallerConfig struct {
	// Root is the install directory, the staging and aside directories are
	// its siblings.
	Root         string
	ArchivePath  string
	ManifestPath string
	Extractor    Extractor
	ListCommands ListCommandsFunc
	Logger       log.Logger
}

func (c *InstallerConfig) defaults() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.ArchivePath == "" {
		return fmt.Errorf("archive path is required")
	}
	if c.ManifestPath == "" {
		return fmt.Errorf("symlink manifest path is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "toolchain.Installer"})

	if c.Extractor == nil {
		ex, err := archive.NewExtractor(archive.ExtractorConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create extractor: %w", err)
		}
		c.Extractor = ex
	}

	if c.ListCommands == nil {
		c.ListCommands = BusyboxListCommands
	}

	return nil
}

// Installer installs the bundled toolchain. Concurrent installs on the same
// root are not supported.
type Installer struct {
	root         string
	archivePath  string
	manifestPath string
	extractor    Extractor
	listCommands ListCommandsFunc
	logger       log.Logger
}

// NewInstaller returns a new Installer.
func NewInstaller(cfg InstallerConfig) (*Installer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Installer{
		root:         cfg.Root,
		archivePath:  cfg.ArchivePath,
		manifestPath: cfg.ManifestPath,
		extractor:    cfg.Extractor,
		listCommands: cfg.ListCommands,
		logger:       cfg.Logger,
	}, nil
}

// InstallRequest is the install request.
type InstallRequest struct {
	Progress *progress.Context
	Consumer progress.Consumer
}

// InstallResult is the summary of an install.
type InstallResult struct {
	Root    string
	Extract archive.Result
	// Commands is the number of multi-call symlinks created.
	Commands int
	// Links is the number of manifest symlinks created.
	Links int
}

// Install extracts the archive into a staging directory, swaps it into the
// root and post-processes the tree. Any failure aborts the install, a
// previous install is only touched once extraction succeeded.
func (i *Installer) Install(ctx context.Context, req InstallRequest) (_ *InstallResult, err error) {
	data, err := os.ReadFile(i.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("could not read symlink manifest: %w", err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	pc, release := progress.Attach(ctx, req.Progress, req.Consumer)
	defer func() { release(err) }()

	logger := i.logger.WithCtxValues(ctx)

	// A crash between the swap renames leaves the previous install aside.
	previous := conventions.PreviousPath(i.root)
	if _, err := os.Lstat(previous); err == nil {
		logger.Warningf("Removing leftover previous install %s", previous)
		if err := os.RemoveAll(previous); err != nil {
			return nil, fmt.Errorf("could not remove leftover previous install: %w", err)
		}
	}

	staging := conventions.StagingPath(i.root)
	if err := os.RemoveAll(staging); err != nil {
		return nil, fmt.Errorf("could not remove stale staging directory: %w", err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("could not create staging directory: %w", err)
	}

	logger.Infof("Extracting toolchain into %s", staging)
	res, err := i.extractor.Extract(ctx, archive.ExtractRequest{
		Open:     archive.OpenFile(i.archivePath),
		Dir:      staging,
		Progress: pc,
	})
	if err != nil {
		return nil, fmt.Errorf("could not extract toolchain: %w", err)
	}

	if err := i.swap(staging); err != nil {
		return nil, err
	}
	logger.Infof("Toolchain installed at %s", i.root)

	result := &InstallResult{Root: i.root, Extract: *res}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return i.setExecutable() })
	g.Go(func() error {
		n, err := i.linkCommands(gctx)
		result.Commands = n
		return err
	})
	g.Go(func() error {
		n, err := i.linkManifest(manifest)
		result.Links = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("could not post process toolchain: %w", err)
	}
	logger.Debugf("Created %d command symlinks and %d manifest symlinks", result.Commands, result.Links)

	return result, nil
}

// swap puts the staging tree in place before the previous install is
// removed. It is not crash atomic: a crash in between leaves root.old, which
// the next install sweeps.
func (i *Installer) swap(staging string) error {
	previous := conventions.PreviousPath(i.root)

	installed := true
	if _, err := os.Lstat(i.root); errors.Is(err, fs.ErrNotExist) {
		installed = false
	} else if err != nil {
		return fmt.Errorf("could not stat install root: %w", err)
	}

	if installed {
		if err := os.Rename(i.root, previous); err != nil {
			return fmt.Errorf("could not move previous install aside: %w", err)
		}
	}
	if err := os.Rename(staging, i.root); err != nil {
		return fmt.Errorf("could not move staging directory into place: %w", err)
	}
	if installed {
		if err := os.RemoveAll(previous); err != nil {
			return fmt.Errorf("could not remove previous install: %w", err)
		}
	}

	return nil
}

// setExecutable adds owner rwx to every regular file of the executable
// directories, archives don't reliably keep the mode bits.
func (i *Installer) setExecutable() error {
	for _, dir := range conventions.ExecutableDirs {
		dir = filepath.Join(i.root, dir)
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return makeOwnerRWX(path)
		})
		if err != nil {
			return fmt.Errorf("could not set executable bits on %q: %w", dir, err)
		}
	}
	return nil
}

func makeOwnerRWX(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o700 == 0o700 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|0o700)
}

// linkCommands links every command of the multi-call binary next to it.
// Existing paths are kept.
func (i *Installer) linkCommands(ctx context.Context) (int, error) {
	binary := filepath.Join(i.root, filepath.FromSlash(conventions.MultiCallBinary))
	if err := makeOwnerRWX(binary); err != nil {
		return 0, fmt.Errorf("could not make multi-call binary executable: %w", err)
	}

	names, err := i.listCommands(ctx, binary)
	if err != nil {
		return 0, err
	}

	dir := filepath.Join(i.root, conventions.SymlinkDir)
	target := filepath.Base(binary)
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == target || strings.ContainsAny(name, `/\`) {
			continue
		}

		err := os.Symlink(target, filepath.Join(dir, name))
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("could not link command %q: %w", name, err)
		}
		created++
	}

	return created, nil
}

// linkManifest creates the manifest symlinks. They replace existing
// symlinks, so they win over multi-call links of the same name.
func (i *Installer) linkManifest(m *Manifest) (int, error) {
	for n, f := range m.Files {
		src := filepath.Join(i.root, filepath.FromSlash(f.Src))
		link := filepath.Join(i.root, filepath.FromSlash(f.Target))

		if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
			return n, fmt.Errorf("could not create directory for %q: %w", f.Target, err)
		}
		rel, err := filepath.Rel(filepath.Dir(link), src)
		if err != nil {
			return n, fmt.Errorf("could not resolve %q relative to %q: %w", f.Src, f.Target, err)
		}
		if err := replaceSymlink(rel, link); err != nil {
			return n, fmt.Errorf("could not link %q to %q: %w", f.Target, f.Src, err)
		}
	}

	return len(m.Files), nil
}

func replaceSymlink(target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	case info.Mode()&fs.ModeSymlink == 0:
		return fmt.Errorf("%q exists and is not a symlink", link)
	}

	tmp := link + ".link" + conventions.StagingSuffix
	_ = os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
