package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
)

// OpenFunc opens the archive. Every call must return an independent handle,
// workers read the archive concurrently.
type OpenFunc func() (*zip.Reader, io.Closer, error)

// OpenFile returns an OpenFunc for a zip file on disk.
func OpenFile(path string) OpenFunc {
	return func() (*zip.Reader, io.Closer, error) {
		rc, err := zip.OpenReader(path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open archive %q: %w", path, err)
		}
		return &rc.Reader, rc, nil
	}
}

// OpenBytes returns an OpenFunc for an in memory zip archive.
func OpenBytes(b []byte) OpenFunc {
	return func() (*zip.Reader, io.Closer, error) {
		r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
		if err != nil {
			return nil, nil, fmt.Errorf("could not read archive: %w", err)
		}
		return r, nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// DefaultWorkers is the hardware concurrency minus one, at least one.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

// ExtractorConfig is the configuration for the Extractor.
type ExtractorConfig struct {
	// Workers is the parallel extraction level, 0 uses DefaultWorkers.
	Workers int
	Logger  log.Logger
}

func (c *ExtractorConfig) defaults() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got: %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers()
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "archive.Extractor"})

	return nil
}

// Extractor extracts zip archives splitting the entries across workers that
// report into a single progress unit.
type Extractor struct {
	workers int
	logger  log.Logger
}

// NewExtractor returns a new Extractor.
func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Extractor{
		workers: cfg.Workers,
		logger:  cfg.Logger,
	}, nil
}

// ExtractRequest is the extraction request.
type ExtractRequest struct {
	Open OpenFunc
	Dir  string
	// Progress is the context the extraction stage is announced on. When
	// missing, a context owned by the extraction is created for Consumer.
	Progress *progress.Context
	Consumer progress.Consumer
}

// Result is the summary of an extraction.
type Result struct {
	Entries int
	Files   int
	Bytes   int64
}

// Extract extracts the archive into the request directory. On error the
// directory may be partially populated, callers discard it.
func (e *Extractor) Extract(ctx context.Context, req ExtractRequest) (_ *Result, err error) {
	if req.Open == nil {
		return nil, fmt.Errorf("archive opener is required: %w", model.ErrNotValid)
	}
	if req.Dir == "" {
		return nil, fmt.Errorf("destination directory is required: %w", model.ErrNotValid)
	}

	pc, release := progress.Attach(ctx, req.Progress, req.Consumer)
	defer func() { release(err) }()

	res, err := e.size(req.Open, req.Dir)
	if err != nil {
		return nil, err
	}

	unit := pc.Next(progress.KindExtractArchive, res.Bytes)
	logger := e.logger.WithCtxValues(ctx)
	logger.Debugf("Extracting %d entries (%d bytes) into %s with %d workers", res.Entries, res.Bytes, req.Dir, e.workers)

	g, gctx := errgroup.WithContext(ctx)
	for _, span := range Partition(res.Entries, e.workers) {
		if span.Count == 0 {
			continue
		}
		g.Go(func() error {
			return extractSpan(gctx, req.Open, req.Dir, span, unit)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	unit.Finish()

	return res, nil
}

// size walks the entries once, creates the announced directories and sums
// the file sizes. Directories are created here and not by the workers.
func (e *Extractor) size(open OpenFunc, dir string) (*Result, error) {
	r, closer, err := open()
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	res := &Result{}
	for _, f := range r.File {
		res.Entries++

		path, err := entryPath(dir, f.Name)
		if err != nil {
			return nil, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return nil, fmt.Errorf("could not create directory %q: %w", path, err)
			}
			continue
		}

		res.Files++
		res.Bytes += int64(f.UncompressedSize64)
	}

	return res, nil
}

// Span is the contiguous range of entries a worker extracts.
type Span struct {
	Start int
	Count int
}

// Partition splits entries in contiguous spans, one per worker. The last
// worker takes the remainder.
func Partition(entries, workers int) []Span {
	workers = max(workers, 1)
	per := entries / workers

	spans := make([]Span, workers)
	for i := range spans {
		spans[i] = Span{Start: i * per, Count: per}
	}
	spans[workers-1].Count += entries % workers

	return spans
}

func extractSpan(ctx context.Context, open OpenFunc, dir string, span Span, unit *progress.Unit) error {
	r, closer, err := open()
	if err != nil {
		return err
	}
	defer closer.Close()

	if span.Start+span.Count > len(r.File) {
		return fmt.Errorf("archive has %d entries, worker needs %d: %w", len(r.File), span.Start+span.Count, model.ErrNotValid)
	}

	for _, f := range r.File[span.Start : span.Start+span.Count] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			continue
		}

		path, err := entryPath(dir, f.Name)
		if err != nil {
			return err
		}
		n, err := extractFile(f, path)
		if err != nil {
			return err
		}
		unit.Advance(n)
	}

	return nil
}

func extractFile(f *zip.File, path string) (int64, error) {
	// Archives can omit directory entries, MkdirAll is safe when another
	// worker creates the same directory at the same time.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("could not create directory for %q: %w", path, err)
	}

	src, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("could not open entry %q: %w", f.Name, err)
	}
	defer src.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("could not create file %q: %w", path, err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return n, fmt.Errorf("could not write file %q: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return n, fmt.Errorf("could not close file %q: %w", path, err)
	}

	return n, nil
}

func entryPath(dir, name string) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("entry %q escapes the destination: %w", name, model.ErrNotValid)
	}
	return filepath.Join(dir, rel), nil
}
