package gogit

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/sh4/zabuton/internal/vcs"
)

var (
	// "Receiving objects:  45% (45/100), 1.20 MiB | 600.00 KiB/s".
	counterRe = regexp.MustCompile(`^([A-Za-z ]+):\s+\d+%\s+\((\d+)/(\d+)\)`)
	// "Total 169903 (delta 112118), reused 1 (delta 0), pack-reused 169901".
	totalRe = regexp.MustCompile(`^Total (\d+) \(delta (\d+)\)`)
)

// progressWriter turns the sideband progress stream into transfer progress
// callbacks. Lines end with "\r" while a counter is updating.
type progressWriter struct {
	mu    sync.Mutex
	buf   []byte
	stats vcs.TransferProgress
	fn    vcs.TransferFunc
}

func newProgressWriter(fn vcs.TransferFunc) *progressWriter {
	return &progressWriter{fn: fn}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexAny(w.buf, "\r\n")
		if i < 0 {
			break
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		w.line(line)
	}

	return len(p), nil
}

func (w *progressWriter) line(line string) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "remote:"))
	if line == "" {
		return
	}
	w.stats.SidebandMessage = line

	if m := counterRe.FindStringSubmatch(line); m != nil {
		done, _ := strconv.ParseInt(m[2], 10, 64)
		total, _ := strconv.ParseInt(m[3], 10, 64)
		switch strings.ToLower(strings.TrimSpace(m[1])) {
		case "receiving objects":
			w.stats.ReceivedObjects = done
			w.stats.TotalObjects = total
		case "indexing objects":
			w.stats.IndexedObjects = done
			w.stats.TotalObjects = max(w.stats.TotalObjects, total)
		case "resolving deltas":
			w.stats.IndexedDeltas = done
			w.stats.TotalDeltas = total
		case "checking out files", "updating files":
			w.stats.CompletedSteps = done
			w.stats.TotalSteps = total
		}
	} else if m := totalRe.FindStringSubmatch(line); m != nil {
		w.stats.TotalObjects, _ = strconv.ParseInt(m[1], 10, 64)
		w.stats.TotalDeltas, _ = strconv.ParseInt(m[2], 10, 64)
	}

	w.emit()
}

// complete reports everything known as done, go-git doesn't report the
// local side of the transfer.
func (w *progressWriter) complete(checkoutSteps int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if rest := strings.TrimSpace(string(w.buf)); rest != "" {
		w.buf = nil
		w.line(rest)
	}

	s := &w.stats
	s.ReceivedObjects = s.TotalObjects
	s.IndexedObjects = s.TotalObjects
	s.IndexedDeltas = s.TotalDeltas
	s.TotalSteps = checkoutSteps
	s.CompletedSteps = checkoutSteps
	w.emit()
}

func (w *progressWriter) emit() {
	if w.fn != nil {
		w.fn(w.stats)
	}
}
