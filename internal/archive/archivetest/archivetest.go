// Package archivetest builds zip archives for tests.
package archivetest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// Entry is an archive entry, names ending in "/" are directories.
type Entry struct {
	Name    string
	Content string
	Mode    os.FileMode
}

// Build returns the zip archive bytes with the entries in order.
func Build(t *testing.T, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		h := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		switch {
		case strings.HasSuffix(e.Name, "/"):
			h.Method = zip.Store
			h.SetMode(os.ModeDir | 0o755)
		case e.Mode != 0:
			h.SetMode(e.Mode)
		default:
			h.SetMode(0o644)
		}

		w, err := zw.CreateHeader(h)
		require.NoError(t, err)
		if !strings.HasSuffix(e.Name, "/") {
			_, err = w.Write([]byte(e.Content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// WriteFile builds the archive and stores it in a temporary file.
func WriteFile(t *testing.T, entries ...Entry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(path, Build(t, entries...), 0o644))
	return path
}
