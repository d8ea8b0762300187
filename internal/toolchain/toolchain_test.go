package toolchain_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/archive/archivetest"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/toolchain"
)

const busyboxScript = `#!/bin/sh
echo ash
echo ls

echo avrdude
echo busybox
`

type fixture struct {
	root     string
	archive  string
	manifest string
}

func newFixture(t *testing.T, manifest string) fixture {
	t.Helper()

	dir := t.TempDir()
	f := fixture{
		root:     filepath.Join(dir, "root"),
		archive:  archivetest.WriteFile(t, toolchainEntries()...),
		manifest: filepath.Join(dir, "symlinkMaps.json"),
	}
	require.NoError(t, os.WriteFile(f.manifest, []byte(manifest), 0o644))

	return f
}

func toolchainEntries() []archivetest.Entry {
	return []archivetest.Entry{
		{Name: "bin/"},
		{Name: "bin/busybox", Content: busyboxScript, Mode: 0o644},
		{Name: "avr/"},
		{Name: "avr/bin/"},
		{Name: "avr/bin/avr-gcc", Content: "gcc", Mode: 0o600},
		{Name: "libexec/gcc/avr/cc1", Content: "cc1", Mode: 0o400},
		{Name: "share/doc/README", Content: "readme", Mode: 0o644},
	}
}

const defaultManifest = `{"files": [
	{"src": "bin/busybox", "target": "bin/avrdude"},
	{"src": "avr/bin/avr-gcc", "target": "share/links/gcc"}
]}`

func (f fixture) installer(t *testing.T, list toolchain.ListCommandsFunc) *toolchain.Installer {
	t.Helper()

	ins, err := toolchain.NewInstaller(toolchain.InstallerConfig{
		Root:         f.root,
		ArchivePath:  f.archive,
		ManifestPath: f.manifest,
		ListCommands: list,
	})
	require.NoError(t, err)

	return ins
}

func assertSameFile(t *testing.T, exp, got string) {
	t.Helper()

	expPath, err := filepath.EvalSymlinks(exp)
	require.NoError(t, err)
	gotPath, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, expPath, gotPath)
}

func TestInstall(t *testing.T) {
	f := newFixture(t, defaultManifest)

	var kinds []progress.Kind
	consumer := func(ctx context.Context, units <-chan *progress.Unit) {
		for u := range units {
			kinds = append(kinds, u.Kind())
		}
	}

	res, err := f.installer(t, nil).Install(context.Background(), toolchain.InstallRequest{Consumer: consumer})
	require.NoError(t, err)

	assert.Equal(t, []progress.Kind{progress.KindExtractArchive}, kinds)
	assert.Equal(t, f.root, res.Root)
	assert.Equal(t, 2, res.Links)
	// The binary itself is never linked, avrdude can be claimed by the manifest first.
	assert.GreaterOrEqual(t, res.Commands, 2)
	assert.LessOrEqual(t, res.Commands, 3)

	busybox := filepath.Join(f.root, "bin", "busybox")
	info, err := os.Stat(busybox)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)

	avrdude := filepath.Join(f.root, "bin", "avrdude")
	linfo, err := os.Lstat(avrdude)
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&fs.ModeSymlink)
	assertSameFile(t, busybox, avrdude)

	for _, name := range []string{"ash", "ls"} {
		assertSameFile(t, busybox, filepath.Join(f.root, "bin", name))
	}
	assertSameFile(t, filepath.Join(f.root, "avr", "bin", "avr-gcc"), filepath.Join(f.root, "share", "links", "gcc"))

	for _, dir := range []string{"avr", "bin", "libexec"} {
		err := filepath.WalkDir(filepath.Join(f.root, dir), func(path string, d fs.DirEntry, err error) error {
			require.NoError(t, err)
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			require.NoError(t, err)
			assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm()&0o700, path)
			return nil
		})
		require.NoError(t, err)
	}

	// Files outside the executable directories are left alone.
	info, err = os.Stat(filepath.Join(f.root, "share", "doc", "README"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), info.Mode().Perm())
}

func assertNoSiblings(t *testing.T, root string) {
	t.Helper()

	for _, p := range []string{root + ".tmp", root + ".old"} {
		_, err := os.Lstat(p)
		assert.True(t, errors.Is(err, fs.ErrNotExist), p)
	}
}

func TestInstallTwice(t *testing.T) {
	f := newFixture(t, defaultManifest)
	ins := f.installer(t, nil)

	_, err := ins.Install(context.Background(), toolchain.InstallRequest{})
	require.NoError(t, err)

	marker := filepath.Join(f.root, "marker")
	require.NoError(t, os.WriteFile(marker, nil, 0o644))

	_, err = ins.Install(context.Background(), toolchain.InstallRequest{})
	require.NoError(t, err)

	assertNoSiblings(t, f.root)
	_, err = os.Stat(marker)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "the previous tree must be replaced")
	assertSameFile(t, filepath.Join(f.root, "bin", "busybox"), filepath.Join(f.root, "bin", "avrdude"))
}

func TestInstallSweepsLeftovers(t *testing.T) {
	f := newFixture(t, defaultManifest)

	// A crashed run left both siblings behind.
	for _, p := range []string{f.root + ".tmp", f.root + ".old"} {
		require.NoError(t, os.MkdirAll(filepath.Join(p, "bin"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(p, "bin", "stale"), nil, 0o644))
	}

	_, err := f.installer(t, nil).Install(context.Background(), toolchain.InstallRequest{})
	require.NoError(t, err)

	assertNoSiblings(t, f.root)
	_, err = os.Stat(filepath.Join(f.root, "bin", "stale"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestInstallRejectsBadManifest(t *testing.T) {
	f := newFixture(t, `{"files": [{"src": "bin/busybox"`)

	_, err := f.installer(t, nil).Install(context.Background(), toolchain.InstallRequest{})
	assert.ErrorIs(t, err, model.ErrNotValid)

	// Nothing was touched.
	for _, p := range []string{f.root, f.root + ".tmp"} {
		_, err := os.Lstat(p)
		assert.True(t, errors.Is(err, fs.ErrNotExist), p)
	}
}

func TestInstallListCommandsError(t *testing.T) {
	f := newFixture(t, defaultManifest)
	list := func(ctx context.Context, binary string) ([]string, error) {
		return nil, errors.New("exec format error")
	}

	_, err := f.installer(t, list).Install(context.Background(), toolchain.InstallRequest{})
	assert.Error(t, err)
}

func TestInstallCustomListCommands(t *testing.T) {
	f := newFixture(t, `{"files": []}`)
	var gotBinary string
	list := func(ctx context.Context, binary string) ([]string, error) {
		gotBinary = binary
		return []string{"cat", "", "sh", "../escape"}, nil
	}

	res, err := f.installer(t, list).Install(context.Background(), toolchain.InstallRequest{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, "bin", "busybox"), gotBinary)
	assert.Equal(t, 2, res.Commands)
	assert.Equal(t, 0, res.Links)
	_, err = os.Lstat(filepath.Join(f.root, "escape"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestInstallMissingArchive(t *testing.T) {
	f := newFixture(t, defaultManifest)
	f.archive = filepath.Join(t.TempDir(), "missing.zip")

	_, err := f.installer(t, nil).Install(context.Background(), toolchain.InstallRequest{})
	require.Error(t, err)

	_, err = os.Lstat(f.root)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNewInstallerInvalidConfig(t *testing.T) {
	tests := map[string]toolchain.InstallerConfig{
		"Missing root should fail.":     {ArchivePath: "a.zip", ManifestPath: "m.json"},
		"Missing archive should fail.":  {Root: "/r", ManifestPath: "m.json"},
		"Missing manifest should fail.": {Root: "/r", ArchivePath: "a.zip"},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := toolchain.NewInstaller(cfg)
			assert.Error(t, err)
		})
	}
}
