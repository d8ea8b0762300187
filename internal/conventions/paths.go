package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default zabuton data directory name (relative to home).
	DefaultDataDir = ".zabuton"
	// DefaultConfigFile is the optional settings file name inside the data directory.
	DefaultConfigFile = "config.yaml"

	// Toolchain install tree.

	// ToolchainRootDir is the installed toolchain directory.
	ToolchainRootDir = "root"
	// StagingSuffix is appended to the root for the extraction staging directory.
	StagingSuffix = ".tmp"
	// PreviousSuffix is appended to the root for the replaced install during a swap.
	PreviousSuffix = ".old"
	// MultiCallBinary is the busybox style binary path relative to the toolchain root.
	MultiCallBinary = "bin/busybox"
	// SymlinkDir is where the generated multi-call symlinks live, relative to the toolchain root.
	SymlinkDir = "bin"

	// Bundle files.

	// ToolchainArchiveFile is the bundled toolchain archive.
	ToolchainArchiveFile = "toolchain.zip"
	// SymlinkManifestFile is the bundled declarative symlink manifest.
	SymlinkManifestFile = "symlinkMaps.json"

	// WorktreesDir is the subdirectory for workspace worktrees.
	WorktreesDir = "worktrees"
	// CacheDir is the subdirectory for downloads.
	CacheDir = "cache"
	// CABundleFile is the stable root certificate bundle path used by git.
	CABundleFile = "root-cacert.pem"
)

// ExecutableDirs are the toolchain directories whose files get owner rwx.
var ExecutableDirs = []string{"avr", "bin", "libexec"}

// ToolchainRoot returns the installed toolchain directory.
func ToolchainRoot(dataDir string) string {
	return filepath.Join(dataDir, ToolchainRootDir)
}

// StagingPath returns the extraction staging directory of an install root.
func StagingPath(root string) string { return root + StagingSuffix }

// PreviousPath returns the aside directory of an install root.
func PreviousPath(root string) string { return root + PreviousSuffix }

// WorktreesPath returns the parent directory of the worktrees.
func WorktreesPath(dataDir string) string {
	return filepath.Join(dataDir, WorktreesDir)
}

// WorktreePath returns the root of a workspace worktree.
func WorktreePath(parent, workspaceID string) string {
	return filepath.Join(parent, workspaceID)
}

// CachePath returns the download cache directory.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, CacheDir)
}

// CABundlePath returns the on disk root certificate bundle path.
func CABundlePath(dataDir string) string {
	return filepath.Join(dataDir, CABundleFile)
}

// ToolchainArchivePath returns the bundled toolchain archive path.
func ToolchainArchivePath(bundleDir string) string {
	return filepath.Join(bundleDir, ToolchainArchiveFile)
}

// SymlinkManifestPath returns the bundled symlink manifest path.
func SymlinkManifestPath(bundleDir string) string {
	return filepath.Join(bundleDir, SymlinkManifestFile)
}
