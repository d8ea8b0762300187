package printer

import (
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/toolchain"
	"github.com/sh4/zabuton/internal/vcs"
)

// Printer knows how to print zabuton information in different formats.
type Printer interface {
	PrintWorktrees(recs []model.WorktreeRecord) error
	PrintGitInfo(info GitInfo) error
	PrintLog(commits []vcs.Commit) error
	PrintInstall(res toolchain.InstallResult) error
	PrintMessage(msg string) error
}

// GitInfo is the state of a git worktree.
type GitInfo struct {
	Root           string
	Head           string
	LocalBranches  []string
	RemoteBranches []string
	Tags           []string
	Remotes        []vcs.Remote
}
