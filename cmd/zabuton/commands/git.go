package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/printer"
	"github.com/sh4/zabuton/internal/vcs"
	"github.com/sh4/zabuton/internal/worktree"
)

// openGitWorktree opens the git worktree registered for the workspace.
func (c *RootCommand) openGitWorktree(ctx context.Context, workspaceID string) (*worktree.GitWorktree, error) {
	id, err := model.ParseWorkspaceID(workspaceID)
	if err != nil {
		return nil, err
	}

	repo, err := c.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := repo.GetWorktree(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get worktree: %w", err)
	}
	if rec.Kind != model.WorktreeKindGit {
		return nil, fmt.Errorf("worktree %s is a %s worktree, not git: %w", id, rec.Kind, model.ErrNotValid)
	}

	git, err := c.newGitFactory()
	if err != nil {
		return nil, err
	}
	wt, err := git.Open(rec.Workspace, rec.Root, rec.Source)
	if err != nil {
		return nil, fmt.Errorf("could not open git worktree: %w", err)
	}

	return wt, nil
}

// GitInfoCommand shows the refs of a git worktree.
type GitInfoCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
	format      string
}

// NewGitInfoCommand returns the git info command.
func NewGitInfoCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *GitInfoCommand {
	c := &GitInfoCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("info", "Show HEAD, branches, tags and remotes of a git worktree.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c GitInfoCommand) Name() string { return c.Cmd.FullCommand() }

func (c GitInfoCommand) Run(ctx context.Context) error {
	wt, err := c.rootCmd.openGitWorktree(ctx, c.workspaceID)
	if err != nil {
		return err
	}

	info := printer.GitInfo{Root: wt.Root()}
	if info.Head, err = wt.HeadName(); err != nil {
		return fmt.Errorf("could not get head: %w", err)
	}
	if info.LocalBranches, err = wt.LocalBranchNames(); err != nil {
		return fmt.Errorf("could not list local branches: %w", err)
	}
	if info.RemoteBranches, err = wt.RemoteBranchNames(); err != nil {
		return fmt.Errorf("could not list remote branches: %w", err)
	}
	if info.Tags, err = wt.TagNames(); err != nil {
		return fmt.Errorf("could not list tags: %w", err)
	}
	if info.Remotes, err = wt.Remotes(); err != nil {
		return fmt.Errorf("could not list remotes: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintGitInfo(info); err != nil {
		return fmt.Errorf("could not print git info: %w", err)
	}

	return nil
}

// GitFetchCommand fetches a remote of a git worktree.
type GitFetchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
	remote      string
}

// NewGitFetchCommand returns the git fetch command.
func NewGitFetchCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *GitFetchCommand {
	c := &GitFetchCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("fetch", "Fetch a remote.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)
	c.Cmd.Flag("remote", "Remote name.").Default("origin").StringVar(&c.remote)

	return c
}

func (c GitFetchCommand) Name() string { return c.Cmd.FullCommand() }

func (c GitFetchCommand) Run(ctx context.Context) error {
	wt, err := c.rootCmd.openGitWorktree(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	consumer, err := c.rootCmd.progressConsumer()
	if err != nil {
		return err
	}

	if err := wt.Fetch(ctx, c.remote, worktree.ProgressOptions{Consumer: consumer}); err != nil {
		return fmt.Errorf("could not fetch %s: %w", c.remote, err)
	}
	c.rootCmd.Logger.Infof("Fetched %s", c.remote)

	return nil
}

// GitCheckoutCommand checks out a revision in a git worktree.
type GitCheckoutCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
	refspec     string
}

// NewGitCheckoutCommand returns the git checkout command.
func NewGitCheckoutCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *GitCheckoutCommand {
	c := &GitCheckoutCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("checkout", "Check out a branch, tag or commit.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)
	c.Cmd.Arg("refspec", "Branch, tag or commit hash.").Required().StringVar(&c.refspec)

	return c
}

func (c GitCheckoutCommand) Name() string { return c.Cmd.FullCommand() }

func (c GitCheckoutCommand) Run(ctx context.Context) error {
	wt, err := c.rootCmd.openGitWorktree(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	consumer, err := c.rootCmd.progressConsumer()
	if err != nil {
		return err
	}

	if err := wt.Checkout(ctx, c.refspec, worktree.ProgressOptions{Consumer: consumer}); err != nil {
		return fmt.Errorf("could not checkout %s: %w", c.refspec, err)
	}

	return nil
}

// GitResetCommand resets a git worktree to HEAD.
type GitResetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
	mode        string
}

// NewGitResetCommand returns the git reset command.
func NewGitResetCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *GitResetCommand {
	c := &GitResetCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("reset", "Reset the worktree to HEAD.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)
	c.Cmd.Flag("mode", "Reset mode.").Default(vcs.ResetHard.String()).EnumVar(&c.mode,
		vcs.ResetSoft.String(), vcs.ResetMixed.String(), vcs.ResetHard.String())

	return c
}

func (c GitResetCommand) Name() string { return c.Cmd.FullCommand() }

func (c GitResetCommand) Run(ctx context.Context) error {
	kind, err := vcs.ParseResetKind(c.mode)
	if err != nil {
		return err
	}

	wt, err := c.rootCmd.openGitWorktree(ctx, c.workspaceID)
	if err != nil {
		return err
	}
	consumer, err := c.rootCmd.progressConsumer()
	if err != nil {
		return err
	}

	if err := wt.Reset(ctx, kind, worktree.ProgressOptions{Consumer: consumer}); err != nil {
		return fmt.Errorf("could not reset: %w", err)
	}

	return nil
}

// GitLogCommand shows the history from HEAD.
type GitLogCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
	max         int
	format      string
}

// NewGitLogCommand returns the git log command.
func NewGitLogCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *GitLogCommand {
	c := &GitLogCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("log", "Show the commit history from HEAD.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)
	c.Cmd.Flag("max-count", "Maximum number of commits, 0 shows all.").Short('n').Default("20").IntVar(&c.max)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c GitLogCommand) Name() string { return c.Cmd.FullCommand() }

func (c GitLogCommand) Run(ctx context.Context) error {
	wt, err := c.rootCmd.openGitWorktree(ctx, c.workspaceID)
	if err != nil {
		return err
	}

	var commits []vcs.Commit
	err = wt.Log(ctx, func(cm vcs.Commit) bool {
		commits = append(commits, cm)
		return c.max <= 0 || len(commits) < c.max
	})
	if err != nil {
		return fmt.Errorf("could not walk history: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintLog(commits); err != nil {
		return fmt.Errorf("could not print log: %w", err)
	}

	return nil
}
