package commands

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/sh4/zabuton/internal/app/workspace"
	"github.com/sh4/zabuton/internal/app/worktreecreate"
	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/model"
)

// WorktreeCreateCommand creates a worktree of one kind for a new workspace.
type WorktreeCreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	kind    model.WorktreeKind
	source  string
	name    string
	comment string
	format  string
}

// NewWorktreeCreateCommand returns the worktree create command for kind.
func NewWorktreeCreateCommand(rootCmd *RootCommand, parent *kingpin.CmdClause, kind model.WorktreeKind) *WorktreeCreateCommand {
	c := &WorktreeCreateCommand{rootCmd: rootCmd, kind: kind}

	switch kind {
	case model.WorktreeKindZipFile:
		c.Cmd = parent.Command("zip", "Create a worktree from a zip archive.")
		c.Cmd.Arg("url", "file, http or https URL of the archive.").Required().StringVar(&c.source)
	case model.WorktreeKindGit:
		c.Cmd = parent.Command("git", "Create a worktree cloning a git repository.")
		c.Cmd.Arg("url", "Repository URL.").Required().StringVar(&c.source)
	default:
		c.Cmd = parent.Command("dir", "Register an existing directory as a worktree.")
		c.Cmd.Arg("path", "Directory path.").Required().ExistingDirVar(&c.source)
	}
	c.Cmd.Flag("name", "Workspace name, defaults to the source base name.").StringVar(&c.name)
	c.Cmd.Flag("comment", "Workspace comment.").StringVar(&c.comment)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c WorktreeCreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c WorktreeCreateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	zipFiles, err := c.rootCmd.newZipFileFactory()
	if err != nil {
		return err
	}
	git, err := c.rootCmd.newGitFactory()
	if err != nil {
		return err
	}

	svc, err := worktreecreate.NewService(worktreecreate.ServiceConfig{
		ZipFiles:   zipFiles,
		Git:        git,
		Workspaces: repo,
		Worktrees:  repo,
		Parent:     conventions.WorktreesPath(c.rootCmd.Settings.DataDir),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	consumer, err := c.rootCmd.progressConsumer()
	if err != nil {
		return err
	}

	ws := model.NewWorkspace(workspaceName(c.name, c.source))
	ws.Comment = c.comment
	wt, err := svc.Run(ctx, worktreecreate.Request{
		Workspace: ws,
		Kind:      c.kind,
		Source:    c.source,
		Consumer:  consumer,
	})
	if err != nil {
		return err
	}

	if err := c.rootCmd.newPrinter(c.format).PrintWorktrees([]model.WorktreeRecord{wt.Record()}); err != nil {
		return fmt.Errorf("could not print worktree: %w", err)
	}

	return nil
}

// workspaceName falls back to the source base name without extensions.
func workspaceName(name, source string) string {
	if name != "" {
		return name
	}

	base := path.Base(filepath.ToSlash(strings.TrimRight(source, `/\`)))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "workspace"
	}
	return base
}

// WorktreeListCommand lists the worktrees of the data directory.
type WorktreeListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewWorktreeListCommand returns the worktree list command.
func NewWorktreeListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *WorktreeListCommand {
	c := &WorktreeListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List worktrees.")
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c WorktreeListCommand) Name() string { return c.Cmd.FullCommand() }

func (c WorktreeListCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}

	recs, err := repo.ListWorktrees(ctx)
	if err != nil {
		return fmt.Errorf("could not list worktrees: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintWorktrees(recs); err != nil {
		return fmt.Errorf("could not print worktrees: %w", err)
	}

	return nil
}

// WorktreeRemoveCommand deletes a workspace and its worktree.
type WorktreeRemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	workspaceID string
}

// NewWorktreeRemoveCommand returns the worktree rm command.
func NewWorktreeRemoveCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *WorktreeRemoveCommand {
	c := &WorktreeRemoveCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("rm", "Delete a workspace and its worktree permanently.")
	c.Cmd.Arg("workspace-id", "Workspace ID.").Required().StringVar(&c.workspaceID)

	return c
}

func (c WorktreeRemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c WorktreeRemoveCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	id, err := model.ParseWorkspaceID(c.workspaceID)
	if err != nil {
		return err
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	remover, err := c.rootCmd.newWorktreeRemover(repo, nil)
	if err != nil {
		return err
	}

	svc, err := workspace.NewService(workspace.ServiceConfig{
		Repository:      repo,
		WorktreeRemover: remover,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	if err := svc.DeletePermanently(ctx, id); err != nil {
		return err
	}

	if err := c.rootCmd.newPrinter(formatTable).PrintMessage(fmt.Sprintf("Workspace %s removed", id)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
