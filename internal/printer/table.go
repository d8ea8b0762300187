package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/toolchain"
	"github.com/sh4/zabuton/internal/vcs"
)

// TablePrinter prints zabuton information in a table format.
type TablePrinter struct {
	writer io.Writer
}

var _ Printer = &TablePrinter{}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintWorktrees prints worktree registrations in a table format.
func (t *TablePrinter) PrintWorktrees(recs []model.WorktreeRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "WORKSPACE\tNAME\tKIND\tROOT\tSOURCE")
	for _, r := range recs {
		source := r.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Workspace.ID, r.Workspace.Name, r.Kind, r.Root, source)
	}

	return nil
}

// PrintGitInfo prints the state of a git worktree.
func (t *TablePrinter) PrintGitInfo(info GitInfo) error {
	head := info.Head
	if head == "" {
		head = "(detached)"
	}

	fmt.Fprintf(t.writer, "Root:       %s\n", info.Root)
	fmt.Fprintf(t.writer, "Head:       %s\n", head)
	fmt.Fprintf(t.writer, "Branches:   %s\n", joinOrNone(info.LocalBranches))
	fmt.Fprintf(t.writer, "Remote:     %s\n", joinOrNone(info.RemoteBranches))
	fmt.Fprintf(t.writer, "Tags:       %s\n", joinOrNone(info.Tags))

	if len(info.Remotes) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer)
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "REMOTE\tFETCH\tPUSH")
	for _, r := range info.Remotes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.FetchURL, r.PushURL)
	}

	return nil
}

// PrintLog prints commits one per row, newest first.
func (t *TablePrinter) PrintLog(commits []vcs.Commit) error {
	if len(commits) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "HASH\tAUTHOR\tWHEN\tMESSAGE")
	for _, c := range commits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortHash(c.Hash), c.Author.Name, TimeAgo(c.Committer.When), subject(c.Message))
	}

	return nil
}

// PrintInstall prints an install summary.
func (t *TablePrinter) PrintInstall(res toolchain.InstallResult) error {
	fmt.Fprintf(t.writer, "Root:       %s\n", res.Root)
	fmt.Fprintf(t.writer, "Files:      %d (%s)\n", res.Extract.Files, FormatBytes(res.Extract.Bytes))
	fmt.Fprintf(t.writer, "Commands:   %d\n", res.Commands)
	fmt.Fprintf(t.writer, "Links:      %d\n", res.Links)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func subject(msg string) string {
	s, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return s
}
