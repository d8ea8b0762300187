package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/toolchain"
	"github.com/sh4/zabuton/internal/vcs"
)

// JSONPrinter prints zabuton information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

var _ Printer = &JSONPrinter{}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type worktreeOutput struct {
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	Kind          string `json:"kind"`
	Root          string `json:"root"`
	Source        string `json:"source,omitempty"`
}

type remoteOutput struct {
	Name     string `json:"name"`
	FetchURL string `json:"fetch_url"`
	PushURL  string `json:"push_url,omitempty"`
}

type gitInfoOutput struct {
	Root           string         `json:"root"`
	Head           string         `json:"head"`
	Detached       bool           `json:"detached"`
	LocalBranches  []string       `json:"local_branches"`
	RemoteBranches []string       `json:"remote_branches"`
	Tags           []string       `json:"tags"`
	Remotes        []remoteOutput `json:"remotes"`
}

type commitOutput struct {
	Hash        string    `json:"hash"`
	Parents     []string  `json:"parents"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	When        time.Time `json:"when"`
	Message     string    `json:"message"`
}

type installOutput struct {
	Root     string `json:"root"`
	Entries  int    `json:"entries"`
	Files    int    `json:"files"`
	Bytes    int64  `json:"bytes"`
	Commands int    `json:"commands"`
	Links    int    `json:"links"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintWorktrees prints worktree registrations in JSON format.
func (j *JSONPrinter) PrintWorktrees(recs []model.WorktreeRecord) error {
	items := make([]worktreeOutput, len(recs))
	for i, r := range recs {
		items[i] = worktreeOutput{
			WorkspaceID:   r.Workspace.ID.String(),
			WorkspaceName: r.Workspace.Name,
			Kind:          string(r.Kind),
			Root:          r.Root,
			Source:        r.Source,
		}
	}
	return j.encode(items)
}

// PrintGitInfo prints the state of a git worktree in JSON format.
func (j *JSONPrinter) PrintGitInfo(info GitInfo) error {
	output := gitInfoOutput{
		Root:           info.Root,
		Head:           info.Head,
		Detached:       info.Head == "",
		LocalBranches:  nonNil(info.LocalBranches),
		RemoteBranches: nonNil(info.RemoteBranches),
		Tags:           nonNil(info.Tags),
		Remotes:        make([]remoteOutput, len(info.Remotes)),
	}
	for i, r := range info.Remotes {
		output.Remotes[i] = remoteOutput{Name: r.Name, FetchURL: r.FetchURL, PushURL: r.PushURL}
	}
	return j.encode(output)
}

// PrintLog prints commits in JSON format.
func (j *JSONPrinter) PrintLog(commits []vcs.Commit) error {
	items := make([]commitOutput, len(commits))
	for i, c := range commits {
		items[i] = commitOutput{
			Hash:        c.Hash,
			Parents:     nonNil(c.ParentHashes),
			Author:      c.Author.Name,
			AuthorEmail: c.Author.Email,
			When:        c.Committer.When.UTC(),
			Message:     c.Message,
		}
	}
	return j.encode(items)
}

// PrintInstall prints an install summary in JSON format.
func (j *JSONPrinter) PrintInstall(res toolchain.InstallResult) error {
	return j.encode(installOutput{
		Root:     res.Root,
		Entries:  res.Extract.Entries,
		Files:    res.Extract.Files,
		Bytes:    res.Extract.Bytes,
		Commands: res.Commands,
		Links:    res.Links,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
