// Package vcs has the version control capabilities worktrees are built on.
// The engine itself lives in the backend implementations.
package vcs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sh4/zabuton/internal/model"
)

// TransferProgress is the progress of a network operation.
type TransferProgress struct {
	TotalObjects    int64
	ReceivedObjects int64
	IndexedObjects  int64
	LocalObjects    int64
	TotalDeltas     int64
	IndexedDeltas   int64
	ReceivedBytes   int64
	// TotalSteps and CompletedSteps are the checkout that follows a clone.
	TotalSteps     int64
	CompletedSteps int64
	// SidebandMessage is the latest remote status line.
	SidebandMessage string
}

// CheckoutProgress is the progress of a working tree update.
type CheckoutProgress struct {
	TotalSteps     int64
	CompletedSteps int64
}

// TransferFunc receives transfer progress, it can be called many times with
// the same values.
type TransferFunc func(TransferProgress)

// CheckoutFunc receives checkout progress.
type CheckoutFunc func(CheckoutProgress)

// ResetKind is how much of the repository a reset touches.
type ResetKind int

const (
	ResetSoft ResetKind = iota
	ResetMixed
	ResetHard
)

func (r ResetKind) String() string {
	switch r {
	case ResetSoft:
		return "soft"
	case ResetMixed:
		return "mixed"
	case ResetHard:
		return "hard"
	}
	return "unknown"
}

// ParseResetKind returns the reset kind for its string form.
func ParseResetKind(s string) (ResetKind, error) {
	switch strings.ToLower(s) {
	case "soft":
		return ResetSoft, nil
	case "mixed":
		return ResetMixed, nil
	case "hard":
		return ResetHard, nil
	}
	return 0, fmt.Errorf("unknown reset kind %q: %w", s, model.ErrNotValid)
}

// Signature is the author or committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is a commit of the history.
type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// Remote is a configured remote.
type Remote struct {
	Name     string
	FetchURL string
	// PushURL is empty when the remote pushes to the fetch URL.
	PushURL string
}

// Backend clones and opens repositories.
type Backend interface {
	Clone(ctx context.Context, url, dest string, fn TransferFunc) (Repository, error)
	Open(path string) (Repository, error)
}

// Repository is an opened repository with a working tree.
type Repository interface {
	Fetch(ctx context.Context, remote string, fn TransferFunc) error
	// Checkout updates the working tree to refspec, a branch, remote branch,
	// tag or revision.
	Checkout(ctx context.Context, refspec string, fn CheckoutFunc) error
	// Reset resets to HEAD.
	Reset(ctx context.Context, kind ResetKind, fn CheckoutFunc) error
	// Log walks the history from HEAD, newest first, until fn returns false.
	Log(ctx context.Context, fn func(Commit) bool) error
	// HeadName returns the checked out branch, empty when detached.
	HeadName() (string, error)
	LocalBranchNames() ([]string, error)
	RemoteBranchNames() ([]string, error)
	TagNames() ([]string, error)
	Remotes() ([]Remote, error)
}

//go:generate mockery --case underscore --output vcsmock --outpkg vcsmock --name Backend --structname MockBackend --filename backend.go
//go:generate mockery --case underscore --output vcsmock --outpkg vcsmock --name Repository --structname MockRepository --filename repository.go
