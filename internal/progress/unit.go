package progress

import (
	"sync/atomic"
)

// Kind is the pipeline stage a unit reports for.
type Kind int

const (
	KindExtractArchive Kind = iota
	KindDownloadFile
	KindCloneRepository
	KindFetchRepository
	KindCheckoutRepository
	KindResetRepository
)

func (k Kind) String() string {
	switch k {
	case KindExtractArchive:
		return "ExtractArchive"
	case KindDownloadFile:
		return "DownloadFile"
	case KindCloneRepository:
		return "CloneRepository"
	case KindFetchRepository:
		return "FetchRepository"
	case KindCheckoutRepository:
		return "CheckoutRepository"
	case KindResetRepository:
		return "ResetRepository"
	}
	return "Unknown"
}

// Unknown is the total of a unit whose size can't be known upfront.
const Unknown int64 = -1

// Unit is the completion counter of a single stage. Mutators and readers can
// be called concurrently from any goroutine.
type Unit struct {
	kind     Kind
	total    int64
	current  atomic.Int64
	finished atomic.Bool
	aux      atomic.Value
}

type auxBox struct{ v any }

// NewUnit returns a unit with nothing done. Negative totals are Unknown.
func NewUnit(kind Kind, total int64) *Unit {
	if total < 0 {
		total = Unknown
	}
	return &Unit{kind: kind, total: total}
}

func (u *Unit) Kind() Kind { return u.kind }

func (u *Unit) Total() int64 { return u.total }

// Known reports if the unit has a known total.
func (u *Unit) Known() bool { return u.total != Unknown }

// Advance adds delta to the current value.
func (u *Unit) Advance(delta int64) { u.current.Add(delta) }

// Set stores an absolute current value.
func (u *Unit) Set(v int64) { u.current.Store(v) }

// Finish completes the unit. Mutating a finished unit is a caller bug and is
// not guarded.
func (u *Unit) Finish() {
	if u.finished.Load() {
		return
	}
	if u.Known() {
		u.current.Store(u.total)
	}
	// Current must be visible before finished.
	u.finished.Store(true)
}

// Finished reports if the unit has completed.
func (u *Unit) Finished() bool { return u.finished.Load() }

// Current returns the current value, clamped to [0, total] when the total is
// known.
func (u *Unit) Current() int64 {
	c := u.current.Load()
	if !u.Known() {
		return c
	}
	return min(max(c, 0), u.total)
}

// Percent returns the completed percentage, false when the total is unknown.
func (u *Unit) Percent() (float64, bool) {
	if !u.Known() {
		return 0, false
	}
	if u.total == 0 {
		if u.Finished() {
			return 100, true
		}
		return 0, true
	}
	return float64(u.Current()) / float64(u.total) * 100, true
}

// SetAux replaces the auxiliary payload, last write wins.
func (u *Unit) SetAux(v any) { u.aux.Store(auxBox{v: v}) }

// Aux returns the auxiliary payload, nil if never set.
func (u *Unit) Aux() any {
	b, ok := u.aux.Load().(auxBox)
	if !ok {
		return nil
	}
	return b.v
}
