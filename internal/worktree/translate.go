package worktree

import (
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/vcs"
)

// ProgressScale is the total of every git progress unit.
const ProgressScale int64 = 10000

func scaled(n, d int64) int64 {
	if d <= 0 {
		return 0
	}
	return ProgressScale * n / d
}

// deltaFraction only starts once every object has been received, a
// transfer without deltas resolves them instantly.
func deltaFraction(p vcs.TransferProgress) int64 {
	if p.TotalObjects <= 0 || p.ReceivedObjects != p.TotalObjects {
		return 0
	}
	if p.TotalDeltas <= 0 {
		return ProgressScale
	}
	return scaled(p.IndexedDeltas, p.TotalDeltas)
}

// CloneFraction blends receive, index, checkout and delta resolution.
func CloneFraction(p vcs.TransferProgress) int64 {
	network := scaled(p.ReceivedObjects, p.TotalObjects)
	index := scaled(p.IndexedObjects, p.TotalObjects)
	checkout := scaled(p.CompletedSteps, p.TotalSteps)
	return (network + index + checkout + deltaFraction(p)) / 4
}

// FetchFraction blends receive, index and delta resolution.
func FetchFraction(p vcs.TransferProgress) int64 {
	network := scaled(p.ReceivedObjects, p.TotalObjects)
	index := scaled(p.IndexedObjects, p.TotalObjects)
	return (network + index + deltaFraction(p)) / 3
}

// CheckoutFraction is the completed step ratio.
func CheckoutFraction(p vcs.CheckoutProgress) int64 {
	return scaled(p.CompletedSteps, p.TotalSteps)
}

// transferTracker feeds backend callbacks into a unit. The unit only moves
// forward and the sideband message is only published when it changes.
// Backends don't call it concurrently.
type transferTracker struct {
	unit     *progress.Unit
	fraction func(vcs.TransferProgress) int64
	last     int64
	message  string
}

func newTransferTracker(unit *progress.Unit, fraction func(vcs.TransferProgress) int64) *transferTracker {
	return &transferTracker{unit: unit, fraction: fraction}
}

func (t *transferTracker) report(p vcs.TransferProgress) {
	if p.SidebandMessage != t.message {
		t.message = p.SidebandMessage
		t.unit.SetAux(t.message)
	}
	if v := t.fraction(p); v > t.last {
		t.last = v
		t.unit.Set(v)
	}
}

type checkoutTracker struct {
	unit *progress.Unit
	last int64
}

func (t *checkoutTracker) report(p vcs.CheckoutProgress) {
	if v := CheckoutFraction(p); v > t.last {
		t.last = v
		t.unit.Set(v)
	}
}
