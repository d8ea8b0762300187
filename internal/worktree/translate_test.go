package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/vcs"
)

func TestFractions(t *testing.T) {
	tests := map[string]struct {
		transfer    vcs.TransferProgress
		expClone    int64
		expFetch    int64
		checkout    vcs.CheckoutProgress
		expCheckout int64
	}{
		"Nothing known should be zero.": {},
		"Half received.": {
			transfer: vcs.TransferProgress{TotalObjects: 100, ReceivedObjects: 50},
			expClone: 5000 / 4,
			expFetch: 5000 / 3,
		},
		"All received without deltas should resolve deltas.": {
			transfer: vcs.TransferProgress{TotalObjects: 100, ReceivedObjects: 100, IndexedObjects: 100},
			expClone: 30000 / 4,
			expFetch: 10000,
		},
		"Deltas should only count once everything is received.": {
			transfer: vcs.TransferProgress{TotalObjects: 100, ReceivedObjects: 99, TotalDeltas: 10, IndexedDeltas: 10},
			expClone: 9900 / 4,
			expFetch: 9900 / 3,
		},
		"Everything done.": {
			transfer: vcs.TransferProgress{
				TotalObjects: 10, ReceivedObjects: 10, IndexedObjects: 10,
				TotalDeltas: 4, IndexedDeltas: 4,
				TotalSteps: 3, CompletedSteps: 3,
			},
			expClone:    10000,
			expFetch:    10000,
			checkout:    vcs.CheckoutProgress{TotalSteps: 3, CompletedSteps: 3},
			expCheckout: 10000,
		},
		"Partial checkout.": {
			checkout:    vcs.CheckoutProgress{TotalSteps: 4, CompletedSteps: 1},
			expCheckout: 2500,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expClone, CloneFraction(test.transfer))
			assert.Equal(t, test.expFetch, FetchFraction(test.transfer))
			assert.Equal(t, test.expCheckout, CheckoutFraction(test.checkout))
		})
	}
}

func TestTransferTrackerOnlyMovesForward(t *testing.T) {
	u := progress.NewUnit(progress.KindFetchRepository, ProgressScale)
	tr := newTransferTracker(u, FetchFraction)

	tr.report(vcs.TransferProgress{TotalObjects: 10, ReceivedObjects: 6, IndexedObjects: 6})
	first := u.Current()
	assert.Equal(t, int64(4000), first)

	// A phase restarting its totals must not move the unit back.
	tr.report(vcs.TransferProgress{TotalObjects: 20, ReceivedObjects: 6})
	assert.Equal(t, first, u.Current())

	tr.report(vcs.TransferProgress{TotalObjects: 20, ReceivedObjects: 20, IndexedObjects: 20})
	assert.Equal(t, ProgressScale, u.Current())
}

func TestTransferTrackerPublishesChangedMessages(t *testing.T) {
	u := progress.NewUnit(progress.KindCloneRepository, ProgressScale)
	tr := newTransferTracker(u, CloneFraction)

	tr.report(vcs.TransferProgress{})
	assert.Nil(t, u.Aux(), "the empty message is not a change")

	tr.report(vcs.TransferProgress{SidebandMessage: "Counting objects: 100% (5/5), done."})
	assert.Equal(t, "Counting objects: 100% (5/5), done.", u.Aux())

	// The same text is not published again.
	u.SetAux("overwritten")
	tr.report(vcs.TransferProgress{SidebandMessage: "Counting objects: 100% (5/5), done."})
	assert.Equal(t, "overwritten", u.Aux())

	tr.report(vcs.TransferProgress{SidebandMessage: "Total 5 (delta 0)"})
	assert.Equal(t, "Total 5 (delta 0)", u.Aux())
}

func TestCheckoutTracker(t *testing.T) {
	u := progress.NewUnit(progress.KindCheckoutRepository, ProgressScale)
	tr := &checkoutTracker{unit: u}

	tr.report(vcs.CheckoutProgress{TotalSteps: 4, CompletedSteps: 2})
	assert.Equal(t, int64(5000), u.Current())
	tr.report(vcs.CheckoutProgress{TotalSteps: 4, CompletedSteps: 1})
	assert.Equal(t, int64(5000), u.Current())
	tr.report(vcs.CheckoutProgress{TotalSteps: 0, CompletedSteps: 0})
	assert.Equal(t, int64(5000), u.Current())
}
