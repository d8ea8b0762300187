package gogit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/vcs"
)

func TestProgressWriter(t *testing.T) {
	var got []vcs.TransferProgress
	w := newProgressWriter(func(p vcs.TransferProgress) { got = append(got, p) })

	writes := []string{
		"Enumerating objects: 12, done.\n",
		"Counting objects:  50% (6/12)\rCounting objects: 100% (12/12), done.\n",
		"Total 12 (delta 3), reused 0 (delta 0), pack-reused 0\n",
		"remote: Receiving objects:  50% (6/12)\r",
		"Resolving del",
		"tas:  33% (1/3)\r",
		"\n",
	}
	for _, s := range writes {
		n, err := w.Write([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, len(s), n)
	}

	require.Len(t, got, 6)
	assert.Equal(t, "Enumerating objects: 12, done.", got[0].SidebandMessage)
	assert.Equal(t, "Counting objects: 100% (12/12), done.", got[2].SidebandMessage)
	assert.Equal(t, int64(12), got[3].TotalObjects)
	assert.Equal(t, int64(3), got[3].TotalDeltas)
	assert.Equal(t, int64(6), got[4].ReceivedObjects)
	assert.Equal(t, "Receiving objects:  50% (6/12)", got[4].SidebandMessage)
	assert.Equal(t, int64(1), got[5].IndexedDeltas)

	w.complete(7)
	last := got[len(got)-1]
	assert.Equal(t, vcs.TransferProgress{
		TotalObjects:    12,
		ReceivedObjects: 12,
		IndexedObjects:  12,
		TotalDeltas:     3,
		IndexedDeltas:   3,
		TotalSteps:      7,
		CompletedSteps:  7,
		SidebandMessage: "Resolving deltas:  33% (1/3)",
	}, last)
}

func TestProgressWriterFlushesPendingLine(t *testing.T) {
	var got []vcs.TransferProgress
	w := newProgressWriter(func(p vcs.TransferProgress) { got = append(got, p) })

	_, err := w.Write([]byte("Total 4 (delta 0)"))
	require.NoError(t, err)
	assert.Empty(t, got)

	w.complete(0)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[1].ReceivedObjects)
	assert.Equal(t, "Total 4 (delta 0)", got[1].SidebandMessage)
}

func TestProgressWriterWithoutCallback(t *testing.T) {
	w := newProgressWriter(nil)
	_, err := w.Write([]byte("Receiving objects: 100% (1/1)\n"))
	require.NoError(t, err)
	w.complete(1)
}

func TestProgressWriterServerOnlyStream(t *testing.T) {
	var got []vcs.TransferProgress
	w := newProgressWriter(func(p vcs.TransferProgress) { got = append(got, p) })

	// go-git only forwards what the server writes to the sideband.
	_, err := w.Write([]byte("Counting objects: 100% (40/40), done.\nCompressing objects: 100% (30/30), done.\nTotal 40 (delta 9), reused 0 (delta 0), pack-reused 0\n"))
	require.NoError(t, err)

	require.Len(t, got, 3)
	for _, p := range got {
		assert.Zero(t, p.ReceivedObjects)
		assert.Zero(t, p.IndexedObjects)
		assert.Zero(t, p.IndexedDeltas)
	}
	assert.Equal(t, int64(40), got[2].TotalObjects)
	assert.Equal(t, int64(9), got[2].TotalDeltas)

	w.complete(5)
	last := got[len(got)-1]
	assert.Equal(t, int64(40), last.ReceivedObjects)
	assert.Equal(t, int64(40), last.IndexedObjects)
	assert.Equal(t, int64(9), last.IndexedDeltas)
	assert.Equal(t, int64(5), last.CompletedSteps)
}
