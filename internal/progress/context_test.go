package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/progress"
)

func collect(kinds *[]progress.Kind) progress.Consumer {
	return func(ctx context.Context, units <-chan *progress.Unit) {
		for u := range units {
			*kinds = append(*kinds, u.Kind())
		}
	}
}

func TestContextDeliversInOrder(t *testing.T) {
	var got []progress.Kind
	pc := progress.NewContext(context.Background(), collect(&got))

	exp := []progress.Kind{
		progress.KindDownloadFile,
		progress.KindExtractArchive,
		progress.KindCloneRepository,
		progress.KindFetchRepository,
		progress.KindCheckoutRepository,
	}
	for _, k := range exp {
		pc.Next(k, 1).Finish()
	}
	pc.Close(nil)

	assert.Equal(t, exp, got)
}

func TestContextNextNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	var got []progress.Kind
	pc := progress.NewContext(context.Background(), func(ctx context.Context, units <-chan *progress.Unit) {
		<-release
		for u := range units {
			got = append(got, u.Kind())
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 1000 {
			pc.Next(progress.KindExtractArchive, 0).Finish()
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer blocked on a slow consumer")
	}

	close(release)
	pc.Close(nil)
	assert.Len(t, got, 1000)
}

func TestContextCloseTwicePanics(t *testing.T) {
	pc := progress.NewContext(context.Background(), nil)
	pc.Close(nil)
	assert.Panics(t, func() { pc.Close(nil) })
}

func TestContextCloseWithErrorCancelsConsumer(t *testing.T) {
	started := make(chan struct{})
	pc := progress.NewContext(context.Background(), func(ctx context.Context, units <-chan *progress.Unit) {
		<-units
		close(started)
		<-ctx.Done()
	})

	// The unit never finishes, a failed producer closes with its error.
	pc.Next(progress.KindDownloadFile, 100)
	<-started

	done := make(chan struct{})
	go func() {
		pc.Close(errors.New("network down"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not cancel the consumer")
	}
}

func TestContextConsumerReturningEarly(t *testing.T) {
	pc := progress.NewContext(context.Background(), func(ctx context.Context, units <-chan *progress.Unit) {})
	pc.Next(progress.KindExtractArchive, 1).Finish()
	pc.Next(progress.KindExtractArchive, 1).Finish()
	pc.Close(nil)
}

func TestAttach(t *testing.T) {
	t.Run("Without parent the caller should own the context.", func(t *testing.T) {
		var got []progress.Kind
		pc, release := progress.Attach(context.Background(), nil, collect(&got))
		pc.Next(progress.KindDownloadFile, 1).Finish()
		release(nil)

		assert.Equal(t, []progress.Kind{progress.KindDownloadFile}, got)
		assert.Panics(t, func() { pc.Close(nil) })
	})

	t.Run("With parent the nested operation should not close it.", func(t *testing.T) {
		var got []progress.Kind
		parent := progress.NewContext(context.Background(), collect(&got))

		pc, release := progress.Attach(context.Background(), parent, nil)
		require.Same(t, parent, pc)
		pc.Next(progress.KindDownloadFile, 1).Finish()
		release(nil)

		parent.Next(progress.KindExtractArchive, 1).Finish()
		parent.Close(nil)

		assert.Equal(t, []progress.Kind{progress.KindDownloadFile, progress.KindExtractArchive}, got)
	})
}

func TestPoll(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[progress.Kind][]int64{}
		last = map[progress.Kind]bool{}
	)
	consumer := progress.Poll(time.Millisecond, func(u *progress.Unit) {
		mu.Lock()
		defer mu.Unlock()
		seen[u.Kind()] = append(seen[u.Kind()], u.Current())
		last[u.Kind()] = u.Finished()
	})

	pc := progress.NewContext(context.Background(), consumer)
	u1 := pc.Next(progress.KindDownloadFile, 10)
	for range 10 {
		u1.Advance(1)
		time.Sleep(time.Millisecond)
	}
	u1.Finish()
	u2 := pc.Next(progress.KindExtractArchive, 4)
	u2.Advance(4)
	u2.Finish()
	pc.Close(nil)

	mu.Lock()
	defer mu.Unlock()
	for _, k := range []progress.Kind{progress.KindDownloadFile, progress.KindExtractArchive} {
		values := seen[k]
		require.NotEmpty(t, values)
		assert.True(t, last[k])
		for i := 1; i < len(values); i++ {
			assert.GreaterOrEqual(t, values[i], values[i-1])
		}
	}
	assert.Equal(t, int64(10), seen[progress.KindDownloadFile][len(seen[progress.KindDownloadFile])-1])
	assert.Equal(t, int64(4), seen[progress.KindExtractArchive][len(seen[progress.KindExtractArchive])-1])
}
