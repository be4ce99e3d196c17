package notify

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_SinceReturnsNewerOnly(t *testing.T) {
	t.Parallel()

	f := NewFeed(10, time.Minute)
	f.Success("one")
	f.Error("two")
	f.Success("three")

	all := f.Since(0)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Message)
	assert.Equal(t, LevelError, all[1].Level)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)

	later := f.Since(all[1].Seq)
	require.Len(t, later, 1)
	assert.Equal(t, "three", later[0].Message)
	assert.Equal(t, uint64(3), f.LastSeq())
}

func TestFeed_Capacity(t *testing.T) {
	t.Parallel()

	f := NewFeed(2, time.Minute)
	f.Success("a")
	f.Success("b")
	f.Success("c")

	got := f.Since(0)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
	assert.Equal(t, "c", got[1].Message)
}

func TestFeed_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFeed(10, 10*time.Second)
	f.now = func() time.Time { return now }

	f.Success("old")
	now = now.Add(8 * time.Second)
	f.Success("new")
	now = now.Add(5 * time.Second)

	got := f.Since(0)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)

	now = now.Add(time.Minute)
	f.Prune()
	assert.Empty(t, f.Since(0))
	assert.Equal(t, uint64(2), f.LastSeq())
}

func TestFeed_Defaults(t *testing.T) {
	t.Parallel()

	f := NewFeed(0, 0)
	assert.Equal(t, 50, f.capacity)
	assert.Equal(t, DefaultTTL, f.ttl)
}

func TestStartPruneLoop_StopsOnCancel(t *testing.T) {
	t.Parallel()

	now := time.Now()
	f := NewFeed(10, time.Millisecond)
	f.Success("x")
	f.mu.Lock()
	f.items[0].Time = now.Add(-time.Hour)
	f.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	StartPruneLoop(ctx, f, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.items) == 0
	}, time.Second, 5*time.Millisecond)
	cancel()
}

func TestWriterNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := &WriterNotifier{W: &buf}
	n.Success("PNG QR Code downloaded!")
	n.Error("Failed to download SVG")

	assert.Equal(t, "✓ PNG QR Code downloaded!\n✗ Failed to download SVG\n", buf.String())
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b}
	m.Success("ok")
	m.Error("bad")

	for _, r := range []*Recorder{a, b} {
		got := r.All()
		require.Len(t, got, 2)
		assert.Equal(t, LevelSuccess, got[0].Level)
		assert.Equal(t, LevelError, got[1].Level)
	}
}

func TestLogNotifier_NilLoggerUsesDefault(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		LogNotifier{}.Success("hello")
		LogNotifier{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}.Error("bye")
	})
}
