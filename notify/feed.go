package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible in a Feed.
const DefaultTTL = 30 * time.Second

// Feed keeps the most recent notifications for pollers such as the browser
// form. Entries are transient: they are dropped once older than the TTL or
// once capacity is exceeded.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	seq      uint64
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewFeed creates a Feed holding at most capacity entries for ttl each.
// Non-positive values fall back to 50 entries and DefaultTTL.
func NewFeed(capacity int, ttl time.Duration) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Feed{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (f *Feed) Success(msg string) { f.Push(LevelSuccess, msg) }
func (f *Feed) Error(msg string)   { f.Push(LevelError, msg) }

// Push appends a notification and returns it.
func (f *Feed) Push(level Level, msg string) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	n := Notification{
		ID:      uuid.NewString(),
		Seq:     f.seq,
		Level:   level,
		Message: msg,
		Time:    f.now(),
	}
	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
	return n
}

// Since returns the live notifications with Seq greater than after, oldest
// first.
func (f *Feed) Since(after uint64) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pruneLocked()
	out := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}

// LastSeq returns the sequence number of the newest notification ever pushed.
func (f *Feed) LastSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// Prune drops expired notifications. Since already prunes on read; the
// prune loop keeps memory bounded when nobody is polling.
func (f *Feed) Prune() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked()
}

// pruneLocked removes entries older than the TTL. The caller MUST hold f.mu.
func (f *Feed) pruneLocked() {
	cutoff := f.now().Add(-f.ttl)
	i := 0
	for i < len(f.items) && f.items[i].Time.Before(cutoff) {
		i++
	}
	if i > 0 {
		f.items = append(f.items[:0:0], f.items[i:]...)
	}
}

// StartPruneLoop runs a goroutine that prunes feed every interval until ctx
// is cancelled.
func StartPruneLoop(ctx context.Context, feed *Feed, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = feed.ttl
	}
	go pruneLoop(ctx, feed, interval, log)
}

func pruneLoop(ctx context.Context, feed *Feed, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("notification prune loop stopped")
			return
		case <-ticker.C:
			feed.Prune()
		}
	}
}
