// Package notify implements the notification surface: short, transient
// success or failure messages shown to the user after an action.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the kind of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one message shown to the user.
type Notification struct {
	ID      string    `json:"id"`
	Seq     uint64    `json:"seq"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier is a fire-and-forget sink for user-visible messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Success(msg string) {
	n.logger().Info("notification", "level", LevelSuccess, "message", msg)
}

func (n LogNotifier) Error(msg string) {
	n.logger().Warn("notification", "level", LevelError, "message", msg)
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Log == nil {
		return slog.Default()
	}
	return n.Log
}

// WriterNotifier prints one line per notification, used by the CLI.
type WriterNotifier struct {
	W  io.Writer
	mu sync.Mutex
}

func (n *WriterNotifier) Success(msg string) { n.write("✓", msg) }
func (n *WriterNotifier) Error(msg string)   { n.write("✗", msg) }

func (n *WriterNotifier) write(mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.W, "%s %s\n", mark, msg)
}

// Multi fans every notification out to all notifiers in order.
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Recorder keeps every notification in memory. Useful for tests and for
// callers that inspect the outcome of a single action.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{
		ID:      uuid.NewString(),
		Seq:     uint64(len(r.items) + 1),
		Level:   level,
		Message: msg,
		Time:    time.Now(),
	})
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
