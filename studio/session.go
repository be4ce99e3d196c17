// Package studio wires a Configuration Store to a Renderer Adapter for the
// lifetime of one UI session.
package studio

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qrstudio/qrstudio/render"
	"github.com/qrstudio/qrstudio/store"
)

// ErrMounted is returned by Mount when the session is already mounted.
var ErrMounted = errors.New("session already mounted")

// Session is one mounted form: every published configuration is pushed to
// the adapter.
type Session struct {
	Store   *store.Store
	Adapter *render.Adapter

	log         *slog.Logger
	unsubscribe func()
}

// NewSession pairs st with ad without subscribing yet.
func NewSession(st *store.Store, ad *render.Adapter, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{Store: st, Adapter: ad, log: log}
}

// Mount subscribes the adapter to the store and renders the current
// configuration once, like a form rendering its defaults on first display.
// A failing initial render does not prevent mounting; the adapter has
// already reported it.
func (s *Session) Mount() error {
	if s.unsubscribe != nil {
		return ErrMounted
	}
	s.unsubscribe = s.Store.Subscribe(s.sync)
	s.sync(s.Store.Get())
	s.log.Debug("session mounted")
	return nil
}

// Unmount stops forwarding changes. The engine is left as is.
func (s *Session) Unmount() {
	if s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
	s.log.Debug("session unmounted")
}

// Mounted reports whether changes are being forwarded.
func (s *Session) Mounted() bool { return s.unsubscribe != nil }

// Export is a convenience for Adapter.Export.
func (s *Session) Export(ctx context.Context, format render.Format, sink render.Sink) error {
	return s.Adapter.Export(ctx, format, sink)
}

func (s *Session) sync(cfg store.Configuration) {
	if err := s.Adapter.Sync(cfg); err != nil {
		s.log.Debug("sync failed", "error", err)
	}
}
