package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qrstudio/qrstudio/notify"
	"github.com/qrstudio/qrstudio/store"
)

// Adapter owns at most one engine. It has two states: Uninitialized (no
// engine) and Initialized. The first Sync with non-empty content creates
// the engine; every later Sync updates it in place. There is no way back
// to Uninitialized.
//
// Adapter is not safe for concurrent use.
type Adapter struct {
	newEngine Factory
	surface   Surface
	notifier  notify.Notifier
	log       *slog.Logger
	filename  string

	engine Engine
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithFilename sets the base name of exported files (default "qrcode").
func WithFilename(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.filename = name
		}
	}
}

// NewAdapter creates an Uninitialized adapter. surface may be nil when no
// live output is wanted.
func NewAdapter(newEngine Factory, surface Surface, notifier notify.Notifier, log *slog.Logger, opts ...Option) *Adapter {
	if newEngine == nil {
		newEngine = NewEngine
	}
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = notify.LogNotifier{Log: log}
	}
	a := &Adapter{
		newEngine: newEngine,
		surface:   surface,
		notifier:  notifier,
		log:       log,
		filename:  DefaultFilename,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialized reports whether an engine exists.
func (a *Adapter) Initialized() bool { return a.engine != nil }

// Engine returns the current engine, or nil before initialisation.
func (a *Adapter) Engine() Engine { return a.engine }

// Sync brings the engine in line with cfg. Empty content is ignored and the
// last output stays visible.
//
// If encoding fails the adapter keeps its previous state (no engine, or the
// engine's last frame), emits one error notification and returns the error.
func (a *Adapter) Sync(cfg store.Configuration) error {
	if cfg.Content == "" {
		a.log.Debug("empty content, skipping render")
		return nil
	}

	if a.engine == nil {
		eng, err := a.newEngine(cfg)
		if err != nil {
			a.renderFailed(err)
			return fmt.Errorf("create engine: %w", err)
		}
		eng.Append(a.surface)
		a.engine = eng
		a.log.Info("renderer initialized", "engine", eng.ID(), "size", cfg.Size, "level", cfg.ErrorCorrection)
		return nil
	}

	if err := a.engine.Update(cfg); err != nil {
		a.renderFailed(err)
		return fmt.Errorf("update engine: %w", err)
	}
	a.log.Debug("renderer updated", "engine", a.engine.ID(), "revision", a.engine.Revision())
	return nil
}

func (a *Adapter) renderFailed(err error) {
	a.log.Warn("render failed", "error", err)
	a.notifier.Error("Could not render QR code")
}

// Export serialises the current engine state in format and hands it to
// sink. Without an engine it does nothing and returns nil.
//
// Every failure is reported to the user as a single notification naming
// the format; the returned error wraps ErrExportFailed for callers that
// need to choose a status code. The configuration is never touched.
func (a *Adapter) Export(ctx context.Context, format Format, sink Sink) error {
	if a.engine == nil {
		return nil
	}

	art, err := a.engine.Export(ctx, ExportOptions{Format: format, Name: a.filename})
	if err == nil {
		err = sink.Deliver(ctx, art)
	}
	if err != nil {
		a.log.Error("export failed", "format", format, "engine", a.engine.ID(), "error", err)
		a.notifier.Error(fmt.Sprintf("Failed to download %s", format.Label()))
		return fmt.Errorf("%w (%s): %w", ErrExportFailed, format, err)
	}

	a.log.Info("export delivered", "format", format, "file", art.Filename, "bytes", len(art.Data))
	a.notifier.Success(fmt.Sprintf("%s QR Code downloaded!", format.Label()))
	return nil
}
