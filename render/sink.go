package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives an exported artifact, e.g. a file on disk or an HTTP
// download.
type Sink interface {
	Deliver(ctx context.Context, a *Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, a *Artifact) error

func (f SinkFunc) Deliver(ctx context.Context, a *Artifact) error { return f(ctx, a) }

// FileSink writes artifacts into Dir, overwriting files of the same name.
type FileSink struct {
	Dir string

	// Path is set to the location of the last written file.
	Path string
}

func (s *FileSink) Deliver(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.Path = path
	return nil
}
