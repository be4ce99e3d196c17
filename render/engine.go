// Package render adapts the QR configuration onto a rendering engine: it
// owns one lazily created engine per session, pushes configuration updates
// into it, and exports its current state as PNG or SVG.
package render

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/qrstudio/qrstudio/store"
)

// Engine turns a configuration into a live visual output and exportable
// image bytes. Engines are updated in place; they are never rebuilt just
// because a parameter changed.
type Engine interface {
	ID() string
	Revision() int
	// Append attaches the engine's visual output to s and paints the
	// current frame onto it.
	Append(s Surface)
	Update(cfg store.Configuration) error
	Export(ctx context.Context, opts ExportOptions) (*Artifact, error)
}

// Factory constructs an engine from the full initial configuration.
type Factory func(cfg store.Configuration) (Engine, error)

// NewEngine is the default Factory backed by QREngine.
func NewEngine(cfg store.Configuration) (Engine, error) {
	e, err := NewQREngine(cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// QREngine renders QR codes with skip2/go-qrcode for the symbol and square
// rasters, and fogleman/gg for dot-style rasters.
type QREngine struct {
	id       string
	revision int
	cfg      store.Configuration
	code     *qrcode.QRCode
	frame    Frame
	surfaces []Surface
}

// NewQREngine encodes cfg.Content at the configured level.
func NewQREngine(cfg store.Configuration) (*QREngine, error) {
	code, err := encode(cfg)
	if err != nil {
		return nil, err
	}
	e := &QREngine{
		id:   uuid.NewString(),
		cfg:  cfg,
		code: code,
	}
	e.frame = newFrame(cfg, code, e.revision)
	return e, nil
}

func (e *QREngine) ID() string    { return e.id }
func (e *QREngine) Revision() int { return e.revision }

// Frame returns the current visual output.
func (e *QREngine) Frame() Frame { return e.frame }

func (e *QREngine) Append(s Surface) {
	if s == nil {
		return
	}
	e.surfaces = append(e.surfaces, s)
	s.Paint(e.frame)
}

// Update diffs cfg against the current configuration. The symbol is only
// re-encoded when content or level changed; colour, size and style changes
// only restyle. On error the previous frame stays in place.
func (e *QREngine) Update(cfg store.Configuration) error {
	if cfg == e.cfg {
		return nil
	}

	code := e.code
	if cfg.Content != e.cfg.Content || cfg.ErrorCorrection != e.cfg.ErrorCorrection {
		c, err := encode(cfg)
		if err != nil {
			return err
		}
		code = c
	}

	e.cfg = cfg
	e.code = code
	e.revision++
	e.frame = newFrame(cfg, code, e.revision)
	for _, s := range e.surfaces {
		s.Paint(e.frame)
	}
	return nil
}

// Export serialises the current frame.
func (e *QREngine) Export(ctx context.Context, opts ExportOptions) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatRaster:
		data, err = e.frame.PNG()
	case FormatVector:
		data, err = e.frame.SVG()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}

	return &Artifact{
		Filename:    opts.Filename(),
		ContentType: opts.Format.ContentType(),
		Data:        data,
	}, nil
}

func encode(cfg store.Configuration) (*qrcode.QRCode, error) {
	code, err := qrcode.New(cfg.Content, recoveryLevel(cfg.ErrorCorrection))
	if err != nil {
		return nil, fmt.Errorf("encode QR (level %s): %w", cfg.ErrorCorrection, err)
	}
	return code, nil
}

// recoveryLevel maps L/M/Q/H onto skip2's names, where High is Q and
// Highest is H.
func recoveryLevel(l store.Level) qrcode.RecoveryLevel {
	switch l {
	case store.LevelLow:
		return qrcode.Low
	case store.LevelQuartile:
		return qrcode.High
	case store.LevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
