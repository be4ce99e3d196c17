package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mdp/qrterminal/v3"
)

// Surface is a display target an engine attaches its live output to. The
// engine repaints every attached surface after each update.
type Surface interface {
	Paint(f Frame)
}

// ImageSurface keeps the latest frame as a PNG for the browser preview. It
// is safe for concurrent readers.
type ImageSurface struct {
	mu       sync.RWMutex
	png      []byte
	revision int
	log      *slog.Logger
}

// NewImageSurface creates an empty surface.
func NewImageSurface(log *slog.Logger) *ImageSurface {
	if log == nil {
		log = slog.Default()
	}
	return &ImageSurface{log: log, revision: -1}
}

func (s *ImageSurface) Paint(f Frame) {
	data, err := f.PNG()
	if err != nil {
		s.log.Warn("preview paint failed", "revision", f.Revision, "error", err)
		return
	}
	s.mu.Lock()
	s.png = data
	s.revision = f.Revision
	s.mu.Unlock()
}

// PNG returns the last painted image and its revision. ok is false until
// the first paint.
func (s *ImageSurface) PNG() (data []byte, revision int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.png == nil {
		return nil, 0, false
	}
	return s.png, s.revision, true
}

// frameBorder is the quiet zone skip2 includes in every bitmap, in modules.
const frameBorder = 4

// TerminalSurface prints each frame as block characters. It draws the
// engine's own module matrix, so the terminal shows exactly the symbol that
// gets exported.
type TerminalSurface struct {
	W io.Writer
	// QuietZone is the border width in modules, at most 4; zero keeps the
	// frame's full border.
	QuietZone int
	// HalfBlocks packs two module rows into one text line.
	HalfBlocks bool
}

func (s *TerminalSurface) Paint(f Frame) {
	modules := trimBorder(f.Modules(), s.QuietZone)
	if len(modules) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s · %s · %s\n", f.Config.Content, f.Config.ErrorCorrection.Label(), f.Config.Style)
	if s.HalfBlocks {
		writeHalfBlocks(&b, modules)
	} else {
		writeFullBlocks(&b, modules)
	}
	io.WriteString(s.W, b.String())
}

// trimBorder shrinks the quiet zone of modules to qz modules.
func trimBorder(modules [][]bool, qz int) [][]bool {
	cut := 0
	if qz > 0 && qz < frameBorder {
		cut = frameBorder - qz
	}
	if cut == 0 || len(modules) <= 2*cut {
		return modules
	}
	out := make([][]bool, 0, len(modules)-2*cut)
	for _, row := range modules[cut : len(modules)-cut] {
		out = append(out, row[cut:len(row)-cut])
	}
	return out
}

func writeFullBlocks(b *strings.Builder, modules [][]bool) {
	for _, row := range modules {
		for _, dark := range row {
			if dark {
				b.WriteString(qrterminal.BLACK)
			} else {
				b.WriteString(qrterminal.WHITE)
			}
		}
		b.WriteByte('\n')
	}
}

// writeHalfBlocks uses qrterminal's glyphs, which assume a dark terminal:
// light modules are drawn, dark ones are left blank.
func writeHalfBlocks(b *strings.Builder, modules [][]bool) {
	for y := 0; y < len(modules); y += 2 {
		for x, top := range modules[y] {
			bottom := false
			if y+1 < len(modules) {
				bottom = modules[y+1][x]
			}
			switch {
			case top && bottom:
				b.WriteString(qrterminal.BLACK_BLACK)
			case top:
				b.WriteString(qrterminal.BLACK_WHITE)
			case bottom:
				b.WriteString(qrterminal.WHITE_BLACK)
			default:
				b.WriteString(qrterminal.WHITE_WHITE)
			}
		}
		b.WriteByte('\n')
	}
}
