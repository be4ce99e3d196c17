package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"

	"github.com/qrstudio/qrstudio/store"
)

// Frame is an engine's visual output at one revision.
type Frame struct {
	Config   store.Configuration
	Revision int

	code    *qrcode.QRCode
	modules [][]bool
}

func newFrame(cfg store.Configuration, code *qrcode.QRCode, revision int) Frame {
	return Frame{
		Config:   cfg,
		Revision: revision,
		code:     code,
		modules:  code.Bitmap(),
	}
}

// Modules returns the symbol matrix including the quiet zone; true is dark.
func (f Frame) Modules() [][]bool { return f.modules }

// PNG rasterises the frame at Config.Size pixels square.
func (f Frame) PNG() ([]byte, error) {
	if f.code == nil {
		return nil, errors.New("empty frame")
	}
	fg := colorOr(f.Config.Foreground, defaultForeground)
	bg := colorOr(f.Config.Background, defaultBackground)

	if f.Config.Style == store.StyleDots {
		return dotsPNG(f.modules, f.Config.Size, fg, bg)
	}

	// Copy so the engine's code keeps its own colours.
	code := *f.code
	code.ForegroundColor = fg
	code.BackgroundColor = bg
	return code.PNG(f.Config.Size)
}

// SVG writes the frame as a standalone SVG document.
func (f Frame) SVG() ([]byte, error) {
	if f.code == nil {
		return nil, errors.New("empty frame")
	}
	var buf bytes.Buffer
	writeSVG(&buf, f.modules, svgOptions{
		Size:       f.Config.Size,
		Style:      f.Config.Style,
		Foreground: colorOr(f.Config.Foreground, defaultForeground),
		Background: colorOr(f.Config.Background, defaultBackground),
	})
	return buf.Bytes(), nil
}

// dotsPNG draws one filled circle per dark module.
func dotsPNG(modules [][]bool, size int, fg, bg color.Color) ([]byte, error) {
	n := len(modules)
	if n == 0 {
		return nil, errors.New("empty symbol")
	}
	if size < n {
		size = n
	}

	dc := gg.NewContext(size, size)
	dc.SetColor(bg)
	dc.Clear()

	m := float64(size) / float64(n)
	dc.SetColor(fg)
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			dc.DrawCircle((float64(x)+0.5)*m, (float64(y)+0.5)*m, m/2)
		}
	}
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
