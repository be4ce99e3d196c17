package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/qrstudio/qrstudio/store"
)

type svgOptions struct {
	Size       int
	Style      store.Style
	Foreground color.NRGBA
	Background color.NRGBA
}

// writeSVG emits a document whose viewBox is in module units, so the output
// scales cleanly to any width/height.
func writeSVG(w io.Writer, modules [][]bool, o svgOptions) {
	n := len(modules)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`,
		n, n, o.Size, o.Size)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d"%s/>`, n, n, fillAttrs(o.Background))

	switch o.Style {
	case store.StyleDots:
		fmt.Fprintf(&sb, `<g%s>`, fillAttrs(o.Foreground))
		for y, row := range modules {
			for x, dark := range row {
				if dark {
					fmt.Fprintf(&sb, `<circle cx="%d.5" cy="%d.5" r="0.5"/>`, x, y)
				}
			}
		}
		sb.WriteString(`</g>`)
	default:
		sb.WriteString(`<path d="`)
		for y, row := range modules {
			for x, dark := range row {
				if dark {
					fmt.Fprintf(&sb, "M%d %dh1v1h-1z", x, y)
				}
			}
		}
		fmt.Fprintf(&sb, `"%s/>`, fillAttrs(o.Foreground))
	}

	sb.WriteString(`</svg>`)
	io.WriteString(w, sb.String())
}

func fillAttrs(c color.NRGBA) string {
	attrs := ` fill="` + hexRGB(c) + `"`
	if c.A < 255 {
		attrs += ` fill-opacity="` + strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64) + `"`
	}
	return attrs
}
