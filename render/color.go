package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	defaultForeground = color.NRGBA{A: 255}
	defaultBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// parseHexColor parses #rgb, #rgba, #rrggbb and #rrggbbaa (the leading '#'
// is optional). Anything else yields an error.
func parseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ParseColor accepts the CSS colour forms a colour input produces or a user
// types: hex, named colours ("red", "dodgerblue", "transparent") and
// rgb()/rgba() with byte or percentage channels.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return color.NRGBA{}, errors.New("empty colour")
	case v == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(s, v)
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return parseHexColor(v)
}

// parseRGBFunc parses rgb(r, g, b), rgba(r, g, b, a) and the space
// separated form rgb(r g b / a).
func parseRGBFunc(orig, v string) (color.NRGBA, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", orig)
	}
	if name := v[:open]; name != "rgb" && name != "rgba" {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", orig)
	}
	parts := strings.FieldsFunc(v[open+1:len(v)-1], func(r rune) bool {
		return r == ',' || r == '/' || r == ' '
	})
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", orig)
	}

	var ch [4]uint8
	ch[3] = 255
	for i, p := range parts {
		var (
			f   float64
			err error
		)
		if pct, ok := strings.CutSuffix(p, "%"); ok {
			f, err = strconv.ParseFloat(pct, 64)
			f = f / 100 * 255
		} else {
			f, err = strconv.ParseFloat(p, 64)
			if i == 3 {
				f *= 255
			}
		}
		if err != nil || f < 0 || f > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q", orig)
		}
		ch[i] = uint8(f + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// colorOr parses s and falls back to def when s is not a valid colour.
// Users type colours free-hand, so half-typed values must still render.
func colorOr(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// hexRGB formats c as #rrggbb, dropping alpha.
func hexRGB(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
