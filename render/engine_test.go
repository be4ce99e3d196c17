package render

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/store"
)

type countingSurface struct {
	frames []Frame
}

func (s *countingSurface) Paint(f Frame) { s.frames = append(s.frames, f) }

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	cases := map[string]color.NRGBA{
		"#000000":   {A: 255},
		"#ff0000":   {R: 255, A: 255},
		"#FF8000":   {R: 255, G: 128, A: 255},
		"abc":       {R: 0xaa, G: 0xbb, B: 0xcc, A: 255},
		"#abcd":     {R: 0xaa, G: 0xbb, B: 0xcc, A: 0xdd},
		"#11223380": {R: 0x11, G: 0x22, B: 0x33, A: 0x80},
	}
	for in, want := range cases {
		got, err := parseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "#", "#12", "#12345", "#gggggg", "red", "#-12345"} {
		_, err := parseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestColorOr_FallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultForeground, colorOr("#12", defaultForeground))
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, colorOr("#010203", defaultForeground))
}

func TestParseColor_CSSForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"red", color.NRGBA{R: 255, A: 255}},
		{" DodgerBlue ", color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 255}},
		{"transparent", color.NRGBA{}},
		{"#00ff00", color.NRGBA{G: 255, A: 255}},
		{"rgb(255,0,0)", color.NRGBA{R: 255, A: 255}},
		{"rgb(0, 128, 255)", color.NRGBA{G: 128, B: 255, A: 255}},
		{"rgba(0, 0, 255, 0.5)", color.NRGBA{B: 255, A: 128}},
		{"rgb(100%, 0%, 50%)", color.NRGBA{R: 255, B: 128, A: 255}},
		{"rgb(10 20 30 / 50%)", color.NRGBA{R: 10, G: 20, B: 30, A: 128}},
		{"RGBA(255, 255, 255, 1)", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "notacolour", "rgb(1,2)", "rgb(256,0,0)", "rgb(-1,0,0)", "hsl(0,100%,50%)", "rgb(1,2,3"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestFrame_NamedColoursReachOutput(t *testing.T) {
	t.Parallel()

	cfg := store.DefaultConfiguration()
	cfg.Foreground = "red"
	cfg.Background = "rgb(0, 0, 255)"
	e, err := NewQREngine(cfg)
	require.NoError(t, err)

	svg, err := e.Frame().SVG()
	require.NoError(t, err)
	assert.Contains(t, string(svg), `fill="#ff0000"`)
	assert.Contains(t, string(svg), `fill="#0000ff"`)
}

func TestQREngine_UpdateKeepsIdentity(t *testing.T) {
	t.Parallel()

	cfg := store.DefaultConfiguration()
	e, err := NewQREngine(cfg)
	require.NoError(t, err)

	surface := &countingSurface{}
	e.Append(surface)
	require.Len(t, surface.frames, 1)

	id := e.ID()
	code := e.code

	cfg.Foreground = "#ff0000"
	require.NoError(t, e.Update(cfg))
	assert.Same(t, code, e.code, "colour change must not re-encode")

	cfg.Content = "https://example.org/other"
	require.NoError(t, e.Update(cfg))
	assert.NotSame(t, code, e.code)

	require.NoError(t, e.Update(cfg)) // unchanged

	assert.Equal(t, id, e.ID())
	assert.Equal(t, 2, e.Revision())
	require.Len(t, surface.frames, 3)
	assert.Equal(t, 2, surface.frames[2].Revision)
	assert.Equal(t, cfg, e.Frame().Config)
}

func TestQREngine_UpdateFailureKeepsFrame(t *testing.T) {
	t.Parallel()

	cfg := store.DefaultConfiguration()
	e, err := NewQREngine(cfg)
	require.NoError(t, err)
	before := e.Frame()

	next := cfg
	next.Content = strings.Repeat("x", 8000)
	require.Error(t, e.Update(next))

	assert.Equal(t, before.Config, e.Frame().Config)
	assert.Zero(t, e.Revision())
}

func TestNewQREngine_ContentTooLong(t *testing.T) {
	t.Parallel()

	cfg := store.DefaultConfiguration()
	cfg.Content = strings.Repeat("x", 8000)
	_, err := NewEngine(cfg)
	assert.Error(t, err)
}

func TestQREngine_ExportRaster(t *testing.T) {
	t.Parallel()

	for _, style := range []store.Style{store.StyleSquare, store.StyleDots} {
		t.Run(string(style), func(t *testing.T) {
			cfg := store.DefaultConfiguration()
			cfg.Style = style
			cfg.Size = 300
			cfg.Foreground = "#ff0000"
			e, err := NewQREngine(cfg)
			require.NoError(t, err)

			art, err := e.Export(context.Background(), ExportOptions{Format: FormatRaster})
			require.NoError(t, err)
			assert.Equal(t, "qrcode.png", art.Filename)
			assert.Equal(t, "image/png", art.ContentType)

			img, err := png.Decode(bytes.NewReader(art.Data))
			require.NoError(t, err)
			assert.Equal(t, 300, img.Bounds().Dx())
			assert.Equal(t, 300, img.Bounds().Dy())

			// Top-left pixel sits in the quiet zone.
			r, g, b, _ := img.At(0, 0).RGBA()
			assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
		})
	}
}

func TestQREngine_ExportVector(t *testing.T) {
	t.Parallel()

	cfg := store.DefaultConfiguration()
	cfg.Foreground = "#123456"
	cfg.Background = "#ffffff80"
	e, err := NewQREngine(cfg)
	require.NoError(t, err)

	art, err := e.Export(context.Background(), ExportOptions{Format: FormatVector, Name: "code"})
	require.NoError(t, err)
	assert.Equal(t, "code.svg", art.Filename)
	assert.Equal(t, "image/svg+xml", art.ContentType)

	svg := string(art.Data)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, svg, `width="250" height="250"`)
	assert.Contains(t, svg, `fill="#123456"`)
	assert.Contains(t, svg, `fill-opacity="0.502"`)
	assert.Contains(t, svg, "<path")
	assert.NotContains(t, svg, "<circle")

	cfg.Style = store.StyleDots
	require.NoError(t, e.Update(cfg))
	art, err = e.Export(context.Background(), ExportOptions{Format: FormatVector})
	require.NoError(t, err)
	assert.Contains(t, string(art.Data), "<circle")
}

func TestQREngine_ExportErrors(t *testing.T) {
	t.Parallel()

	e, err := NewQREngine(store.DefaultConfiguration())
	require.NoError(t, err)

	_, err = e.Export(context.Background(), ExportOptions{Format: "gif"})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Export(ctx, ExportOptions{Format: FormatRaster})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecoveryLevelMapping(t *testing.T) {
	t.Parallel()

	// A higher level never yields a smaller symbol for the same content.
	prev := 0
	for _, l := range store.Levels {
		cfg := store.DefaultConfiguration()
		cfg.ErrorCorrection = l
		e, err := NewQREngine(cfg)
		require.NoError(t, err)
		n := len(e.Frame().Modules())
		assert.GreaterOrEqual(t, n, prev, "level %s", l)
		prev = n
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatRaster, f)

	f, err = ParseFormat("vector")
	require.NoError(t, err)
	assert.Equal(t, FormatVector, f)
	assert.Equal(t, "SVG", f.Label())

	_, err = ParseFormat("jpeg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTerminalSurface_Paint(t *testing.T) {
	t.Parallel()

	e, err := NewQREngine(store.DefaultConfiguration())
	require.NoError(t, err)

	var buf bytes.Buffer
	e.Append(&TerminalSurface{W: &buf})

	out := buf.String()
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "Medium (15%)")
	assert.Greater(t, strings.Count(out, "\n"), 20)
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	sink := &FileSink{Dir: dir}

	err := sink.Deliver(context.Background(), &Artifact{Filename: "../escape.png", Data: []byte("data")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.png"), sink.Path)

	data, err := os.ReadFile(sink.Path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
