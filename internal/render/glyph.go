package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// GlyphRenderer measures and draws a text label onto an image. The
// Twemoji-backed implementation substitutes bitmap glyphs for emoji
// clusters; the null implementation draws everything with the base font,
// leaving emoji as the font's fallback glyph.
//
// Which implementation is used is decided once at startup and injected
// into the Renderer, so text drawing itself has no availability checks.
type GlyphRenderer interface {
	// Name identifies the renderer in the startup diagnostic.
	Name() string

	// Measure returns the rendered bounding-box size of the label.
	Measure(face font.Face, label string) (w, h int)

	// DrawString draws the label with its bounding box's top-left
	// corner at (x, y).
	DrawString(dst draw.Image, face font.Face, col color.Color, label string, x, y int)
}

// glyphProbeTimeout bounds the startup availability probe and every
// per-glyph fetch. Timeouts degrade to font-fallback rendering instead
// of blocking the run.
const glyphProbeTimeout = 5 * time.Second

// DetectGlyphRenderer probes the glyph CDN once and returns the
// renderer for the whole run. When disabled or unreachable it returns
// the font-fallback renderer.
func DetectGlyphRenderer(ctx context.Context, disabled bool, log zerolog.Logger) GlyphRenderer {
	if disabled {
		return &NullRenderer{}
	}
	tw := NewTwemojiRenderer(DefaultGlyphCDN, glyphProbeTimeout, log)
	if tw.Probe(ctx) {
		return tw
	}
	log.Debug().Str("cdn", DefaultGlyphCDN).Msg("glyph CDN unreachable, using font fallback")
	return &NullRenderer{}
}

// NullRenderer draws text with the base font only.
type NullRenderer struct{}

// Name identifies the renderer.
func (n *NullRenderer) Name() string { return "font-fallback" }

// Measure returns the ink bounding box of the label.
func (n *NullRenderer) Measure(face font.Face, label string) (int, int) {
	b, _ := font.BoundString(face, label)
	return (b.Max.X - b.Min.X).Ceil(), (b.Max.Y - b.Min.Y).Ceil()
}

// DrawString draws the label so its ink bounding box starts at (x, y),
// compensating for the left side bearing and ascent.
func (n *NullRenderer) DrawString(dst draw.Image, face font.Face, col color.Color, label string, x, y int) {
	b, _ := font.BoundString(face, label)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - b.Min.X,
			Y: fixed.I(y) - b.Min.Y,
		},
	}
	d.DrawString(label)
}

// emSize is the pixel box an emoji glyph occupies: square, sitting on
// the baseline, as tall as the font's ascent.
func emSize(face font.Face) int {
	m := face.Metrics()
	em := m.Ascent.Ceil()
	if em < 1 {
		em = 1
	}
	return em
}
