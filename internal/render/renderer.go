// Package render rasterizes overlay jobs onto copies of a base image.
//
// Text labels are measured and drawn with an injected GlyphRenderer so
// emoji substitution is a startup decision, not a per-call check. Image
// and QR overlays are proportionally scaled to the configured width and
// composited honoring transparency. The base image is never mutated:
// every render happens on a fresh copy.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	_ "golang.org/x/image/webp" // register webp decoding for overlay/base images

	"github.com/catalogtools/bulkstamp/internal/geometry"
)

// Placement is the resolved position and size of a drawn overlay.
type Placement struct {
	X, Y, W, H int
}

// String renders the placement the way row results report it.
func (p Placement) String() string {
	return fmt.Sprintf("%d,%d (%dx%dpx)", p.X, p.Y, p.W, p.H)
}

// Renderer draws one overlay per call onto a copy of a base image.
type Renderer struct {
	Face         font.Face
	Glyphs       GlyphRenderer
	Color        color.NRGBA
	Anchor       geometry.Anchor
	OffsetX      int
	OffsetY      int
	OverlayWidth int
	StrictBounds bool
	Log          zerolog.Logger
}

// RenderText draws a text label at the configured anchor and returns
// the composited copy.
func (r *Renderer) RenderText(base image.Image, label string) (*image.NRGBA, Placement, error) {
	if r.Face == nil {
		return nil, Placement{}, errors.New("no font loaded")
	}
	w, h := r.Glyphs.Measure(r.Face, label)
	pl, err := r.place(base, w, h)
	if err != nil {
		return nil, pl, err
	}
	out := imaging.Clone(base)
	r.Glyphs.DrawString(out, r.Face, r.Color, label, pl.X, pl.Y)
	return out, pl, nil
}

// RenderImage loads an overlay image, scales it to the configured width
// preserving aspect ratio, and composites it using its alpha channel.
func (r *Renderer) RenderImage(base image.Image, overlayPath string) (*image.NRGBA, Placement, error) {
	overlay, err := imaging.Open(overlayPath)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("failed to load overlay image %q: %w", overlayPath, err)
	}
	return r.compose(base, overlay)
}

// RenderQR encodes content as a QR code sized to the configured overlay
// width and composites it like an image overlay.
func (r *Renderer) RenderQR(base image.Image, content string) (*image.NRGBA, Placement, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, Placement{}, fmt.Errorf("failed to encode QR code: %w", err)
	}
	pl, err := r.place(base, r.OverlayWidth, r.OverlayWidth)
	if err != nil {
		return nil, pl, err
	}
	out := imaging.Overlay(base, q.Image(r.OverlayWidth), image.Pt(pl.X, pl.Y), 1.0)
	return out, pl, nil
}

// compose scales the overlay to the target width and pastes it.
func (r *Renderer) compose(base, overlay image.Image) (*image.NRGBA, Placement, error) {
	ow := overlay.Bounds().Dx()
	oh := overlay.Bounds().Dy()
	if ow <= 0 || oh <= 0 {
		return nil, Placement{}, errors.New("overlay image is empty")
	}
	h := oh * r.OverlayWidth / ow
	if h < 1 {
		h = 1
	}
	scaled := imaging.Resize(overlay, r.OverlayWidth, h, imaging.Lanczos)

	pl, err := r.place(base, r.OverlayWidth, h)
	if err != nil {
		return nil, pl, err
	}
	out := imaging.Overlay(base, scaled, image.Pt(pl.X, pl.Y), 1.0)
	return out, pl, nil
}

// place resolves anchor geometry for content of the given size and
// applies the strict-bounds policy.
func (r *Renderer) place(base image.Image, w, h int) (Placement, error) {
	bw := base.Bounds().Dx()
	bh := base.Bounds().Dy()
	x, y := geometry.Resolve(r.Anchor, bw, bh, w, h, r.OffsetX, r.OffsetY)
	pl := Placement{X: x, Y: y, W: w, H: h}

	r.Log.Debug().
		Str("anchor", string(r.Anchor)).
		Int("x", x).Int("y", y).
		Int("w", w).Int("h", h).
		Msg("resolved placement")

	if r.StrictBounds && !geometry.InBounds(x, y, w, h, bw, bh) {
		return pl, fmt.Errorf("placement %s exceeds %dx%d canvas", pl, bw, bh)
	}
	return pl, nil
}
