package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultGlyphCDN serves the Twemoji 72x72 PNG assets.
const DefaultGlyphCDN = "https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/72x72/"

// probeGlyph is the asset used for the startup availability check.
const probeGlyph = "2764"

// TwemojiRenderer draws emoji clusters as bitmap glyphs fetched from a
// Twemoji CDN, and everything else with the base font. Fetched glyphs
// are cached for the run; a failed fetch degrades that cluster to the
// font's fallback glyph.
type TwemojiRenderer struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	cache   map[string]image.Image
	missed  map[string]bool
}

// NewTwemojiRenderer creates a renderer fetching from baseURL with a
// bounded per-request timeout.
func NewTwemojiRenderer(baseURL string, timeout time.Duration, log zerolog.Logger) *TwemojiRenderer {
	return &TwemojiRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
		cache:   make(map[string]image.Image),
		missed:  make(map[string]bool),
	}
}

// Name identifies the renderer.
func (t *TwemojiRenderer) Name() string { return "twemoji" }

// Probe checks once whether the glyph CDN is reachable.
func (t *TwemojiRenderer) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+probeGlyph+".png", nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if img, err := imaging.Decode(resp.Body); err == nil {
		t.cache[probeGlyph] = img
	}
	return true
}

// fetch returns the glyph image for a Twemoji code, consulting the
// per-run cache first. A miss is remembered so the same unavailable
// glyph is not re-requested for every row.
func (t *TwemojiRenderer) fetch(code string) (image.Image, error) {
	if img, ok := t.cache[code]; ok {
		return img, nil
	}
	if t.missed[code] {
		return nil, fmt.Errorf("glyph %s unavailable", code)
	}
	resp, err := t.client.Get(t.baseURL + code + ".png")
	if err != nil {
		t.missed[code] = true
		return nil, fmt.Errorf("failed to fetch glyph %s: %w", code, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		t.missed[code] = true
		return nil, fmt.Errorf("glyph %s: unexpected status %d", code, resp.StatusCode)
	}
	img, err := imaging.Decode(resp.Body)
	if err != nil {
		t.missed[code] = true
		return nil, fmt.Errorf("failed to decode glyph %s: %w", code, err)
	}
	t.cache[code] = img
	t.log.Debug().Str("glyph", code).Msg("fetched emoji glyph")
	return img, nil
}

// Measure returns the rendered bounding-box size of the label, with
// emoji clusters counted as baseline-aligned squares.
func (t *TwemojiRenderer) Measure(face font.Face, label string) (int, int) {
	w, minY, maxY := t.metrics(face, label)
	return w, maxY - minY
}

// metrics walks the label's clusters accumulating total advance width
// and the vertical ink extent relative to the baseline.
func (t *TwemojiRenderer) metrics(face font.Face, label string) (w, minY, maxY int) {
	em := emSize(face)
	for _, c := range splitClusters(label) {
		if c.code != "" {
			w += em
			if -em < minY {
				minY = -em
			}
			continue
		}
		b, adv := font.BoundString(face, c.text)
		w += adv.Ceil()
		if v := b.Min.Y.Floor(); v < minY {
			minY = v
		}
		if v := b.Max.Y.Ceil(); v > maxY {
			maxY = v
		}
	}
	return w, minY, maxY
}

// DrawString draws the label with its bounding box's top-left corner at
// (x, y), pasting fetched glyphs for emoji clusters and falling back to
// the font for clusters whose glyph cannot be fetched.
func (t *TwemojiRenderer) DrawString(dst draw.Image, face font.Face, col color.Color, label string, x, y int) {
	_, minY, _ := t.metrics(face, label)
	baseline := y - minY
	em := emSize(face)
	penX := x

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}

	for _, c := range splitClusters(label) {
		if c.code != "" {
			if glyph, err := t.fetch(c.code); err == nil {
				scaled := imaging.Resize(glyph, em, em, imaging.Lanczos)
				r := image.Rect(penX, baseline-em, penX+em, baseline)
				draw.Draw(dst, r, scaled, image.Point{}, draw.Over)
				penX += em
				continue
			}
			// fall through: the font renders its fallback glyph
		}
		d.Dot = fixed.Point26_6{X: fixed.I(penX), Y: fixed.I(baseline)}
		d.DrawString(c.text)
		penX = d.Dot.X.Ceil()
	}
}
