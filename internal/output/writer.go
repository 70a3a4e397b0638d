// Package output encodes composited images and persists them.
//
// The output format follows the filename extension: JPEG output is
// flattened onto an opaque white background, PNG and WebP keep the
// alpha channel. Rows without an output filename are auto-named
// image_0001.jpg, image_0002.jpg, ... from their position in the run.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"

	"github.com/catalogtools/bulkstamp/internal/fsops"
)

// DefaultJPEGQuality matches the quality the tool has always written.
const DefaultJPEGQuality = 92

// AutoName returns the generated filename for the job at the given
// 1-based ordinal. Ordinals past 9999 simply grow extra digits.
func AutoName(ordinal int) string {
	return fmt.Sprintf("image_%04d.jpg", ordinal)
}

// ResolveName applies auto-naming for empty names and defaults
// extension-less names to .jpg.
func ResolveName(name string, ordinal int) string {
	if name == "" {
		return AutoName(ordinal)
	}
	if filepath.Ext(name) == "" {
		return name + ".jpg"
	}
	return name
}

// Writer persists composited images under one output directory.
type Writer struct {
	fs      fsops.FS
	dir     string
	quality int
}

// NewWriter creates a Writer targeting dir.
func NewWriter(fs fsops.FS, dir string) *Writer {
	return &Writer{fs: fs, dir: dir, quality: DefaultJPEGQuality}
}

// Write encodes img in the format implied by name's extension and
// writes it to the output directory, creating the directory if needed.
// Existing files are overwritten. Encoding happens before any file is
// touched, so a failed row leaves nothing behind.
func (w *Writer) Write(img image.Image, name string) (string, error) {
	var buf bytes.Buffer
	if err := encode(&buf, img, filepath.Ext(name), w.quality); err != nil {
		return "", err
	}

	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)
	if err := w.fs.AtomicWrite(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	return path, nil
}

// encode serializes img in the format for ext.
func encode(dst io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return imaging.Encode(dst, Flatten(img), imaging.JPEG, imaging.JPEGQuality(quality))
	case ".png":
		return imaging.Encode(dst, img, imaging.PNG)
	case ".webp":
		return nativewebp.Encode(dst, img, nil)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

// Flatten composites img onto an opaque white background, discarding
// transparency for formats without an alpha channel.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
