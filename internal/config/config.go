// Package config builds and validates the immutable per-run configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/catalogtools/bulkstamp/internal/geometry"
)

// Options carries the raw CLI-level inputs before validation.
type Options struct {
	BaseImage    string
	CSVPath      string
	OutputDir    string
	FontPath     string
	FontSize     int
	HexColor     string
	Position     string
	OffsetX      int
	OffsetY      int
	OverlayWidth int
	StrictBounds bool
	DisableEmoji bool
}

// Config is the validated, read-only run configuration.
type Config struct {
	BaseImage    string
	CSVPath      string
	OutputDir    string
	FontPath     string
	FontSize     int
	Color        color.NRGBA
	Anchor       geometry.Anchor
	OffsetX      int
	OffsetY      int
	OverlayWidth int
	StrictBounds bool
	DisableEmoji bool
}

// New validates raw options into a Config.
func New(opts Options) (*Config, error) {
	if opts.CSVPath == "" {
		return nil, errors.New("csv path is required")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if opts.FontSize <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", opts.FontSize)
	}
	if opts.OverlayWidth <= 0 {
		return nil, fmt.Errorf("overlay width must be positive, got %d", opts.OverlayWidth)
	}

	col, err := ParseHexColor(opts.HexColor)
	if err != nil {
		return nil, err
	}
	anchor, err := geometry.ParseAnchor(opts.Position)
	if err != nil {
		return nil, err
	}

	return &Config{
		BaseImage:    opts.BaseImage,
		CSVPath:      opts.CSVPath,
		OutputDir:    opts.OutputDir,
		FontPath:     opts.FontPath,
		FontSize:     opts.FontSize,
		Color:        col,
		Anchor:       anchor,
		OffsetX:      opts.OffsetX,
		OffsetY:      opts.OffsetY,
		OverlayWidth: opts.OverlayWidth,
		StrictBounds: opts.StrictBounds,
		DisableEmoji: opts.DisableEmoji,
	}, nil
}

// ParseHexColor parses a 6-digit hex color, with or without a leading '#'.
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
