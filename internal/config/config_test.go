package config

import (
	"image/color"
	"strings"
	"testing"

	"github.com/catalogtools/bulkstamp/internal/geometry"
)

func validOptions() Options {
	return Options{
		CSVPath:      "manifest.csv",
		OutputDir:    "output",
		FontSize:     48,
		HexColor:     "#333333",
		Position:     "bottom-left",
		OffsetX:      20,
		OffsetY:      20,
		OverlayWidth: 150,
	}
}

func TestNew_Valid(t *testing.T) {
	cfg, err := New(validOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Anchor != geometry.BottomLeft {
		t.Errorf("Anchor = %v, want bottom-left", cfg.Anchor)
	}
	want := color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	if cfg.Color != want {
		t.Errorf("Color = %v, want %v", cfg.Color, want)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantMsg string
	}{
		{"missing csv", func(o *Options) { o.CSVPath = "" }, "csv path"},
		{"missing output dir", func(o *Options) { o.OutputDir = "" }, "output directory"},
		{"zero font size", func(o *Options) { o.FontSize = 0 }, "font size"},
		{"negative font size", func(o *Options) { o.FontSize = -4 }, "font size"},
		{"zero overlay width", func(o *Options) { o.OverlayWidth = 0 }, "overlay width"},
		{"bad color", func(o *Options) { o.HexColor = "#33" }, "hex color"},
		{"bad anchor", func(o *Options) { o.Position = "middle" }, "anchor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			_, err := New(opts)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#333333", color.NRGBA{0x33, 0x33, 0x33, 0xff}, false},
		{"ff0080", color.NRGBA{0xff, 0x00, 0x80, 0xff}, false},
		{"#FFFFFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#fff", color.NRGBA{}, true},
		{"#33333g", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
