// Package engine drives a batch run: it parses the manifest, resolves
// the operating mode, renders each row onto a copy of its base image
// and writes the result, collecting per-row outcomes into a summary.
//
// Failures come in two severities. Configuration-level problems (bad
// manifest shape, contradictory mode, missing font, unreadable shared
// base) abort the run before any row is processed. Per-row problems
// (missing overlay image, draw failure) are recorded and skipped so the
// remaining rows still run.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/catalogtools/bulkstamp/internal/clock"
	"github.com/catalogtools/bulkstamp/internal/fsops"
	"github.com/catalogtools/bulkstamp/internal/render"
)

// Engine orchestrates batch runs. It is the main API surface called by
// the CLI.
type Engine struct {
	fs     fsops.FS
	clock  clock.Clock
	glyphs render.GlyphRenderer
	log    zerolog.Logger
}

// New creates an Engine with the given dependencies. The glyph renderer
// is chosen once at startup (Twemoji-backed or font fallback) and used
// for every text row.
func New(fs fsops.FS, clk clock.Clock, glyphs render.GlyphRenderer, log zerolog.Logger) *Engine {
	return &Engine{
		fs:     fs,
		clock:  clk,
		glyphs: glyphs,
		log:    log,
	}
}
