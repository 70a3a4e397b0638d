package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/catalogtools/bulkstamp/internal/config"
	"github.com/catalogtools/bulkstamp/internal/manifest"
	"github.com/catalogtools/bulkstamp/internal/output"
	"github.com/catalogtools/bulkstamp/internal/render"
)

// Run executes one batch. The returned error is always
// configuration-level; per-row failures are reported inside RunResult
// and never fail the run.
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	cfg := req.Config
	started := e.clock.Now()
	runID := uuid.NewString()
	e.log.Debug().Str("run_id", runID).Str("csv", cfg.CSVPath).Msg("starting run")

	data, err := e.fs.ReadFile(cfg.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable manifest %q: %v", ErrConfiguration, cfg.CSVPath, err)
	}
	m, err := manifest.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	mode, err := resolveMode(m.Shape, cfg.BaseImage)
	if err != nil {
		return nil, err
	}

	face, err := e.loadFont(cfg, m)
	if err != nil {
		return nil, err
	}

	var base image.Image
	if mode == ModeSharedBase {
		base, err = imaging.Open(cfg.BaseImage)
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable base image %q: %v", ErrConfiguration, cfg.BaseImage, err)
		}
	}

	renderer := &render.Renderer{
		Face:         face,
		Glyphs:       e.glyphs,
		Color:        cfg.Color,
		Anchor:       cfg.Anchor,
		OffsetX:      cfg.OffsetX,
		OffsetY:      cfg.OffsetY,
		OverlayWidth: cfg.OverlayWidth,
		StrictBounds: cfg.StrictBounds,
		Log:          e.log,
	}
	writer := output.NewWriter(e.fs, cfg.OutputDir)

	if req.OnStart != nil {
		info := StartInfo{Mode: mode, Rows: m.Rows()}
		if base != nil {
			info.BasePath = cfg.BaseImage
			info.BaseW = base.Bounds().Dx()
			info.BaseH = base.Bounds().Dy()
		}
		req.OnStart(info)
	}

	result := &RunResult{RunID: runID, Mode: mode.String()}
	seen := make(map[string]int)

	jobs := make(map[int]manifest.Job, len(m.Jobs))
	for _, j := range m.Jobs {
		jobs[j.Ordinal] = j
	}
	bad := make(map[int]*manifest.RowError, len(m.Bad))
	for _, b := range m.Bad {
		bad[b.Ordinal] = b
	}

	for ordinal := 1; ordinal <= m.Rows(); ordinal++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var res RowResult
		if rowErr, ok := bad[ordinal]; ok {
			res = RowResult{Ordinal: ordinal, Line: rowErr.Line, Err: rowErr.Err.Error()}
		} else {
			res = e.processJob(jobs[ordinal], mode, base, renderer, writer, seen)
		}

		if res.OK {
			result.Succeeded++
		} else {
			result.Failed++
			e.log.Debug().Int("row", ordinal).Str("error", res.Err).Msg("row failed")
		}
		result.Rows = append(result.Rows, res)
		if req.OnRow != nil {
			req.OnRow(res)
		}
	}

	result.Elapsed = e.clock.Now().Sub(started)
	return result, nil
}

// resolveMode decides the run mode from the manifest shape and the
// presence of an external base image path. A contradictory combination
// is rejected rather than guessed at.
func resolveMode(shape manifest.Shape, baseImage string) (Mode, error) {
	switch shape {
	case manifest.ShapePerRow:
		if baseImage != "" {
			return 0, fmt.Errorf("%w: manifest rows carry their own base images but --image was also given", ErrConfiguration)
		}
		return ModePerRow, nil
	default:
		if baseImage == "" {
			return 0, fmt.Errorf("%w: manifest has no per-row base images and no --image was given", ErrConfiguration)
		}
		return ModeSharedBase, nil
	}
}

// loadFont loads the configured font face. A font is mandatory once the
// manifest contains any text row; a configured but unloadable font is
// fatal either way.
func (e *Engine) loadFont(cfg *config.Config, m *manifest.Manifest) (font.Face, error) {
	if cfg.FontPath == "" {
		if m.HasKind(manifest.KindText) {
			return nil, fmt.Errorf("%w: --font is required when the manifest contains text rows", ErrConfiguration)
		}
		return nil, nil
	}
	face, err := render.LoadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return face, nil
}

// processJob runs one row end to end: base resolution, render, write.
func (e *Engine) processJob(job manifest.Job, mode Mode, shared image.Image, renderer *render.Renderer, writer *output.Writer, seen map[string]int) RowResult {
	res := RowResult{Ordinal: job.Ordinal, Line: job.Line}
	name := output.ResolveName(job.Output, job.Ordinal)

	if job.Output != "" {
		if prev, dup := seen[name]; dup {
			e.log.Warn().
				Str("output", name).
				Int("row", job.Ordinal).
				Int("previous_row", prev).
				Msg("duplicate output filename, earlier result will be overwritten")
		}
	}
	seen[name] = job.Ordinal

	base := shared
	if mode == ModePerRow {
		var err error
		base, err = imaging.Open(job.BaseImage)
		if err != nil {
			res.Err = fmt.Sprintf("unreadable base image %q: %v", job.BaseImage, err)
			return res
		}
	}

	var (
		out *image.NRGBA
		pl  render.Placement
		err error
	)
	switch job.Kind {
	case manifest.KindText:
		out, pl, err = renderer.RenderText(base, job.Value)
	case manifest.KindImage:
		out, pl, err = renderer.RenderImage(base, job.Value)
	case manifest.KindQR:
		out, pl, err = renderer.RenderQR(base, job.Value)
	default:
		err = fmt.Errorf("unknown kind %q", job.Kind)
	}
	if err != nil {
		res.Err = err.Error()
		return res
	}

	path, err := writer.Write(out, name)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	res.OK = true
	res.Output = path
	res.Detail = fmt.Sprintf("%s %q at %s", job.Kind, job.Value, pl)
	return res
}
