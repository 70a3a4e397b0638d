package engine

import (
	"fmt"
	"time"

	"github.com/catalogtools/bulkstamp/internal/config"
)

// Mode is the resolved operating mode of a run.
type Mode int

const (
	// ModeSharedBase overlays every row onto a copy of one externally
	// supplied base image.
	ModeSharedBase Mode = iota

	// ModePerRow loads a separate base image named by each row.
	ModePerRow
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeSharedBase:
		return "shared-base"
	case ModePerRow:
		return "per-row"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// RunRequest carries everything a run needs.
type RunRequest struct {
	Config *config.Config

	// OnStart, if set, is called once after mode resolution and
	// before any row is processed.
	OnStart func(StartInfo)

	// OnRow, if set, is called after each row completes.
	OnRow func(RowResult)
}

// StartInfo describes the resolved run before processing begins.
type StartInfo struct {
	Mode Mode `json:"mode"`
	Rows int  `json:"rows"`

	// Base image path and dimensions, set in shared-base mode.
	BasePath string `json:"base_path,omitempty"`
	BaseW    int    `json:"base_width,omitempty"`
	BaseH    int    `json:"base_height,omitempty"`
}

// RowResult is the outcome of one manifest row.
type RowResult struct {
	Ordinal int    `json:"row"`
	Line    int    `json:"line,omitempty"`
	OK      bool   `json:"ok"`
	Output  string `json:"output,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Err     string `json:"error,omitempty"`
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID     string        `json:"run_id"`
	Mode      string        `json:"mode"`
	Rows      []RowResult   `json:"rows"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}
