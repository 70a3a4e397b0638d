// Package manifest parses the CSV manifest that drives a batch run.
//
// The manifest has no header row. The column count of the first data row
// establishes the manifest shape for the whole file: three columns
// (kind, value, output) means every row overlays onto one shared base
// image, four columns (base image, kind, value, output) means each row
// carries its own base image. The output column may be empty, in which
// case the job is auto-named from its position in the run.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind is the overlay type carried by a row.
type Kind string

const (
	// KindText overlays a text label.
	KindText Kind = "text"

	// KindImage overlays a scaled logo/badge image loaded from disk.
	KindImage Kind = "image"

	// KindQR overlays a generated QR code encoding the row value.
	KindQR Kind = "qr"
)

// ParseKind normalizes a raw kind token.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindText:
		return KindText, nil
	case KindImage:
		return KindImage, nil
	case KindQR:
		return KindQR, nil
	}
	return "", fmt.Errorf("unknown kind %q (use 'text', 'image' or 'qr')", s)
}

// Shape is the detected manifest shape.
type Shape int

const (
	// ShapeSharedBase rows have three columns and overlay onto one
	// externally supplied base image.
	ShapeSharedBase Shape = iota

	// ShapePerRow rows have four columns, the first naming the row's
	// own base image.
	ShapePerRow
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeSharedBase:
		return "shared-base"
	case ShapePerRow:
		return "per-row"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// fieldCount returns the column count that identifies the shape.
func (s Shape) fieldCount() int {
	if s == ShapePerRow {
		return 4
	}
	return 3
}

// Job is one resolved unit of work derived from a single CSV row.
type Job struct {
	// Line is the 1-based line number in the CSV file.
	Line int

	// Ordinal is the 1-based position among data rows. It drives
	// auto-naming and is stable even when other rows fail.
	Ordinal int

	// BaseImage is the row's own base image path. Empty in
	// shared-base shape.
	BaseImage string

	Kind  Kind
	Value string

	// Output is the requested output filename. Empty means auto-name.
	Output string
}

// RowError describes a data row that could not be parsed. Rows after the
// first that fail parsing are recoverable: the run skips them and
// continues.
type RowError struct {
	Line    int
	Ordinal int
	Raw     string
	Err     error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Raw, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RowError) Unwrap() error { return e.Err }

// Manifest is the parsed CSV: well-formed jobs plus the rows that failed
// to parse, both in file order.
type Manifest struct {
	Shape Shape
	Jobs  []Job
	Bad   []*RowError
}

// Rows returns the total number of data rows, valid or not.
func (m *Manifest) Rows() int {
	return len(m.Jobs) + len(m.Bad)
}

// HasKind reports whether any valid job carries the given kind.
func (m *Manifest) HasKind(k Kind) bool {
	for _, j := range m.Jobs {
		if j.Kind == k {
			return true
		}
	}
	return false
}

// ErrEmpty is returned for a manifest with no data rows.
var ErrEmpty = errors.New("manifest contains no data rows")

// Parse reads the whole manifest. The first data row must be well formed
// since it establishes the shape; an error there (or an empty or
// unreadable manifest) fails the parse. Later malformed rows are
// collected in Manifest.Bad instead of aborting.
func Parse(r io.Reader) (*Manifest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	m := &Manifest{}
	ordinal := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			if ordinal == 0 {
				return nil, err
			}
			ordinal++
			m.Bad = append(m.Bad, &RowError{Line: line, Ordinal: ordinal, Raw: "", Err: err})
			continue
		}
		line, _ := cr.FieldPos(0)
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		ordinal++
		raw := strings.Join(record, ",")

		if ordinal == 1 {
			shape, err := sniffShape(record)
			if err != nil {
				return nil, fmt.Errorf("line %d (%s): %w", line, raw, err)
			}
			m.Shape = shape
		}

		job, err := parseRow(m.Shape, record)
		if err != nil {
			if ordinal == 1 {
				return nil, fmt.Errorf("line %d (%s): %w", line, raw, err)
			}
			m.Bad = append(m.Bad, &RowError{Line: line, Ordinal: ordinal, Raw: raw, Err: err})
			continue
		}
		job.Line = line
		job.Ordinal = ordinal
		m.Jobs = append(m.Jobs, job)
	}

	if ordinal == 0 {
		return nil, ErrEmpty
	}
	return m, nil
}

// sniffShape classifies the first data row by its column count.
func sniffShape(record []string) (Shape, error) {
	switch len(record) {
	case 3:
		return ShapeSharedBase, nil
	case 4:
		return ShapePerRow, nil
	default:
		return 0, fmt.Errorf("expected 3 or 4 columns, got %d", len(record))
	}
}

// parseRow converts a record into a Job, validating it against the
// established shape.
func parseRow(shape Shape, record []string) (Job, error) {
	if len(record) != shape.fieldCount() {
		return Job{}, fmt.Errorf("expected %d columns for %s shape, got %d",
			shape.fieldCount(), shape, len(record))
	}

	var job Job
	fields := record
	if shape == ShapePerRow {
		job.BaseImage = fields[0]
		if job.BaseImage == "" {
			return Job{}, errors.New("missing base image path")
		}
		fields = fields[1:]
	}

	kind, err := ParseKind(fields[0])
	if err != nil {
		return Job{}, err
	}
	job.Kind = kind

	job.Value = fields[1]
	if job.Value == "" {
		return Job{}, errors.New("missing value")
	}

	job.Output = fields[2]
	return job, nil
}
