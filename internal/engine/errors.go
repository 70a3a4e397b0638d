package engine

import "errors"

var (
	// ErrConfiguration indicates a configuration-level failure that
	// aborts the run before any row is processed.
	ErrConfiguration = errors.New("configuration error")

	// ErrManifest indicates the CSV manifest could not be parsed far
	// enough to establish its shape.
	ErrManifest = errors.New("manifest error")
)
