// Package media inspects uploaded media files.
package media

import (
	"context"
)

// ProbeResult describes an inspected media file.
type ProbeResult struct {
	// Duration is the container duration in seconds.
	Duration float64
}

// Prober reads metadata from a local media file.
type Prober interface {
	// Probe inspects the file at inputPath.
	// The file must exist; ctx bounds the inspection.
	Probe(ctx context.Context, inputPath string) (*ProbeResult, error)
}
