package ingest

import (
	"context"

	"github.com/joseph-ayodele/bl-generator/internal/pipeline"
)

// Result is the per-file outcome of a directory run.
type Result struct {
	SourcePath   string
	OutputPath   string
	InvoiceNo    string
	HashHex      string
	Deduplicated bool // same bytes as an earlier file; OutputPath is shared
	Embedded     bool
	Err          string
}

// DirStats summarizes a directory run.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Generator turns one invoice PDF into a B/L.
type Generator interface {
	GenerateBL(ctx context.Context, pdf []byte) (pipeline.Document, error)
}
