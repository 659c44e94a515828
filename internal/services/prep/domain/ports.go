package domain

import (
	"context"

	"ipumsprep/internal/core/varspec"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	RunData(ctx context.Context, req DataRequest) (DataSummary, error)
	DDL(ctx context.Context, syntaxPath string) (string, error)
	ExportVars(ctx context.Context, syntaxPath, outPath string) (n int, err error)
	ExportVals(ctx context.Context, syntaxPath, outPath string) (read, written int, err error)
}

// SyntaxLoader reads and validates a syntax file
type SyntaxLoader interface {
	Load(ctx context.Context, path string) (Spec, error)
}

// Source yields raw records in file order; Next returns io.EOF when done
type Source interface {
	Next() (string, error)
	Close() error
	Stats() (lines int, bytes int64)
}

// SourceOpener opens a raw data file
type SourceOpener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// RowWriter accepts one delimited row at a time
type RowWriter interface {
	WriteRow(fields []string) error
	Rows() int
}

// Sinks routes rows by record type
type Sinks interface {
	Writer(recordType string) (RowWriter, bool)
	Path(recordType string) string
	Paths() []string
	Close() error
}

// SinkFactory creates the outputs for a layout; a zero Layout means one flat output
type SinkFactory interface {
	Create(path string, layout varspec.Layout) (Sinks, error)
}
