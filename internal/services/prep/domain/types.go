// Package domain holds the prep service types and ports
package domain

import (
	"time"

	"ipumsprep/internal/core/labels"
	"ipumsprep/internal/core/varspec"
)

// Spec is everything read from one syntax file
type Spec struct {
	Layout      varspec.Layout
	ValueLabels []labels.ValueLabel
}

// DataRequest asks for one fixed-format to delimited conversion
type DataRequest struct {
	SyntaxPath string
	DataPath   string
	OutPath    string
	// MaxRows stops after this many records; zero or negative means no cap
	MaxRows int
}

// DataSummary reports what a conversion did
type DataSummary struct {
	RunID string
	// Records is the number of records converted
	Records int
	// Bytes is the uncompressed input consumed
	Bytes int64
	// Capped is true when the run stopped because MaxRows records were converted
	Capped bool
	// Written is rows per record type; flat extracts use varspec.FlatRecordType
	Written map[string]int
	// Paths is the output path per record type
	Paths   map[string]string
	Elapsed time.Duration
}
