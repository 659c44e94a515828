package tsv

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"ipumsprep/internal/core/varspec"
	perr "ipumsprep/internal/platform/errors"
)

// Stdout is the output path that writes a flat extract to standard output
const Stdout = "-"

// createFile is swapped in tests
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// stdout is swapped in tests
var stdout io.Writer = os.Stdout

// SplitPath returns the per-record-type output path <root>_<rectype><ext>
func SplitPath(path, recordType string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + recordType + ext
}

type sink struct {
	path string
	w    *Writer
	c    io.Closer
}

// Files routes rows to one output file per record type of a layout
// Flat layouts write to path itself
type Files struct {
	order []string
	sinks map[string]*sink
}

// Create opens every output of layout up front, truncating existing files
// On failure the files already created are closed
func Create(path string, layout varspec.Layout) (*Files, error) {
	if path == "" {
		return nil, perr.InvalidArgf("output path is empty")
	}
	f := &Files{sinks: map[string]*sink{}}

	if !layout.Mixed() {
		if path == Stdout {
			f.add(varspec.FlatRecordType, &sink{path: Stdout, w: NewWriter(stdout, "stdout")})
			return f, nil
		}
		if err := f.open(varspec.FlatRecordType, path); err != nil {
			return nil, err
		}
		return f, nil
	}

	if path == Stdout {
		return nil, perr.InvalidArgf("hierarchical extracts need a file path, not stdout")
	}
	for _, rt := range layout.RecordTypes() {
		if err := f.open(rt, SplitPath(path, rt)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// CreateFlat opens a single output at path, for label exports and flat extracts
func CreateFlat(path string) (*Files, error) { return Create(path, varspec.Layout{}) }

func (f *Files) open(recordType, path string) error {
	wc, err := createFile(path)
	if err != nil {
		return perr.SinkIO(err, "create "+path)
	}
	f.add(recordType, &sink{path: path, w: NewWriter(wc, path), c: wc})
	return nil
}

func (f *Files) add(recordType string, s *sink) {
	f.order = append(f.order, recordType)
	f.sinks[recordType] = s
}

// Writer returns the row writer for a record type
func (f *Files) Writer(recordType string) (*Writer, bool) {
	s, ok := f.sinks[recordType]
	if !ok {
		return nil, false
	}
	return s.w, true
}

// Path returns the output path of a record type
func (f *Files) Path(recordType string) string {
	if s, ok := f.sinks[recordType]; ok {
		return s.path
	}
	return ""
}

// Paths returns every output path in layout order
func (f *Files) Paths() []string {
	out := make([]string, 0, len(f.order))
	for _, rt := range f.order {
		out = append(out, f.sinks[rt].path)
	}
	return out
}

// Close flushes and closes every output and returns the first error
// Close is safe to call more than once
func (f *Files) Close() error {
	var first error
	for _, rt := range f.order {
		s := f.sinks[rt]
		if err := s.w.Flush(); err != nil && first == nil {
			first = err
		}
		if s.c != nil {
			if err := s.c.Close(); err != nil && first == nil {
				first = perr.SinkIO(err, "close "+s.path)
			}
			s.c = nil
		}
	}
	return first
}
