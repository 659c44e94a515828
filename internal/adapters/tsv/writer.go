// Package tsv writes tab-separated rows in the PostgreSQL COPY text layout
//
// Fields are joined by a single tab, rows end with a single newline and
// nothing is quoted. Callers own escaping; data fields from fixed-format
// extracts never contain tabs or newlines.
package tsv

import (
	"bufio"
	"io"

	perr "ipumsprep/internal/platform/errors"
)

const bufBytes = 256 * 1024

// Writer buffers rows onto an io.Writer
// The first write error sticks; later calls return it without writing
type Writer struct {
	bw   *bufio.Writer
	name string
	rows int
	err  error
}

// NewWriter returns a Writer over w; name is used in error messages
func NewWriter(w io.Writer, name string) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, bufBytes), name: name}
}

// WriteRow writes fields as one line
func (w *Writer) WriteRow(fields []string) error {
	if w.err != nil {
		return w.err
	}
	for i, f := range fields {
		if i > 0 {
			if err := w.bw.WriteByte('\t'); err != nil {
				return w.fail(err)
			}
		}
		if _, err := w.bw.WriteString(f); err != nil {
			return w.fail(err)
		}
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return w.fail(err)
	}
	w.rows++
	return nil
}

// Rows returns the number of rows written
func (w *Writer) Rows() int { return w.rows }

// Flush pushes buffered rows to the underlying writer
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) fail(err error) error {
	w.err = perr.SinkIO(err, "write "+w.name)
	return w.err
}
