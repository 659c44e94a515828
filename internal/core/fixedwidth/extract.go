// Package fixedwidth slices fixed-format records into output fields
//
// Extraction is pure: the same line and table always give the same row, and
// nothing here touches I/O. The driver owns line numbers and adds them to
// errors returned from here.
package fixedwidth

import (
	"strings"

	"ipumsprep/internal/core/varspec"
	perr "ipumsprep/internal/platform/errors"

	"github.com/shopspring/decimal"
)

// DefaultMissing is the PostgreSQL COPY null marker
const DefaultMissing = `\N`

const opExtract = "extract"

// Extractor turns raw records into rows of text fields
type Extractor struct {
	// Missing is emitted for blank numeric fields; empty means DefaultMissing
	Missing string
}

// MissingToken returns the token written for missing numeric values
func (x Extractor) MissingToken() string {
	if x.Missing == "" {
		return DefaultMissing
	}
	return x.Missing
}

// Validate rejects a missing token that could be read as data: one that
// parses as a number, or one holding a tab or line break that would shift
// the columns or rows of the output
func (x Extractor) Validate() error {
	tok := x.MissingToken()
	if strings.ContainsAny(tok, "\t\r\n") {
		return perr.InvalidArgf("missing token %q contains a tab or line break", tok)
	}
	if _, err := decimal.NewFromString(tok); err == nil {
		return perr.InvalidArgf("missing token %q reads as a number", tok)
	}
	if v, missing, err := Scale(tok, 0); err == nil && !missing {
		return perr.InvalidArgf("missing token %q reads as the number %s", tok, v)
	}
	return nil
}

// Extract returns one field per variable of t, in table order
func (x Extractor) Extract(line string, t varspec.Table) ([]string, error) {
	return x.ExtractInto(make([]string, 0, t.Len()), line, t)
}

// ExtractInto is Extract reusing dst's backing array
// On error the returned slice is nil and dst's contents are unspecified
func (x Extractor) ExtractInto(dst []string, line string, t varspec.Table) ([]string, error) {
	dst = dst[:0]
	if len(line) < t.MinRecordLen() {
		return nil, shortRecord(line, t)
	}
	for i := 0; i < t.Len(); i++ {
		f, err := x.Field(line, t.At(i))
		if err != nil {
			return nil, err
		}
		dst = append(dst, f)
	}
	return dst, nil
}

// Field renders a single variable of line
func (x Extractor) Field(line string, v varspec.Variable) (string, error) {
	raw, ok := v.Slice(line)
	if !ok {
		return "", perr.WithOp(perr.WithVariable(
			perr.ShortRecordf("record has %d bytes, variable ends at %d", len(line), v.End()), v.Name), opExtract)
	}
	if v.Kind == varspec.String {
		return strings.TrimSpace(raw), nil
	}
	val, missing, err := Scale(raw, v.Decimals)
	if err != nil {
		return "", perr.WithOp(perr.WithVariable(err, v.Name), opExtract)
	}
	if missing {
		return x.MissingToken(), nil
	}
	return val, nil
}

// shortRecord names the first variable in table order that the line cannot cover
func shortRecord(line string, t varspec.Table) error {
	for i := 0; i < t.Len(); i++ {
		v := t.At(i)
		if v.End() > len(line) {
			return perr.WithOp(perr.WithVariable(
				perr.ShortRecordf("record has %d bytes, variable ends at %d", len(line), v.End()), v.Name), opExtract)
		}
	}
	return perr.Internalf("record of %d bytes reported short for table needing %d", len(line), t.MinRecordLen())
}
