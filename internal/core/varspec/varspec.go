// Package varspec holds the variable specification table: the ordered,
// immutable column layout of a fixed-format extract
//
// Positions are 0-based byte offsets. Syntax files count from 1 and the parser
// converts before building a Table. Table order is declaration order and is
// the output column order; nothing here re-sorts it.
package varspec

import "strconv"

// Kind tells the extractor how to render a field
type Kind uint8

const (
	// Numeric fields are signed integers rescaled by their implied decimals
	Numeric Kind = iota
	// String fields are passed through trimmed
	String
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	default:
		return "kind_" + strconv.Itoa(int(k))
	}
}

// Variable describes one column of a fixed-format record
type Variable struct {
	Name       string `validate:"required,varname"`
	RecordType string `validate:"omitempty,max=16"`
	Start      int    `validate:"gte=0"`
	Width      int    `validate:"gt=0"`
	Decimals   int    `validate:"gte=0"`
	Kind       Kind   `validate:"oneof=0 1"`
	Label      string
}

// End returns the exclusive end offset of the variable's extent
func (v Variable) End() int { return v.Start + v.Width }

// Slice returns the raw field text of line and whether line was long enough
func (v Variable) Slice(line string) (string, bool) {
	if len(line) < v.End() {
		return "", false
	}
	return line[v.Start:v.End()], true
}
