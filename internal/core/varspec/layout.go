package varspec

import (
	"strings"

	perr "ipumsprep/internal/platform/errors"
)

// FlatRecordType is the record type key of a non-hierarchical layout
const FlatRecordType = ""

// Layout maps record types to their variable tables
// Flat extracts have one table under FlatRecordType; hierarchical (mixed)
// extracts carry a record-type field and one table per type
type Layout struct {
	mixed   bool
	recType Variable
	order   []string
	tables  map[string]Table
	all     []Variable
}

// NewFlatLayout wraps a single table
func NewFlatLayout(t Table) Layout {
	return Layout{
		order:  []string{FlatRecordType},
		tables: map[string]Table{FlatRecordType: t},
		all:    t.Vars(),
	}
}

// NewLayout validates vars as one flat table
func NewLayout(vars []Variable) (Layout, error) {
	t, err := NewTable(vars)
	if err != nil {
		return Layout{}, err
	}
	return NewFlatLayout(t), nil
}

// NewMixedLayout groups vars by RecordType, keeping first-appearance order of
// types and declaration order within each type
// recStart is 0-based; recWidth is the width of the record-type field
func NewMixedLayout(recStart, recWidth int, vars []Variable) (Layout, error) {
	if recStart < 0 || recWidth <= 0 {
		return Layout{}, perr.MalformedSpecf("record type field [%d,+%d) is invalid", recStart, recWidth)
	}
	grouped := map[string][]Variable{}
	var order []string
	for _, v := range vars {
		if v.RecordType == FlatRecordType {
			return Layout{}, perr.WithVariable(perr.MalformedSpecf("variable has no record type in a hierarchical layout"), v.Name)
		}
		if _, seen := grouped[v.RecordType]; !seen {
			order = append(order, v.RecordType)
		}
		grouped[v.RecordType] = append(grouped[v.RecordType], v)
	}
	if len(order) == 0 {
		return Layout{}, perr.MalformedSpecf("hierarchical layout declares no variables")
	}

	l := Layout{
		mixed:   true,
		recType: Variable{Name: "record_type", Start: recStart, Width: recWidth, Kind: String},
		order:   order,
		tables:  make(map[string]Table, len(order)),
		all:     append([]Variable(nil), vars...),
	}
	for _, rt := range order {
		t, err := NewTable(grouped[rt])
		if err != nil {
			return Layout{}, perr.WithOp(err, "record type "+rt)
		}
		l.tables[rt] = t
	}
	return l, nil
}

// Mixed reports whether records carry a record-type field
func (l Layout) Mixed() bool { return l.mixed }

// RecordTypes returns the record type keys in declaration order
func (l Layout) RecordTypes() []string { return append([]string(nil), l.order...) }

// TableFor returns the table for a record type
func (l Layout) TableFor(recordType string) (Table, bool) {
	t, ok := l.tables[recordType]
	return t, ok
}

// Variables returns every variable in declaration order across record types
func (l Layout) Variables() []Variable { return append([]Variable(nil), l.all...) }

// Lookup finds a variable by name across record types (first declaration wins)
func (l Layout) Lookup(name string) (Variable, bool) {
	for _, v := range l.all {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// RecordTypeOf reads the record-type field of line; flat layouts always return FlatRecordType
func (l Layout) RecordTypeOf(line string) (string, error) {
	if !l.mixed {
		return FlatRecordType, nil
	}
	raw, ok := l.recType.Slice(line)
	if !ok {
		return "", perr.ShortRecordf("record has %d bytes, record type field needs %d", len(line), l.recType.End())
	}
	rt := strings.TrimSpace(raw)
	if _, ok := l.tables[rt]; !ok {
		return "", perr.WithRaw(perr.UnknownRecordTypef("record type has no variables in the syntax file"), raw)
	}
	return rt, nil
}
