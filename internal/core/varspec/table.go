package varspec

import (
	"slices"

	perr "ipumsprep/internal/platform/errors"
)

// Table is an ordered, validated set of variables for one record type
// The zero value is an empty table
type Table struct {
	vars   []Variable
	index  map[string]int
	minLen int
}

// NewTable validates vars and returns an immutable Table in the given order
// Checks run in this order: per-variable rules, unique names, non-overlapping extents
func NewTable(vars []Variable) (Table, error) {
	t := Table{
		vars:  slices.Clone(vars),
		index: make(map[string]int, len(vars)),
	}
	for i, v := range t.vars {
		if err := validateVariable(v); err != nil {
			return Table{}, err
		}
		if _, dup := t.index[v.Name]; dup {
			return Table{}, perr.WithVariable(perr.MalformedSpecf("duplicate variable name"), v.Name)
		}
		t.index[v.Name] = i
		t.minLen = max(t.minLen, v.End())
	}
	if err := checkOverlap(t.vars); err != nil {
		return Table{}, err
	}
	return t, nil
}

// checkOverlap sweeps extents sorted by start; the table order itself is untouched
func checkOverlap(vars []Variable) error {
	byStart := make([]int, len(vars))
	for i := range byStart {
		byStart[i] = i
	}
	slices.SortStableFunc(byStart, func(a, b int) int { return vars[a].Start - vars[b].Start })

	for i := 1; i < len(byStart); i++ {
		prev, cur := vars[byStart[i-1]], vars[byStart[i]]
		if cur.Start < prev.End() {
			return perr.WithVariable(
				perr.MalformedSpecf("extent [%d,%d) overlaps %s [%d,%d)",
					cur.Start, cur.End(), prev.Name, prev.Start, prev.End()),
				cur.Name,
			)
		}
	}
	return nil
}

// Len returns the number of variables
func (t Table) Len() int { return len(t.vars) }

// At returns the i-th variable in declaration order
func (t Table) At(i int) Variable { return t.vars[i] }

// Vars returns a copy of the variables in declaration order
func (t Table) Vars() []Variable { return slices.Clone(t.vars) }

// Names returns the variable names in declaration order
func (t Table) Names() []string {
	out := make([]string, len(t.vars))
	for i, v := range t.vars {
		out[i] = v.Name
	}
	return out
}

// Lookup returns the variable called name
func (t Table) Lookup(name string) (Variable, bool) {
	i, ok := t.index[name]
	if !ok {
		return Variable{}, false
	}
	return t.vars[i], true
}

// MinRecordLen is the shortest record that covers every variable's extent
func (t Table) MinRecordLen() int { return t.minLen }
