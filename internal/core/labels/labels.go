// Package labels builds the variable-label and value-label lookup tables
// exported next to the data
package labels

import (
	"ipumsprep/internal/core/varspec"
	"ipumsprep/internal/platform/text"
)

// ValueLabel is one "value means label" entry of a value labels block
type ValueLabel struct {
	Variable string
	Value    string
	Label    string
	// Line is the syntax-file line the entry started on
	Line int
}

// Field prepares free text for a COPY text-format field
func Field(s string) string { return text.EscapeCopy(text.Clean(s)) }

// VariableRows returns name, label for every variable in declaration order
// Unlabelled variables get an empty label
func VariableRows(l varspec.Layout) [][]string {
	vars := l.Variables()
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, []string{v.Name, Field(v.Label)})
	}
	return rows
}

// ValueRows returns name, value, label for each entry whose variable is a
// numeric variable of l
// Labels of string variables and of undeclared variables are skipped and counted
func ValueRows(l varspec.Layout, vals []ValueLabel) (rows [][]string, skipped int) {
	rows = make([][]string, 0, len(vals))
	for _, vl := range vals {
		v, ok := l.Lookup(vl.Variable)
		if !ok || v.Kind == varspec.String {
			skipped++
			continue
		}
		rows = append(rows, []string{vl.Variable, Field(vl.Value), Field(vl.Label)})
	}
	return rows, skipped
}
