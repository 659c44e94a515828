// Package ddl renders PostgreSQL create-table statements for an extract layout
//
// Column types follow the exact text the extractor writes: implied-decimal
// variables become numeric(W,D) so nothing is rounded on load.
package ddl

import (
	"fmt"
	"strings"

	"ipumsprep/internal/core/varspec"

	"github.com/jackc/pgx/v5"
)

// DefaultTable is the data table name when none is configured
const DefaultTable = "ipumsdata"

// intDigits is the widest field that always fits a 4-byte int
const intDigits = 9

// bigintDigits is the widest field that always fits an 8-byte bigint
const bigintDigits = 18

// columnPad aligns column types for readability
const columnPad = 26

// Options configures generated names
type Options struct {
	// Table is the base table name, optionally schema-qualified as schema.table
	Table string
}

func (o Options) table() string {
	if t := strings.TrimSpace(o.Table); t != "" {
		return strings.ToLower(t)
	}
	return DefaultTable
}

// TableName returns the quoted table for a record type; flat layouts use the base name
func TableName(o Options, recordType string) string {
	parts := strings.Split(o.table(), ".")
	if recordType != varspec.FlatRecordType {
		parts[len(parts)-1] += "_" + strings.ToLower(recordType)
	}
	return pgx.Identifier(parts).Sanitize()
}

// Column returns the quoted, lower-cased column name of v
func Column(v varspec.Variable) string {
	return pgx.Identifier{strings.ToLower(v.Name)}.Sanitize()
}

// ColumnType maps a variable to its PostgreSQL type
func ColumnType(v varspec.Variable) string {
	switch {
	case v.Kind == varspec.String:
		return fmt.Sprintf("varchar(%d)", v.Width)
	case v.Decimals > 0:
		// precision covers the leading zeros of fields narrower than their scale
		return fmt.Sprintf("numeric(%d,%d)", max(v.Width, v.Decimals), v.Decimals)
	case v.Width > bigintDigits:
		return fmt.Sprintf("numeric(%d,0)", v.Width)
	case v.Width > intDigits:
		return "bigint"
	default:
		return "int"
	}
}

// Generate returns one create table statement per record type, columns in declaration order
func Generate(l varspec.Layout, o Options) string {
	var b strings.Builder
	for _, rt := range l.RecordTypes() {
		t, _ := l.TableFor(rt)
		cols := make([][2]string, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			v := t.At(i)
			cols = append(cols, [2]string{Column(v), ColumnType(v)})
		}
		writeTable(&b, TableName(o, rt), cols)
	}
	return b.String()
}

// LabelTables returns the statements for the <table>_vars and <table>_vals lookup tables
func LabelTables(o Options) string {
	var b strings.Builder
	writeTable(&b, TableName(o, "vars"), [][2]string{
		{pgx.Identifier{"name"}.Sanitize(), "text"},
		{pgx.Identifier{"label"}.Sanitize(), "text"},
	})
	writeTable(&b, TableName(o, "vals"), [][2]string{
		{pgx.Identifier{"name"}.Sanitize(), "text"},
		{pgx.Identifier{"value"}.Sanitize(), "text"},
		{pgx.Identifier{"label"}.Sanitize(), "text"},
	})
	return b.String()
}

func writeTable(b *strings.Builder, name string, cols [][2]string) {
	b.WriteString("create table ")
	b.WriteString(name)
	b.WriteString(" (\n")
	for i, c := range cols {
		fmt.Fprintf(b, "    %-*s %s", columnPad, c[0], c[1])
		if i < len(cols)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(");\n")
}
