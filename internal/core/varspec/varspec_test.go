package varspec

import (
	"testing"

	perr "ipumsprep/internal/platform/errors"
	kit "ipumsprep/internal/platform/testkit"
)

func sample() []Variable {
	return []Variable{
		{Name: "YEAR", Start: 0, Width: 4},
		{Name: "SERIAL", Start: 4, Width: 8},
		{Name: "INCOME", Start: 12, Width: 7, Decimals: 2},
		{Name: "STATE", Start: 19, Width: 2, Kind: String},
	}
}

func TestNewTable_KeepsDeclarationOrder(t *testing.T) {
	vars := sample()
	// declare out of positional order on purpose
	vars[0], vars[2] = vars[2], vars[0]

	tab, err := NewTable(vars)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	want := []string{"INCOME", "SERIAL", "YEAR", "STATE"}
	got := tab.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if tab.Len() != 4 || tab.At(0).Name != "INCOME" {
		t.Fatalf("Len/At mismatch")
	}
	if tab.MinRecordLen() != 21 {
		t.Fatalf("MinRecordLen() = %d, want 21", tab.MinRecordLen())
	}
}

func TestNewTable_IsImmutable(t *testing.T) {
	vars := sample()
	tab, err := NewTable(vars)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	vars[0].Name = "CHANGED"
	if tab.At(0).Name != "YEAR" {
		t.Fatalf("table shares caller slice")
	}
	out := tab.Vars()
	out[1].Width = 99
	if tab.At(1).Width != 8 {
		t.Fatalf("Vars() leaks internal slice")
	}
}

func TestLookup(t *testing.T) {
	tab, err := NewTable(sample())
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	v, ok := tab.Lookup("INCOME")
	if !ok || v.Decimals != 2 || v.Start != 12 {
		t.Fatalf("Lookup(INCOME) = %+v,%v", v, ok)
	}
	if _, ok := tab.Lookup("NOPE"); ok {
		t.Fatalf("Lookup(NOPE) should miss")
	}
	var zero Table
	if _, ok := zero.Lookup("YEAR"); ok || zero.Len() != 0 {
		t.Fatalf("zero Table should be empty")
	}
}

func TestNewTable_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		vars    []Variable
		varName string
		needle  string
	}{
		{"zero width", []Variable{{Name: "A", Start: 0, Width: 0}}, "A", "Width"},
		{"negative start", []Variable{{Name: "A", Start: -1, Width: 2}}, "A", "Start"},
		{"negative decimals", []Variable{{Name: "A", Width: 2, Decimals: -1}}, "A", "Decimals"},
		{"empty name", []Variable{{Name: "", Width: 2}}, "", "Name"},
		{"bad name", []Variable{{Name: "1ABC", Width: 2}}, "1ABC", "variable name"},
		{"bad kind", []Variable{{Name: "A", Width: 2, Kind: Kind(7)}}, "A", "Kind"},
		{"string with decimals", []Variable{{Name: "A", Width: 2, Decimals: 1, Kind: String}}, "A", "string"},
		{"duplicate", []Variable{{Name: "A", Width: 2}, {Name: "A", Start: 2, Width: 2}}, "A", "duplicate"},
		{"overlap", []Variable{{Name: "A", Width: 4}, {Name: "B", Start: 3, Width: 2}}, "B", "overlaps A"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewTable(c.vars)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
				t.Fatalf("code = %v, want malformed_spec (%v)", perr.CodeOf(err), err)
			}
			e, _ := perr.As(err)
			if e.Variable() != c.varName {
				t.Fatalf("Variable() = %q, want %q", e.Variable(), c.varName)
			}
			kit.MustContain(t, err.Error(), c.needle)
		})
	}
}

func TestNewTable_DecimalsMayExceedWidth(t *testing.T) {
	tab, err := NewTable([]Variable{{Name: "RATE", Width: 1, Decimals: 2}})
	if err != nil {
		t.Fatalf("decimals wider than the field rejected: %v", err)
	}
	if v, _ := tab.Lookup("RATE"); v.Decimals != 2 {
		t.Fatalf("Decimals = %d, want 2", v.Decimals)
	}
}

func TestNewTable_AdjacentExtentsDoNotOverlap(t *testing.T) {
	_, err := NewTable([]Variable{
		{Name: "B", Start: 2, Width: 2},
		{Name: "A", Start: 0, Width: 2},
		{Name: "C", Start: 10, Width: 1},
	})
	if err != nil {
		t.Fatalf("adjacent extents rejected: %v", err)
	}
}

func TestVariableSlice(t *testing.T) {
	v := Variable{Name: "A", Start: 2, Width: 3}
	if s, ok := v.Slice("abcdef"); !ok || s != "cde" {
		t.Fatalf("Slice = %q,%v", s, ok)
	}
	if _, ok := v.Slice("abcd"); ok {
		t.Fatalf("Slice should fail on short line")
	}
	if v.End() != 5 {
		t.Fatalf("End() = %d", v.End())
	}
}

func TestKindString(t *testing.T) {
	if Numeric.String() != "numeric" || String.String() != "string" || Kind(9).String() != "kind_9" {
		t.Fatalf("Kind.String mismatch")
	}
}
