package labels

import (
	"testing"

	"ipumsprep/internal/core/varspec"
)

func layout(t *testing.T) varspec.Layout {
	t.Helper()
	l, err := varspec.NewLayout([]varspec.Variable{
		{Name: "STATEFIP", Start: 0, Width: 2, Label: "State (FIPS code)"},
		{Name: "NAMEFRST", Start: 2, Width: 10, Kind: varspec.String, Label: "First\tname"},
		{Name: "AGE", Start: 12, Width: 3},
	})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return l
}

func TestVariableRows(t *testing.T) {
	rows := VariableRows(layout(t))
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	want := [][]string{
		{"STATEFIP", "State (FIPS code)"},
		{"NAMEFRST", "First name"},
		{"AGE", ""},
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Fatalf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestValueRows_SkipsStringAndUnknown(t *testing.T) {
	vals := []ValueLabel{
		{Variable: "STATEFIP", Value: "01", Label: "Alabama"},
		{Variable: "NAMEFRST", Value: "X", Label: "ignored"},
		{Variable: "STATEFIP", Value: "02", Label: `Alaska \ "AK"`},
		{Variable: "GONE", Value: "1", Label: "no such variable"},
		{Variable: "AGE", Value: "090", Label: "90 (90+ in 1980 and 1990)"},
	}
	rows, skipped := ValueRows(layout(t), vals)
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %q", rows)
	}
	if rows[1][0] != "STATEFIP" || rows[1][1] != "02" || rows[1][2] != `Alaska \\ "AK"` {
		t.Fatalf("escaped row = %q", rows[1])
	}
	if rows[2][1] != "090" {
		t.Fatalf("value rewritten: %q", rows[2][1])
	}
}

func TestField(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"  plain  ":           "plain",
		"Caf\xe9":             "Café",
		"a\\b":                `a\\b`,
		"multi\n line\tlabel": "multi line label",
	}
	for in, want := range cases {
		if got := Field(in); got != want {
			t.Fatalf("Field(%q) = %q, want %q", in, got, want)
		}
	}
}
