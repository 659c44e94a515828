package tsv

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"ipumsprep/internal/core/varspec"
	perr "ipumsprep/internal/platform/errors"
	kit "ipumsprep/internal/platform/testkit"
)

func mixedLayout(t *testing.T) varspec.Layout {
	t.Helper()
	l, err := varspec.NewMixedLayout(0, 1, []varspec.Variable{
		{Name: "RECTYPE", RecordType: "H", Start: 0, Width: 1, Kind: varspec.String},
		{Name: "SERIAL", RecordType: "H", Start: 1, Width: 4},
		{Name: "RECTYPEP", RecordType: "P", Start: 0, Width: 1, Kind: varspec.String},
		{Name: "AGE", RecordType: "P", Start: 1, Width: 3},
	})
	if err != nil {
		t.Fatalf("NewMixedLayout: %v", err)
	}
	return l
}

func TestSplitPath(t *testing.T) {
	cases := map[string]string{
		"out.tsv":          "out_H.tsv",
		"/tmp/usa.dat.txt": "/tmp/usa.dat_H.txt",
		"noext":            "noext_H",
	}
	for in, want := range cases {
		if got := SplitPath(in, "H"); got != want {
			t.Fatalf("SplitPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreate_Flat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usa.tsv")
	f, err := CreateFlat(path)
	if err != nil {
		t.Fatalf("CreateFlat: %v", err)
	}
	w, ok := f.Writer(varspec.FlatRecordType)
	if !ok {
		t.Fatalf("no flat writer")
	}
	_ = w.WriteRow([]string{"1", "2"})
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := kit.ReadFile(t, path); got != "1\t2\n" {
		t.Fatalf("file = %q", got)
	}
	if p := f.Paths(); len(p) != 1 || p[0] != path {
		t.Fatalf("Paths() = %v", p)
	}
}

func TestCreate_MixedSplitsPerRecordType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usa.tsv")
	f, err := Create(path, mixedLayout(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h, _ := f.Writer("H")
	p, _ := f.Writer("P")
	_ = h.WriteRow([]string{"H", "1"})
	_ = p.WriteRow([]string{"P", "25"})
	_ = p.WriteRow([]string{"P", "31"})
	if _, ok := f.Writer("X"); ok {
		t.Fatalf("Writer(X) should miss")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := f.Paths(); len(got) != 2 || got[0] != f.Path("H") || got[1] != f.Path("P") {
		t.Fatalf("Paths() = %v, want H then P", got)
	}
	if got := kit.ReadFile(t, f.Path("H")); got != "H\t1\n" {
		t.Fatalf("H file = %q", got)
	}
	if got := kit.ReadFile(t, f.Path("P")); got != "P\t25\nP\t31\n" {
		t.Fatalf("P file = %q", got)
	}
	if f.Path("P") != filepath.Join(filepath.Dir(path), "usa_P.tsv") {
		t.Fatalf("Path(P) = %q", f.Path("P"))
	}
	if f.Path("X") != "" {
		t.Fatalf("Path(X) should be empty")
	}
}

func TestCreate_Stdout(t *testing.T) {
	var buf bytes.Buffer
	kit.Swap[io.Writer](t, &stdout, &buf)

	f, err := CreateFlat(Stdout)
	if err != nil {
		t.Fatalf("CreateFlat(-): %v", err)
	}
	w, _ := f.Writer(varspec.FlatRecordType)
	_ = w.WriteRow([]string{"a", "b"})
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.String() != "a\tb\n" {
		t.Fatalf("stdout = %q", buf.String())
	}

	if _, err := Create(Stdout, mixedLayout(t)); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("mixed to stdout err = %v", err)
	}
}

func TestCreate_Errors(t *testing.T) {
	if _, err := CreateFlat(""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("empty path err = %v", err)
	}

	var closed int
	calls := 0
	kit.Swap(t, &createFile, func(path string) (io.WriteCloser, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("permission denied")
		}
		return nopWriteCloser{&closed}, nil
	})
	_, err := Create("out.tsv", mixedLayout(t))
	if !perr.IsCode(err, perr.ErrorCodeSinkIO) {
		t.Fatalf("err = %v, want sink_io", err)
	}
	kit.MustContain(t, err.Error(), "out_P.tsv")
	if closed != 1 {
		t.Fatalf("already-created outputs closed %d times, want 1", closed)
	}
}

type nopWriteCloser struct{ closed *int }

func (n nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (n nopWriteCloser) Close() error {
	*n.closed++
	return nil
}
