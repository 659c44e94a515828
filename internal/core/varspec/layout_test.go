package varspec

import (
	"testing"

	perr "ipumsprep/internal/platform/errors"
)

func mixedVars() []Variable {
	return []Variable{
		{Name: "RECTYPE", RecordType: "H", Start: 0, Width: 1, Kind: String},
		{Name: "SERIAL", RecordType: "H", Start: 1, Width: 8},
		{Name: "RECTYPEP", RecordType: "P", Start: 0, Width: 1, Kind: String},
		{Name: "PERNUM", RecordType: "P", Start: 1, Width: 4},
		{Name: "AGE", RecordType: "P", Start: 5, Width: 3},
	}
}

func TestFlatLayout(t *testing.T) {
	l, err := NewLayout(sample())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if l.Mixed() {
		t.Fatalf("flat layout reports mixed")
	}
	rt, err := l.RecordTypeOf("anything at all")
	if err != nil || rt != FlatRecordType {
		t.Fatalf("RecordTypeOf = %q,%v", rt, err)
	}
	tab, ok := l.TableFor(FlatRecordType)
	if !ok || tab.Len() != 4 {
		t.Fatalf("TableFor(flat) = %d,%v", tab.Len(), ok)
	}
	if got := l.RecordTypes(); len(got) != 1 || got[0] != FlatRecordType {
		t.Fatalf("RecordTypes() = %v", got)
	}
	if len(l.Variables()) != 4 {
		t.Fatalf("Variables() len = %d", len(l.Variables()))
	}
}

func TestNewLayout_PropagatesTableError(t *testing.T) {
	_, err := NewLayout([]Variable{{Name: "A", Width: 0}})
	if !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
		t.Fatalf("want malformed spec, got %v", err)
	}
}

func TestMixedLayout_GroupsByRecordType(t *testing.T) {
	l, err := NewMixedLayout(0, 1, mixedVars())
	if err != nil {
		t.Fatalf("NewMixedLayout: %v", err)
	}
	if !l.Mixed() {
		t.Fatalf("expected mixed layout")
	}
	if got := l.RecordTypes(); len(got) != 2 || got[0] != "H" || got[1] != "P" {
		t.Fatalf("RecordTypes() = %v", got)
	}
	p, ok := l.TableFor("P")
	if !ok || p.Len() != 3 || p.At(2).Name != "AGE" {
		t.Fatalf("TableFor(P) mismatch")
	}
	if v, ok := l.Lookup("PERNUM"); !ok || v.RecordType != "P" {
		t.Fatalf("Lookup across types failed")
	}
	if _, ok := l.Lookup("NOPE"); ok {
		t.Fatalf("Lookup(NOPE) should miss")
	}
	if len(l.Variables()) != 5 {
		t.Fatalf("Variables() len = %d", len(l.Variables()))
	}
}

func TestMixedLayout_RecordTypeOf(t *testing.T) {
	l, err := NewMixedLayout(0, 1, mixedVars())
	if err != nil {
		t.Fatalf("NewMixedLayout: %v", err)
	}
	if rt, err := l.RecordTypeOf("H00000001"); err != nil || rt != "H" {
		t.Fatalf("RecordTypeOf(H) = %q,%v", rt, err)
	}
	if rt, err := l.RecordTypeOf("P0001042"); err != nil || rt != "P" {
		t.Fatalf("RecordTypeOf(P) = %q,%v", rt, err)
	}

	_, err = l.RecordTypeOf("X0001")
	if !perr.IsCode(err, perr.ErrorCodeUnknownRecordType) {
		t.Fatalf("want unknown record type, got %v", err)
	}
	if e, _ := perr.As(err); e != nil {
		if raw, ok := e.Raw(); !ok || raw != "X" {
			t.Fatalf("Raw() = %q,%v", raw, ok)
		}
	}

	_, err = l.RecordTypeOf("")
	if !perr.IsCode(err, perr.ErrorCodeShortRecord) {
		t.Fatalf("want short record on empty line, got %v", err)
	}
}

func TestMixedLayout_Rejects(t *testing.T) {
	if _, err := NewMixedLayout(0, 0, mixedVars()); !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
		t.Fatalf("zero width record type field accepted: %v", err)
	}
	if _, err := NewMixedLayout(0, 1, nil); !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
		t.Fatalf("empty mixed layout accepted: %v", err)
	}
	untyped := append(mixedVars(), Variable{Name: "LOOSE", Start: 9, Width: 1})
	if _, err := NewMixedLayout(0, 1, untyped); !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
		t.Fatalf("variable without record type accepted: %v", err)
	}
	overlap := append(mixedVars(), Variable{Name: "BAD", RecordType: "P", Start: 6, Width: 2})
	_, err := NewMixedLayout(0, 1, overlap)
	if !perr.IsCode(err, perr.ErrorCodeMalformedSpec) {
		t.Fatalf("overlap within record type accepted: %v", err)
	}
	if e, _ := perr.As(err); e == nil || e.Op() != "record type P" {
		t.Fatalf("expected op to name the record type, got %v", err)
	}
}
