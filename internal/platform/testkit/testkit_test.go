package testkit

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {
		// no panic
	})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "alpha beta gamma", "beta")
}

func TestWriteFileAndReadFile(t *testing.T) {
	t.Parallel()

	p := WriteFile(t, "x.txt", []byte("hello"))
	if got := ReadFile(t, p); got != "hello" {
		t.Fatalf("ReadFile = %q, want hello", got)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	if got := string(Lines("a", "b")); got != "a\nb\n" {
		t.Fatalf("Lines = %q", got)
	}
	if Lines() != nil {
		t.Fatalf("Lines() should be nil")
	}
}

func TestGzipAndZstdRoundTrip(t *testing.T) {
	t.Parallel()

	data := Lines("025 0001234", "   0000000")

	zr, err := gzip.NewReader(bytes.NewReader(Gzip(t, data)))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("gzip round trip mismatch: %q err=%v", got, err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(Zstd(t, data)))
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()
	got, err = io.ReadAll(dec)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("zstd round trip mismatch: %q err=%v", got, err)
	}
}
