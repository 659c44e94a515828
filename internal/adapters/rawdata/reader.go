package rawdata

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	perr "ipumsprep/internal/platform/errors"
	"ipumsprep/internal/platform/logger"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// DefaultMaxLineBytes caps a single record; IPUMS person records run to a few KB
	DefaultMaxLineBytes = 4 * 1024 * 1024
	initialBufBytes     = 64 * 1024
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Format is the detected container of the data file
type Format uint8

const (
	// Plain is uncompressed text
	Plain Format = iota
	// Gzip is RFC 1952, possibly multi-member
	Gzip
	// Zstd is a zstandard frame
	Zstd
)

// String returns the lower-case format name
func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "plain"
	}
}

// Option configures a Reader
type Option func(*config)

type config struct {
	maxLine int
}

// WithMaxLineBytes sets the longest record accepted; longer lines fail with SourceIO
func WithMaxLineBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLine = n
		}
	}
}

// openFile is swapped in tests
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

// Open opens path and returns a Reader over its decompressed lines
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, perr.SourceIO(err, "open raw data "+path)
	}
	rd, err := NewReader(f, opts...)
	if err != nil {
		return nil, err
	}
	logger.Named("rawdata").Debug().Str("path", path).Str("format", rd.Format().String()).Msg("raw data opened")
	return rd, nil
}

// Reader yields one record per Next call
type Reader struct {
	src    io.ReadCloser
	dec    io.ReadCloser
	sc     *bufio.Scanner
	format Format
	err    error
	lines  int
	bytes  int64
}

// NewReader sniffs r and wraps it in the matching decoder
// r is closed if the decoder cannot be built
func NewReader(r io.ReadCloser, opts ...Option) (*Reader, error) {
	cfg := config{maxLine: DefaultMaxLineBytes}
	for _, o := range opts {
		o(&cfg)
	}

	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		_ = r.Close()
		return nil, perr.SourceIO(err, "read raw data header")
	}

	rd := &Reader{src: r}
	var body io.Reader = br
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = r.Close()
			return nil, perr.SourceIO(err, "open gzip stream")
		}
		rd.dec, rd.format, body = gz, Gzip, gz
	case bytes.HasPrefix(head, zstdMagic):
		zd, err := zstd.NewReader(br)
		if err != nil {
			_ = r.Close()
			return nil, perr.SourceIO(err, "open zstd stream")
		}
		rc := zd.IOReadCloser()
		rd.dec, rd.format, body = rc, Zstd, rc
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, min(initialBufBytes, cfg.maxLine)), cfg.maxLine)
	rd.sc = sc
	return rd, nil
}

// Next returns the next record without its line terminator; io.EOF when done
// A failed Reader keeps returning the same error
func (rd *Reader) Next() (string, error) {
	if rd.err != nil {
		return "", rd.err
	}
	if !rd.sc.Scan() {
		if err := rd.sc.Err(); err != nil {
			msg := "read raw data"
			if errors.Is(err, bufio.ErrTooLong) {
				msg = "record exceeds maximum line length"
			}
			rd.err = perr.WithLine(perr.SourceIO(err, msg), rd.lines+1)
			return "", rd.err
		}
		rd.err = io.EOF
		return "", io.EOF
	}
	line := rd.sc.Text()
	rd.lines++
	rd.bytes += int64(len(line) + 1)
	return line, nil
}

// Line returns the 1-based number of the record last returned by Next
func (rd *Reader) Line() int { return rd.lines }

// Format reports the detected container
func (rd *Reader) Format() Format { return rd.format }

// Stats returns the records read and uncompressed bytes consumed so far
func (rd *Reader) Stats() (lines int, bytes int64) { return rd.lines, rd.bytes }

// Close closes the decoder then the file and returns the first error
func (rd *Reader) Close() error {
	var first error
	if rd.dec != nil {
		if err := rd.dec.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = perr.SourceIO(err, "close decoder")
		}
		rd.dec = nil
	}
	if rd.src != nil {
		if err := rd.src.Close(); err != nil && first == nil {
			first = perr.SourceIO(err, "close raw data")
		}
		rd.src = nil
	}
	return first
}
