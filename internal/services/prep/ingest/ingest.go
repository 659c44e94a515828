// Package ingest holds adapter shims for prep ports
package ingest

import (
	"context"

	"ipumsprep/internal/adapters/rawdata"
	"ipumsprep/internal/adapters/syntax"
	"ipumsprep/internal/adapters/tsv"
	"ipumsprep/internal/core/varspec"
	"ipumsprep/internal/services/prep/domain"
)

type syntaxLoader struct{}

// NewSyntaxLoader returns a loader backed by the SPSS syntax parser
func NewSyntaxLoader() domain.SyntaxLoader { return syntaxLoader{} }

func (syntaxLoader) Load(_ context.Context, path string) (domain.Spec, error) {
	f, err := syntax.ParseFile(path)
	if err != nil {
		return domain.Spec{}, err
	}
	return domain.Spec{Layout: f.Layout, ValueLabels: f.ValueLabels}, nil
}

type sourceOpener struct {
	maxLine int
}

// NewSourceOpener returns an opener for plain, gzip and zstd extracts
// maxLine <= 0 keeps the rawdata default
func NewSourceOpener(maxLine int) domain.SourceOpener { return sourceOpener{maxLine: maxLine} }

func (o sourceOpener) Open(_ context.Context, path string) (domain.Source, error) {
	rd, err := rawdata.Open(path, rawdata.WithMaxLineBytes(o.maxLine))
	if err != nil {
		return nil, err
	}
	return rd, nil
}

type sinkFactory struct{}

// NewSinkFactory returns a factory writing tab-separated files
func NewSinkFactory() domain.SinkFactory { return sinkFactory{} }

func (sinkFactory) Create(path string, layout varspec.Layout) (domain.Sinks, error) {
	f, err := tsv.Create(path, layout)
	if err != nil {
		return nil, err
	}
	return sinks{f: f}, nil
}

// sinks narrows *tsv.Files to domain.Sinks
type sinks struct{ f *tsv.Files }

func (s sinks) Writer(recordType string) (domain.RowWriter, bool) {
	w, ok := s.f.Writer(recordType)
	if !ok {
		return nil, false
	}
	return w, true
}

func (s sinks) Path(recordType string) string { return s.f.Path(recordType) }

func (s sinks) Paths() []string { return s.f.Paths() }

func (s sinks) Close() error { return s.f.Close() }
