// Package service provides the prep service implementation
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"ipumsprep/internal/core/ddl"
	"ipumsprep/internal/core/fixedwidth"
	"ipumsprep/internal/core/labels"
	"ipumsprep/internal/core/varspec"
	perr "ipumsprep/internal/platform/errors"
	"ipumsprep/internal/platform/logger"
	"ipumsprep/internal/services/prep/domain"

	"github.com/google/uuid"
)

// DefaultReportEvery is the progress log interval in records
const DefaultReportEvery = 10000

// Config holds configuration options for the prep service
type Config struct {
	Missing     string // numeric missing token; empty -> fixedwidth.DefaultMissing
	ReportEvery int    // progress log interval; <=0 -> DefaultReportEvery
	Table       string // base table name for DDL; empty -> ddl.DefaultTable
}

// Service converts IPUMS extracts and exports their metadata
type Service struct {
	Syntax domain.SyntaxLoader
	Source domain.SourceOpener
	Sinks  domain.SinkFactory
	Cfg    Config
}

var _ domain.RunnerPort = (*Service)(nil)

// newRunID is swapped in tests
var newRunID = uuid.NewString

// New constructs the prep service
func New(sl domain.SyntaxLoader, so domain.SourceOpener, sf domain.SinkFactory, cfg Config) *Service {
	if sl == nil || so == nil || sf == nil {
		panic("prep.Service requires a syntax loader, source opener and sink factory")
	}
	if cfg.ReportEvery <= 0 {
		cfg.ReportEvery = DefaultReportEvery
	}
	return &Service{Syntax: sl, Source: so, Sinks: sf, Cfg: cfg}
}

// RunData streams the raw data file through the extractor into the outputs
//
// The syntax file is validated before the data file is opened. Records are
// converted in file order and the run stops at the first failing record;
// the returned error carries its 1-based line number. Cancelling ctx stops
// the run before the next record. Source and sinks are
// closed on every path; rows written before a failure are flushed.
func (s *Service) RunData(ctx context.Context, req domain.DataRequest) (sum domain.DataSummary, err error) {
	sum.RunID = newRunID()
	ctx = logger.WithRun(ctx, sum.RunID, req.DataPath)
	log := logger.C(ctx)
	started := time.Now()

	x := fixedwidth.Extractor{Missing: s.Cfg.Missing}
	if err := x.Validate(); err != nil {
		return sum, err
	}

	spec, err := s.Syntax.Load(ctx, req.SyntaxPath)
	if err != nil {
		return sum, err
	}
	layout := spec.Layout

	src, err := s.Source.Open(ctx, req.DataPath)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out, err := s.Sinks.Create(req.OutPath, layout)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			log.Error().Err(err).Int("records", sum.Records).Msg("prep: data run failed")
		}
	}()

	log.Info().
		Str("syntax", req.SyntaxPath).
		Str("out", req.OutPath).
		Bool("mixed", layout.Mixed()).
		Int("variables", len(layout.Variables())).
		Int("max_rows", req.MaxRows).
		Msg("prep: data run started")

	var row []string
	for req.MaxRows <= 0 || sum.Records < req.MaxRows {
		if cerr := ctx.Err(); cerr != nil {
			return sum, perr.Wrap(cerr, perr.ErrorCodeUnknown, "data run cancelled")
		}
		line, rerr := src.Next()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return sum, rerr
		}
		lineNo := sum.Records + 1

		rt, rerr := layout.RecordTypeOf(line)
		if rerr != nil {
			return sum, perr.WithLine(rerr, lineNo)
		}
		tab, _ := layout.TableFor(rt)
		if row, rerr = x.ExtractInto(row, line, tab); rerr != nil {
			return sum, perr.WithLine(rerr, lineNo)
		}
		w, ok := out.Writer(rt)
		if !ok {
			return sum, perr.WithLine(perr.Internalf("no output for record type %q", rt), lineNo)
		}
		if rerr := w.WriteRow(row); rerr != nil {
			return sum, perr.WithLine(rerr, lineNo)
		}

		sum.Records++
		if sum.Records%s.Cfg.ReportEvery == 0 {
			log.Info().Int("records", sum.Records).Msg("prep: records processed")
		}
	}
	sum.Capped = req.MaxRows > 0 && sum.Records >= req.MaxRows

	_, sum.Bytes = src.Stats()
	sum.Written = make(map[string]int, len(layout.RecordTypes()))
	sum.Paths = make(map[string]string, len(layout.RecordTypes()))
	for _, rt := range layout.RecordTypes() {
		if w, ok := out.Writer(rt); ok {
			sum.Written[rt] = w.Rows()
		}
		sum.Paths[rt] = out.Path(rt)
	}
	sum.Elapsed = time.Since(started)

	ev := log.Info().
		Int("records", sum.Records).
		Int64("bytes", sum.Bytes).
		Bool("capped", sum.Capped).
		Strs("outputs", out.Paths()).
		Dur("elapsed", sum.Elapsed)
	for _, rt := range layout.RecordTypes() {
		ev = ev.Int("rows_"+recordTypeKey(rt), sum.Written[rt])
	}
	ev.Msg("prep: data run finished")
	return sum, nil
}

// DDL returns create-table statements for the data and label tables
func (s *Service) DDL(ctx context.Context, syntaxPath string) (string, error) {
	spec, err := s.Syntax.Load(ctx, syntaxPath)
	if err != nil {
		return "", err
	}
	opt := ddl.Options{Table: s.Cfg.Table}
	return ddl.Generate(spec.Layout, opt) + "\n" + ddl.LabelTables(opt), nil
}

// ExportVars writes name, label for every variable to outPath
func (s *Service) ExportVars(ctx context.Context, syntaxPath, outPath string) (n int, err error) {
	spec, err := s.Syntax.Load(ctx, syntaxPath)
	if err != nil {
		return 0, err
	}
	n, err = s.writeRows(outPath, labels.VariableRows(spec.Layout))
	if err == nil {
		logger.C(ctx).Info().Int("written", n).Str("out", outPath).Msg("prep: variable labels exported")
	}
	return n, err
}

// ExportVals writes name, value, label for every numeric value label to outPath
// read counts entries in the syntax file; labels of string variables are not written
func (s *Service) ExportVals(ctx context.Context, syntaxPath, outPath string) (read, written int, err error) {
	spec, err := s.Syntax.Load(ctx, syntaxPath)
	if err != nil {
		return 0, 0, err
	}
	rows, skipped := labels.ValueRows(spec.Layout, spec.ValueLabels)
	written, err = s.writeRows(outPath, rows)
	if err == nil {
		logger.C(ctx).Info().
			Int("read", len(spec.ValueLabels)).
			Int("written", written).
			Int("skipped", skipped).
			Str("out", outPath).
			Msg("prep: value labels exported")
	}
	return len(spec.ValueLabels), written, err
}

func (s *Service) writeRows(outPath string, rows [][]string) (n int, err error) {
	out, err := s.Sinks.Create(outPath, varspec.Layout{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w, ok := out.Writer(varspec.FlatRecordType)
	if !ok {
		return 0, perr.Internalf("no flat output for %s", outPath)
	}
	for _, r := range rows {
		if err := w.WriteRow(r); err != nil {
			return w.Rows(), err
		}
	}
	return w.Rows(), nil
}

func recordTypeKey(rt string) string {
	if rt == varspec.FlatRecordType {
		return "all"
	}
	return rt
}
