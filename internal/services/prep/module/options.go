package module

import (
	"ipumsprep/internal/adapters/rawdata"
	"ipumsprep/internal/core/ddl"
	"ipumsprep/internal/core/fixedwidth"
	"ipumsprep/internal/platform/config"
	perr "ipumsprep/internal/platform/errors"
	"ipumsprep/internal/services/prep/service"
)

// Options holds configuration options for the prep service
type Options struct {
	Missing      string
	ReportEvery  int
	Table        string
	MaxRows      int
	MaxLineBytes int
}

// FromConfig reads the prep options from config with IPUMS_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("IPUMS_")
	return Options{
		Missing:      c.MayString("MISSING_TOKEN", fixedwidth.DefaultMissing),
		ReportEvery:  c.MayPositiveInt("REPORT_EVERY", service.DefaultReportEvery),
		Table:        c.MayString("TABLE", ddl.DefaultTable),
		MaxRows:      c.MayInt("MAXROWS", 0),
		MaxLineBytes: c.MayPositiveInt("SCAN_BUFFER", rawdata.DefaultMaxLineBytes),
	}
}

// Validate reports options that would corrupt the output; main calls it before any run
func (o Options) Validate() error {
	return perr.WithOp(fixedwidth.Extractor{Missing: o.Missing}.Validate(), "IPUMS_MISSING_TOKEN")
}
