// Command ipums-prep prepares IPUMS extracts for loading into PostgreSQL
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"ipumsprep/internal/core/version"
	"ipumsprep/internal/modkit"
	"ipumsprep/internal/modkit/module"
	"ipumsprep/internal/platform/config"
	perr "ipumsprep/internal/platform/errors"
	"ipumsprep/internal/platform/logger"

	"ipumsprep/internal/services/prep/domain"
	prepmod "ipumsprep/internal/services/prep/module"
)

const usage = `usage:
  ipums-prep ddl  [flags] SYNTAX
  ipums-prep vars [flags] SYNTAX OUT
  ipums-prep vals [flags] SYNTAX OUT
  ipums-prep data [flags] SYNTAX DATA OUT [MAXROWS]
  ipums-prep version

OUT may be - for standard output (flat extracts only).
flags override the IPUMS_* environment:
`

// positional argument counts per command: min, max
var arity = map[string][2]int{
	"ddl":  {1, 1},
	"vars": {2, 2},
	"vals": {2, 2},
	"data": {3, 4},
}

func mustSetEnv(key, val string) {
	_ = os.Setenv(key, val)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return perr.ExitUsage
	}
	cmd, args := args[0], args[1:]
	if cmd == "version" {
		fmt.Fprintln(stdout, version.Info().String())
		return perr.ExitOK
	}
	want, ok := arity[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return perr.ExitUsage
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	var (
		fMaxRows     = fs.Int("maxrows", 0, "stop after N records (data); <=0 means all (IPUMS_MAXROWS)")
		fNull        = fs.String("null", `\N`, "token written for missing numeric values (IPUMS_MISSING_TOKEN)")
		fTable       = fs.String("table", "ipumsdata", "table name for ddl, may be schema.table (IPUMS_TABLE)")
		fReportEvery = fs.Int("report-every", 10000, "log progress every N records (IPUMS_REPORT_EVERY)")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return perr.ExitOK
		}
		return perr.ExitUsage
	}
	pos := fs.Args()
	if len(pos) < want[0] || len(pos) > want[1] {
		fmt.Fprintf(stderr, "%s: expected %d to %d arguments, got %d\n\n", cmd, want[0], want[1], len(pos))
		fs.Usage()
		return perr.ExitUsage
	}

	// Surface flags to the module which reads IPUMS_* through FromConfig
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["null"] {
		mustSetEnv("IPUMS_MISSING_TOKEN", *fNull)
	}
	if set["table"] {
		mustSetEnv("IPUMS_TABLE", *fTable)
	}
	if set["report-every"] {
		mustSetEnv("IPUMS_REPORT_EVERY", strconv.Itoa(*fReportEvery))
	}
	if set["maxrows"] {
		mustSetEnv("IPUMS_MAXROWS", strconv.Itoa(*fMaxRows))
	}

	logOpts := logger.FromEnv()
	bi := version.Info()
	if logOpts.Service == "" {
		logOpts.Service = bi.Service
	}
	logOpts.StaticFields = map[string]string{"version": bi.Version}
	logger.Init(logOpts)
	l := logger.Get()

	root := config.New()
	deps := modkit.Deps{Cfg: root, Log: *l}

	pm := prepmod.New(deps)
	if err := pm.Options().Validate(); err != nil {
		l.Error().Err(err).Str("command", cmd).Msg("ipums-prep: invalid options")
		return perr.ExitCode(err)
	}
	module.Register(pm.Name(), pm.Ports())
	l.Debug().Strs("modules", module.Names()).Str("command", cmd).Msg("modules registered")
	runner := module.MustPortsOf[prepmod.Ports](pm).Runner

	var err error
	switch cmd {
	case "ddl":
		var out string
		if out, err = runner.DDL(ctx, pos[0]); err == nil {
			_, err = io.WriteString(stdout, out)
			err = perr.WrapIf(err, perr.ErrorCodeSinkIO, "write ddl")
		}

	case "vars":
		var n int
		if n, err = runner.ExportVars(ctx, pos[0], pos[1]); err == nil {
			l.Info().Int("records", n).Str("out", pos[1]).Msg("variable labels written")
		}

	case "vals":
		var read, written int
		if read, written, err = runner.ExportVals(ctx, pos[0], pos[1]); err == nil {
			l.Info().Int("read", read).Int("written", written).Str("out", pos[1]).Msg("value labels written")
		}

	case "data":
		maxRows := pm.Options().MaxRows
		if len(pos) == 4 {
			if maxRows, err = strconv.Atoi(pos[3]); err != nil {
				fmt.Fprintf(stderr, "data: MAXROWS %q is not a number\n", pos[3])
				return perr.ExitUsage
			}
		}
		_, err = runner.RunData(ctx, domain.DataRequest{
			SyntaxPath: pos[0],
			DataPath:   pos[1],
			OutPath:    pos[2],
			MaxRows:    maxRows,
		})
	}

	if err != nil {
		l.Error().Err(err).Str("command", cmd).Str("code", perr.CodeOf(err).String()).Msg("ipums-prep failed")
		return perr.ExitCode(err)
	}
	return perr.ExitOK
}
