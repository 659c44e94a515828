// Package version provides information about the build version of the tool.
package version

import (
	"fmt"
	"runtime/debug"
)

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags; a module-aware
// `go install` fills the version from the build info instead.
func Info() BuildInfo {
	// Set via -ldflags "-X 'ipumsprep/internal/core/version.version=v0.1.0'
	// -X 'ipumsprep/internal/core/version.commit=abcd' -X 'ipumsprep/internal/core/version.date=2026-10-18'"
	v := version
	if v == "dev" {
		if bi, ok := readBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return BuildInfo{
		Service: "ipums-prep",
		Version: v,
		Commit:  commit,
		Date:    date,
	}
}

// String renders the build info on one line
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	readBuildInfo = debug.ReadBuildInfo
)
