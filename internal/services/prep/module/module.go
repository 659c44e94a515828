// Package module provides the prep module implementation
package module

import (
	"ipumsprep/internal/modkit"
	"ipumsprep/internal/services/prep/domain"
	"ipumsprep/internal/services/prep/ingest"
	"ipumsprep/internal/services/prep/service"
)

// Ports defines the prep module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the prep module
type Module struct {
	name  string
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the prep module
// It wires the syntax, raw data and tsv adapters into the service using IPUMS_* config from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(opts...)
	o := FromConfig(deps.Cfg)

	svc := service.New(
		ingest.NewSyntaxLoader(),
		ingest.NewSourceOpener(o.MaxLineBytes),
		ingest.NewSinkFactory(),
		service.Config{
			Missing:     o.Missing,
			ReportEvery: o.ReportEvery,
			Table:       o.Table,
		},
	)

	m := &Module{name: "prep", deps: deps, opts: o, ports: Ports{Runner: svc}}
	if b.Name != "" {
		m.name = b.Name
	}
	if p, ok := b.Ports.(Ports); ok && p.Runner != nil {
		m.ports = p
	}
	return m
}

// Name returns the module name, "prep" unless overridden with modkit.WithName
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the resolved configuration
func (m *Module) Options() Options { return m.opts }
