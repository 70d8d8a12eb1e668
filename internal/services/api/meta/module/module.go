// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"leadsdash/internal/core/version"
	modkit "leadsdash/internal/modkit"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/swaggerkit"
	metahttp "leadsdash/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; pg and ch are always listed by /ready
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)
	m := &Module{b: b, deps: metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   time.Now(),
		Checks:      deps.Pingers(),
		Expected:    []string{"pg", "ch"},
	}}
	if b.SwaggerOn {
		p := b.Prefix
		swaggerkit.Document(
			swaggerkit.Operation{Method: http.MethodGet, Path: p + "/health", Tag: "Meta", Summary: "Health check", Result: metahttp.HealthResponse{}},
			swaggerkit.Operation{Method: http.MethodGet, Path: p + "/ready", Tag: "Meta", Summary: "Readiness probe with dependency checks", Result: metahttp.ReadyResponse{}},
			swaggerkit.Operation{Method: http.MethodGet, Path: p + "/version", Tag: "Meta", Summary: "Build and version info", Result: version.BuildInfo{}},
			swaggerkit.Operation{Method: http.MethodGet, Path: p + "/service", Tag: "Meta", Summary: "Service info and uptime", Result: metahttp.ServiceResponse{}},
		)
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
