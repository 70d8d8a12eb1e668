// Package module wires the dashboard into the API using modkit
package module

import (
	"context"
	"net/http"

	"leadsdash/internal/core/lead"
	"leadsdash/internal/core/trend"
	modkit "leadsdash/internal/modkit"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/modkit/swaggerkit"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/services/api/dashboard/domain"
	dashhttp "leadsdash/internal/services/api/dashboard/http"
	dashrepo "leadsdash/internal/services/api/dashboard/repo"
	dashsvc "leadsdash/internal/services/api/dashboard/service"
)

// Module implements modkit.Module for the dashboard
type Module struct {
	b   modkit.Built
	svc dashsvc.Service
}

// New builds the dashboard over the lead source named by LEADS_SOURCE
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("dashboard"), modkit.WithPrefix("/dashboard")}, opts...)

	set := dashsvc.SettingsFromConfig(deps.Cfg)
	if b.Timeout > 0 {
		set.FetchTimeout = b.Timeout
	}
	src, name := Source(deps, set)
	m := &Module{b: b, svc: dashsvc.New(src, set, dashsvc.WithSourceName(name))}
	if b.SwaggerOn {
		document(b.Prefix)
	}
	return m
}

// NewWithService builds the module around an existing service
func NewWithService(s dashsvc.Service, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("dashboard"), modkit.WithPrefix("/dashboard")}, opts...)
	return &Module{b: b, svc: s}
}

// Source picks and binds the configured lead backend
// A backend that is not enabled yields a source whose every fetch fails
func Source(deps modkit.Deps, set dashsvc.Settings) (domain.LeadSource, string) {
	name := deps.Cfg.MayEnum("LEADS_SOURCE", string(dashrepo.SourcePG), string(dashrepo.SourcePG), string(dashrepo.SourceCH))
	src := dashrepo.Source(name)

	var (
		q        repokit.Queryer
		tableKey = "LEADS_TABLE"
		defTable = "leads"
	)
	switch src {
	case dashrepo.SourcePG:
		if deps.PG != nil {
			q = repokit.WithBeginHooks(deps.PG, repokit.ReadOnly(), repokit.StatementTimeout(set.FetchTimeout))
		}
	case dashrepo.SourceCH:
		tableKey = "LEADS_CH_TABLE"
		if deps.CH != nil {
			q = deps.CH
		}
	}
	if q == nil {
		return unavailable{source: name}, name
	}
	binder, err := dashrepo.New(src, dashrepo.ColumnsFromConfig(deps.Cfg, tableKey, defTable))
	if err != nil {
		return unavailable{source: name}, name
	}
	return repokit.MustBind(binder, q), name
}

type unavailable struct{ source string }

func (u unavailable) FetchLeads(context.Context, domain.Filter) ([]lead.Record, error) {
	return nil, perr.Unavailablef("%s lead source is not configured", u.source)
}

// MountRoutes mounts the dashboard under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { dashhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the route prefix
func (m *Module) Prefix() string { return m.b.Prefix }

// Middlewares returns the module middleware
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.b.Mw }

// Ports exposes the service to other modules
func (m *Module) Ports() any { return Ports{Service: m.svc} }

// Ports is the dashboard port set
type Ports struct {
	Service domain.ServicePort
}

func document(prefix string) {
	q := domain.Query{}
	swaggerkit.Document(
		swaggerkit.Operation{Method: http.MethodPost, Path: prefix + "/overview", Tag: "Dashboard", Summary: "Chart series, KPIs, trends and goals for a window", Body: q, Result: domain.Overview{}},
		swaggerkit.Operation{Method: http.MethodPost, Path: prefix + "/series", Tag: "Dashboard", Summary: "Dense daily series", Body: q, Result: domain.Series{}},
		swaggerkit.Operation{Method: http.MethodPost, Path: prefix + "/kpis", Tag: "Dashboard", Summary: "KPIs of the window and the one before it", Body: q, Result: domain.KPIs{}},
		swaggerkit.Operation{Method: http.MethodPost, Path: prefix + "/trend", Tag: "Dashboard", Summary: "Percent change between two values", Body: domain.TrendInput{}, Result: trend.Result{}},
		swaggerkit.Operation{Method: http.MethodPost, Path: prefix + "/target", Tag: "Dashboard", Summary: "Monthly target prorated over a window", Body: domain.TargetInput{}, Result: domain.TargetOutput{}},
	)
}
