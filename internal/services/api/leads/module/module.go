// Package module wires the lead table into the API
package module

import (
	"context"
	"net/http"

	modkit "leadsdash/internal/modkit"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/modkit/swaggerkit"
	perr "leadsdash/internal/platform/errors"
	dashrepo "leadsdash/internal/services/api/dashboard/repo"
	"leadsdash/internal/services/api/leads/domain"
	leadshttp "leadsdash/internal/services/api/leads/http"
	leadsrepo "leadsdash/internal/services/api/leads/repo"
	leadssvc "leadsdash/internal/services/api/leads/service"
)

// Module implements modkit.Module for the lead table
type Module struct {
	b   modkit.Built
	svc domain.ServicePort
}

// New builds the lead table over postgres
// The table needs whole rows for the profile columns, so it never reads clickhouse
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("leads"), modkit.WithPrefix("/leads")}, opts...)

	cols := dashrepo.ColumnsFromConfig(deps.Cfg, "LEADS_TABLE", "leads")
	set := leadssvc.SettingsFromConfig(deps.Cfg, cols.Mapping)
	if b.Timeout > 0 {
		set.FetchTimeout = b.Timeout
	}

	var table domain.LeadTable = unavailable{}
	if deps.PG != nil {
		q := repokit.WithBeginHooks(deps.PG, repokit.ReadOnly(), repokit.StatementTimeout(set.FetchTimeout))
		table = repokit.MustBind[domain.LeadTable](leadsrepo.NewPG(cols), q)
	}
	m := &Module{b: b, svc: leadssvc.New(table, set, nil)}
	if b.SwaggerOn {
		swaggerkit.Document(
			swaggerkit.Operation{Method: http.MethodPost, Path: b.Prefix + "/list", Tag: "Leads", Summary: "One page of the lead table", Body: domain.ListQuery{}, Result: []domain.Row{}},
			swaggerkit.Operation{Method: http.MethodGet, Path: b.Prefix + "/agents", Tag: "Leads", Summary: "Selectable agents", Result: []domain.Agent{}},
		)
	}
	return m
}

type unavailable struct{}

func (unavailable) Rows(context.Context, domain.Filter) ([]map[string]any, error) {
	return nil, perr.Unavailablef("lead table needs postgres")
}

func (unavailable) AgentIDs(context.Context) ([]string, error) {
	return nil, perr.Unavailablef("lead table needs postgres")
}

// MountRoutes mounts the endpoints under the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { leadshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports exposes the lead table service
func (m *Module) Ports() any { return m.svc }
