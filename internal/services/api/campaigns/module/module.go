// Package module wires the campaign summary into the API
package module

import (
	"context"
	"net/http"

	modkit "leadsdash/internal/modkit"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/modkit/swaggerkit"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/services/api/campaigns/domain"
	camphttp "leadsdash/internal/services/api/campaigns/http"
	camprepo "leadsdash/internal/services/api/campaigns/repo"
	campsvc "leadsdash/internal/services/api/campaigns/service"
)

// Module implements modkit.Module for campaigns
type Module struct {
	b   modkit.Built
	svc domain.ServicePort
}

// New builds the summary over LEADS_CAMPAIGN_TABLE in postgres
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("campaigns")}, opts...)

	var src domain.LogSource = unavailable{}
	if deps.PG != nil {
		binder := camprepo.PG{
			Table:     deps.Cfg.MayString("LEADS_CAMPAIGN_TABLE", "campaign_logs"),
			CreatedAt: deps.Cfg.MayString("LEADS_CAMPAIGN_COL_CREATED_AT", "created_at"),
		}
		q := repokit.WithBeginHooks(deps.PG, repokit.ReadOnly(), repokit.StatementTimeout(b.Timeout))
		src = repokit.MustBind[domain.LogSource](binder, q)
	}
	if b.SwaggerOn {
		swaggerkit.Document(swaggerkit.Operation{
			Method: http.MethodPost, Path: b.Prefix + "/summary", Tag: "Campaigns",
			Summary: "Lead counts per campaign over the latest log rows", Body: domain.Query{}, Result: domain.Summary{},
		})
	}
	return &Module{b: b, svc: campsvc.New(src)}
}

type unavailable struct{}

func (unavailable) Recent(context.Context, int) ([]map[string]any, error) {
	return nil, perr.Unavailablef("campaign logs need postgres")
}

// MountRoutes mounts the endpoints under the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { camphttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports exposes the summary service
func (m *Module) Ports() any { return m.svc }
