// Package http provides the lead table endpoints
package http

import (
	stdhttp "net/http"

	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/services/api/leads/domain"
)

// Register mounts the lead endpoints on r
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	r.Post("/list", httpkit.Handle(h.list))
	httpkit.Get(r, "/agents", h.agents)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) list(r *stdhttp.Request) httpkit.Response {
	q, err := httpkit.BindQuery[domain.ListQuery](r)
	if err != nil {
		return httpkit.Error(err)
	}
	p, err := h.svc.List(r.Context(), q)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.List(p.Items, p.Total, p.Page, p.PageSize)
}

func (h *handlers) agents(r *stdhttp.Request) (any, error) {
	return h.svc.Agents(r.Context())
}
