// Package http provides the dashboard endpoints
package http

import (
	stdhttp "net/http"
	"strings"
	"sync"

	"leadsdash/internal/core/bucket"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/platform/net/http/bind"
	"leadsdash/internal/services/api/dashboard/domain"
	svc "leadsdash/internal/services/api/dashboard/service"
)

var tagsOnce sync.Once

// registerTags installs series_key: a non blank agent id that cannot collide
// with the aggregate series or a derived _connected key
func registerTags() {
	tagsOnce.Do(func() {
		_ = bind.RegisterTag("series_key", "{0} must be an agent id other than total or connected", func(fl bind.FieldLevel) bool {
			k := strings.TrimSpace(fl.Field().String())
			return k != "" && len(k) <= 128 && !bucket.Reserved(k) && !strings.HasSuffix(k, bucket.ConnectedSuffix)
		})
	})
}

// Register mounts the dashboard endpoints on r
func Register(r httpkit.Router, s svc.Service) {
	registerTags()
	h := &handlers{svc: s}

	httpkit.PostQuery(r, "/overview", h.overview)
	httpkit.PostQuery(r, "/series", h.series)
	httpkit.PostQuery(r, "/kpis", h.kpis)
	httpkit.PostJSON(r, "/trend", h.trend)
	httpkit.PostJSON(r, "/target", h.target)
}

type handlers struct{ svc svc.Service }

func (h *handlers) overview(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.Overview(r.Context(), in)
}

func (h *handlers) series(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.Series(r.Context(), in)
}

func (h *handlers) kpis(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.KPIs(r.Context(), in)
}

func (h *handlers) trend(_ *stdhttp.Request, in domain.TrendInput) (any, error) {
	return h.svc.Trend(in), nil
}

func (h *handlers) target(_ *stdhttp.Request, in domain.TargetInput) (any, error) {
	return h.svc.Target(in)
}
