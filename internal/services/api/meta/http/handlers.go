// Package http provides meta endpoints
package http

import (
	"net/http"
	"sort"
	"time"

	"leadsdash/internal/core/version"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/store"
)

// ReadyTimeout bounds each dependency ping
const ReadyTimeout = 2 * time.Second

// Deps are the handler dependencies
// Expected names backends that are checked even when absent from Checks, so a
// disabled backend reports skipped instead of vanishing
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      map[string]store.Pinger
	Expected    []string
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"leadsdash-api"`
	Started string `json:"started"  example:"2026-01-03T13:00:00Z"`
	Now     string `json:"now"      example:"2026-01-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"pg ping failed: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"leadsdash-api"`
	Started string `json:"started" example:"2026-01-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	names := map[string]bool{}
	for _, n := range h.deps.Expected {
		names[n] = true
	}
	for n := range h.deps.Checks {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(sorted))}
	for _, n := range sorted {
		c := ReadyCheck{Name: n, Status: "ok"}
		p, ok := h.deps.Checks[n]
		switch {
		case !ok || p == nil:
			c.Status = "skipped"
			if out.Status == "ok" {
				out.Status = "degraded"
			}
		default:
			if err := repokit.Ping(r.Context(), n, p, ReadyTimeout); err != nil {
				c.Status, c.Error = "fail", err.Error()
				out.Status = "fail"
			}
		}
		out.Checks = append(out.Checks, c)
	}
	out.Now = h.deps.Now().UTC().Format(time.RFC3339)
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
