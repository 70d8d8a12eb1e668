package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "leadsdash/internal/platform/net/http"
	"leadsdash/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var started = time.Date(2026, 1, 3, 13, 0, 0, 0, time.UTC)

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), d)
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("%s = %d", path, rr.Code)
	}
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatal(err)
	}
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		checks map[string]store.Pinger
		want   string
	}{
		{"all ok", map[string]store.Pinger{"pg": pinger{}, "ch": pinger{}}, "ok"},
		{"ch disabled", map[string]store.Pinger{"pg": pinger{}}, "degraded"},
		{"pg down", map[string]store.Pinger{"pg": pinger{err: errors.New("refused")}}, "fail"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got ReadyResponse
			get(t, Deps{Checks: c.checks, Expected: []string{"pg", "ch"}}, "/ready", &got)
			if got.Status != c.want || len(got.Checks) != 2 || got.Checks[0].Name != "ch" {
				t.Fatalf("ready = %+v", got)
			}
		})
	}
}

func TestReady_FailureCarriesError(t *testing.T) {
	var got ReadyResponse
	get(t, Deps{Checks: map[string]store.Pinger{"pg": pinger{err: errors.New("refused")}}}, "/ready", &got)
	if got.Checks[0].Status != "fail" || got.Checks[0].Error != "pg ping failed: refused" {
		t.Fatalf("check = %+v", got.Checks[0])
	}
}

func TestServiceAndHealth(t *testing.T) {
	d := Deps{ServiceName: "leadsdash-api", StartedAt: started, Now: func() time.Time { return started.Add(5 * time.Minute) }}

	var svc ServiceResponse
	get(t, d, "/service", &svc)
	if svc.Uptime != 300 || svc.Name != "leadsdash-api" {
		t.Fatalf("service = %+v", svc)
	}

	var h HealthResponse
	get(t, d, "/health", &h)
	if !h.OK || h.Now != "2026-01-03T13:05:00Z" {
		t.Fatalf("health = %+v", h)
	}

	var v map[string]string
	get(t, d, "/version", &v)
	if v["service"] != "leadsdash-api" {
		t.Fatalf("version = %v", v)
	}
}
