package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	modkit "leadsdash/internal/modkit"
	"leadsdash/internal/modkit/module"
	perr "leadsdash/internal/platform/errors"
	phttp "leadsdash/internal/platform/net/http"
	"leadsdash/internal/platform/store"
	"leadsdash/internal/services/api/dashboard/domain"
	dashsvc "leadsdash/internal/services/api/dashboard/service"

	"github.com/go-chi/chi/v5"
)

type emptyRows struct{}

func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }
func (emptyRows) Close()            {}
func (emptyRows) Columns() []string { return nil }

type fakeCH struct{ queries int }

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	f.queries++
	return emptyRows{}, nil
}
func (f *fakeCH) Close() error { return nil }

func TestSource_MissingBackendIsUnavailable(t *testing.T) {
	src, name := Source(modkit.Deps{}, defaultSettings())
	if name != "pg" {
		t.Fatalf("default source = %q", name)
	}
	_, err := src.FetchLeads(context.Background(), domain.Filter{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestSource_ClickHouse(t *testing.T) {
	t.Setenv("LEADS_SOURCE", "ch")
	ch := &fakeCH{}
	src, name := Source(modkit.Deps{CH: ch}, defaultSettings())
	if name != "ch" {
		t.Fatalf("source = %q", name)
	}
	if _, err := src.FetchLeads(context.Background(), domain.Filter{}); err != nil || ch.queries != 1 {
		t.Fatalf("fetch err=%v queries=%d", err, ch.queries)
	}
}

func TestModule_MountsAndExposesPorts(t *testing.T) {
	t.Setenv("LEADS_SOURCE", "ch")
	var extra bool
	m := New(modkit.Deps{CH: &fakeCH{}}, modkit.WithRegister(func(r modkit.Router) {
		extra = true
		r.Get("/live", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	}))
	if m.Name() != "dashboard" || m.Prefix() != "/dashboard" {
		t.Fatalf("name=%q prefix=%q", m.Name(), m.Prefix())
	}
	if _, ok := module.PortsOf[Ports](m); !ok {
		t.Fatal("ports should be Ports")
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	if !extra {
		t.Fatal("register hook not run")
	}

	req := httptest.NewRequest(http.MethodPost, "/dashboard/kpis", strings.NewReader(`{"preset":"7d"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("kpis = %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/live", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("live = %d", rr.Code)
	}
}

func defaultSettings() dashsvc.Settings { return dashsvc.DefaultSettings() }
