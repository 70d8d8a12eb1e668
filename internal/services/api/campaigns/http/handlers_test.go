package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "leadsdash/internal/platform/net/http"
	"leadsdash/internal/services/api/campaigns/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct{ last domain.Query }

func (f *fakeSvc) Summary(_ context.Context, q domain.Query) (domain.Summary, error) {
	f.last = q
	return domain.Summary{}, nil
}

func post(h stdhttp.Handler, body string) int {
	req := httptest.NewRequest(stdhttp.MethodPost, "/summary", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestSummaryRoute(t *testing.T) {
	s := &fakeSvc{}
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), s)

	if code := post(m, `{"search":"verão"}`); code != stdhttp.StatusOK || s.last.Search != "verão" {
		t.Fatalf("code=%d query=%+v", code, s.last)
	}
	if code := post(m, `{"limit":501}`); code != stdhttp.StatusBadRequest {
		t.Fatalf("limit above cap = %d", code)
	}
}
