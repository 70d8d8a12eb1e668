package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "leadsdash/internal/platform/net/http"
	kit "leadsdash/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type spanInput struct {
	Preset string `json:"preset,omitempty" validate:"omitempty,oneof=7d 30d all"`
	From   string `json:"from" validate:"required"`
}

type point struct {
	Day    time.Time        `json:"day"`
	Counts map[string]int64 `json:"counts"`
	hidden int
}

type pageOut struct {
	Items []point `json:"items"`
	Skip  string  `json:"-"`
}

func TestBuild_DescribesOperations(t *testing.T) {
	kit.Serial(t)
	Reset()
	t.Cleanup(Reset)

	Document(
		Operation{Method: http.MethodPost, Path: "/dashboard/series", Tag: "Dashboard", Summary: "chart", Body: spanInput{}, Result: pageOut{}},
		Operation{Method: http.MethodGet, Path: "/dashboard/live", Tag: "Dashboard", Result: []string{}},
	)
	Register(func(spec map[string]any) { spec["x-mutated"] = true })
	Register(nil)

	spec, err := Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if spec["openapi"] != "3.0.3" || spec["x-mutated"] != true {
		t.Fatalf("top level: %v", spec)
	}
	if title := spec["info"].(map[string]any)["title"]; title != "Leads Dashboard API" {
		t.Fatalf("title = %v", title)
	}

	paths := spec["paths"].(map[string]any)
	post := paths["/dashboard/series"].(map[string]any)["post"].(map[string]any)
	if post["operationId"] != "postDashboardSeries" {
		t.Fatalf("operationId = %v", post["operationId"])
	}
	for _, code := range []string{"200", "400", "422", "500"} {
		if _, ok := post["responses"].(map[string]any)[code]; !ok {
			t.Fatalf("response %s missing", code)
		}
	}
	body := post["requestBody"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	props := body["properties"].(map[string]any)
	enum := props["preset"].(map[string]any)["enum"].([]any)
	if len(enum) != 3 || enum[2] != "all" {
		t.Fatalf("enum = %v", enum)
	}
	if req := body["required"].([]any); len(req) != 1 || req[0] != "from" {
		t.Fatalf("required = %v", req)
	}

	get := paths["/dashboard/live"].(map[string]any)["get"].(map[string]any)
	if _, ok := get["requestBody"]; ok {
		t.Fatal("GET without body should have no requestBody")
	}

	ok := post["responses"].(map[string]any)["200"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	parts := ok["allOf"].([]any)
	if parts[0].(map[string]any)["$ref"] != "#/components/schemas/Envelope" {
		t.Fatalf("envelope ref: %v", parts[0])
	}
	data := parts[1].(map[string]any)["properties"].(map[string]any)["data"].(map[string]any)
	item := data["properties"].(map[string]any)["items"].(map[string]any)["items"].(map[string]any)["properties"].(map[string]any)
	if item["day"].(map[string]any)["format"] != "date-time" {
		t.Fatalf("time field: %v", item["day"])
	}
	if _, ok := item["hidden"]; ok {
		t.Fatal("unexported field leaked")
	}
	if _, ok := data["properties"].(map[string]any)["Skip"]; ok {
		t.Fatal("json:- field leaked")
	}
}

func TestBuild_ReaderError(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &docReader, func() (string, error) { return "{not json", nil })

	r := chi.NewRouter()
	Mount(phttp.AdaptChi(r), true)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("bad document served %d", rr.Code)
	}
}

func TestMount(t *testing.T) {
	kit.Serial(t)
	Reset()
	t.Cleanup(Reset)
	Document(Operation{Method: http.MethodGet, Path: "/meta/health", Result: struct {
		OK bool `json:"ok"`
	}{}})

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), false)
	rr := httptest.NewRecorder()
	off.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled mount served %d", rr.Code)
	}

	on := chi.NewRouter()
	Mount(phttp.AdaptChi(on), true)
	rr = httptest.NewRecorder()
	on.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK || rr.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("doc.json: %d %v", rr.Code, rr.Header())
	}
	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := spec["paths"].(map[string]any)["/meta/health"]; !ok {
		t.Fatalf("paths: %v", spec["paths"])
	}

	rr = httptest.NewRecorder()
	on.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect: %d", rr.Code)
	}
}
