// Package swaggerkit serves the API document and the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"leadsdash/internal/core/version"
	"leadsdash/internal/platform/config"
	phttp "leadsdash/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"
)

// BaseURL is the server url every documented path is relative to
const BaseURL = "/api/v1"

// InstanceName is the swag registry name of the document
const InstanceName = "leadsdash"

var (
	info = &swag.Spec{
		InfoInstanceName: InstanceName,
		BasePath:         BaseURL,
		Title:            "Leads Dashboard API",
	}
	infoMu       sync.Mutex
	registerOnce sync.Once
)

// docReader is a seam so tests can inject invalid JSON
var docReader = readDoc

// readDoc renders the current document through the swag registry
func readDoc() (string, error) {
	doc, err := OpenAPI(BaseURL)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	registerOnce.Do(func() { swag.Register(InstanceName, info) })

	title := "Leads Dashboard API"
	if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		title = strings.TrimSpace(title + " " + v)
	}

	infoMu.Lock()
	defer infoMu.Unlock()
	info.Title = title
	info.Version = version.Info().Version
	info.SwaggerTemplate = string(raw)
	return swag.ReadDoc(InstanceName)
}

// Build returns the served document with every mutator applied
func Build() (map[string]any, error) {
	raw, err := docReader()
	if err != nil {
		return nil, err
	}
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}
	_, muts := snapshot()
	for _, m := range muts {
		m(spec)
	}
	return spec, nil
}

// Mount serves the UI under /api/docs and the document at /api/docs/doc.json
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/index.html", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(InstanceName),
		httpSwagger.URL("/api/docs/doc.json"),
		httpSwagger.DocExpansion("list"),
	))
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		spec, err := Build()
		if err != nil {
			http.Error(w, "spec build error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
