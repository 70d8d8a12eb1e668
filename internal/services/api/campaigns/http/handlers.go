// Package http provides the campaign summary endpoint
package http

import (
	stdhttp "net/http"

	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/services/api/campaigns/domain"
)

// Register mounts the campaign endpoints on r
func Register(r httpkit.Router, s domain.ServicePort) {
	httpkit.PostQuery(r, "/summary", func(r *stdhttp.Request, q domain.Query) (any, error) {
		return s.Summary(r.Context(), q)
	})
}
