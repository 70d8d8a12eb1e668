package httpkit

import (
	"net/http"

	"leadsdash/internal/platform/net/middleware"
)

// CommonStack is the per API middleware applied under /api/v1
// process-wide concerns (request id, recovery, access log, cors) live on the server
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.StripSlashes(),
		middleware.AllowContentType("application/json"),
	}
}
