package middleware

import (
	"net/http"
	"time"

	"leadsdash/internal/platform/logger"
	pnet "leadsdash/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking at least Slow at warn level; 0 disables it
	Slow time.Duration
	// Skip lists paths that are never logged, e.g. health probes
	Skip []string
}

// AccessLog logs one line per request and hands the request id to
// downstream logger.C calls
// Must run after RequestID
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := pnet.RequestID(r.Context())
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
				r = r.WithContext(logger.WithRequest(r.Context(), reqID))
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			if skip[r.URL.Path] {
				return
			}
			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= 500:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn().Bool("slow", true)
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
