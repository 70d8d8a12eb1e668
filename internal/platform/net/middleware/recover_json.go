package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"
	phttp "leadsdash/internal/platform/net/http"
)

// RecoverJSON turns a panic into the 500 error envelope and logs the stack
// http.ErrAbortHandler is re-panicked so the server can drop the connection
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			phttp.RespondError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
