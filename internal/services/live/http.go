package live

import (
	"net/http"

	"leadsdash/internal/modkit/httpkit"
	perr "leadsdash/internal/platform/errors"
)

// Latester is the read side of a Refresher
type Latester interface {
	Latest() (Snapshot, bool)
}

// Register mounts GET /live; a nil src answers 503
func Register(r httpkit.Router, src Latester) {
	httpkit.Get(r, "/live", func(*http.Request) (any, error) {
		if src == nil {
			return nil, perr.Unavailablef("live updates are disabled")
		}
		snap, ok := src.Latest()
		if !ok {
			return nil, perr.Unavailablef("live snapshot not computed yet")
		}
		return snap, nil
	})
}
