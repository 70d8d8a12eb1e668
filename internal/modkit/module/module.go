// Package module is the contract between the API composer and its modules
package module

import phttp "leadsdash/internal/platform/net/http"

// Module mounts its routes and exposes a port set for cross wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// HasPorts reports whether m exposes a non-nil port set
func HasPorts(m Module) bool {
	return m != nil && m.Ports() != nil
}
