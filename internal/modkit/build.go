package modkit

import (
	"net/http"
	"time"

	"leadsdash/internal/modkit/httpkit"
	pstrings "leadsdash/internal/platform/strings"
)

// Router is the routing seam modules mount on
type Router = httpkit.Router

// Built is the resolved option set a module keeps
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	SwaggerOn bool
	Timeout   time.Duration

	// Register is never nil
	Register func(Router)
}

// Build applies defaults then opts in order; later options win
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range defaults {
		o(&c)
	}
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    pstrings.FirstNonBlank(c.prefix, "/"+c.name),
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		SwaggerOn: c.swaggerOn,
		Timeout:   c.timeout,
		Register:  c.register,
	}
}

// Mount mounts routes under b.Prefix with b.Mw, then the external Register hook
func (b Built) Mount(r Router, routes func(Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub Router) {
		routes(sub)
		b.Register(sub)
	})
}
