// Package api provides the HTTP API for the application
package api

import (
	"context"

	"leadsdash/internal/platform/config"
	"leadsdash/internal/platform/logger"
	phttp "leadsdash/internal/platform/net/http"
	"leadsdash/internal/platform/store"

	"leadsdash/internal/modkit"
	"leadsdash/internal/modkit/httpkit"
	"leadsdash/internal/modkit/module"
	"leadsdash/internal/modkit/swaggerkit"

	campaignsmod "leadsdash/internal/services/api/campaigns/module"
	dashmod "leadsdash/internal/services/api/dashboard/module"
	leadsmod "leadsdash/internal/services/api/leads/module"
	metamod "leadsdash/internal/services/api/meta/module"
	"leadsdash/internal/services/live"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// Live turns on the LISTEN driven snapshot behind GET /dashboard/live
	Live bool
}

// Worker is a background loop that lives as long as the server
type Worker interface {
	Run(ctx context.Context) error
}

// Mount mounts the API service onto the given router and returns the workers
// the caller must run alongside the server
func Mount(r phttp.Router, opt Options) []Worker {
	deps := modkit.FromStore(opt.Store, opt.Config)
	swagger := modkit.WithSwagger(opt.EnableSwagger)

	// the live route hangs off the dashboard, but the worker needs the dashboard
	// service first; src is filled in before any route is mounted
	var src live.Latester
	dash := dashmod.New(deps, swagger, modkit.WithRegister(func(rr modkit.Router) {
		live.Register(rr, src)
	}))

	var workers []Worker
	if opt.Live {
		svc := module.MustPortsOf[dashmod.Ports](dash).Service
		listen, _ := opt.Store.Listener()
		w := live.New(live.SettingsFromConfig(opt.Config), svc, listen, deps.PG)
		src = w.Refresher()
		workers = append(workers, w)
	}

	mods := []module.Module{
		metamod.New(deps, swagger),
		dash,
		leadsmod.New(deps, swagger),
		campaignsmod.New(deps, swagger),
	}

	// Swagger + profiler sit outside the versioned api
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// ports are registered under the module name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	if opt.Logger != nil {
		opt.Logger.Info().Strs("modules", module.Names()).Bool("live", opt.Live).Msg("api mounted")
	}
	return workers
}
