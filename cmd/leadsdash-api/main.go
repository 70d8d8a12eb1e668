// Command leadsdash-api serves the leads dashboard API
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/config"
	"leadsdash/internal/platform/logger"
	phttp "leadsdash/internal/platform/net/http"
	"leadsdash/internal/platform/net/middleware"
	"leadsdash/internal/platform/store"

	"leadsdash/internal/services/api"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadDotEnv(".env", ".env.local")
	logger.Init(logger.FromEnv())
	l := logger.Get()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx,
		store.Config{
			AppName: "leadsdash-api",
			PG: store.PGConfig{
				Enabled:     pgCfg.MayBool("ENABLED", true),
				URL:         pgCfg.MayString("DBURL", ""),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:      chCfg.MayBool("ENABLED", false),
				URL:          chCfg.MayString("DBURL", ""),
				Role:         "api",
				DialTimeout:  chCfg.MayDuration("DIAL_TIMEOUT", 5*time.Second),
				MaxOpenConns: chCfg.MayInt("MAX_OPEN_CONNS", 8),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// fail fast when a configured backend is unreachable
	if apiCfg.MayBool("GUARD", true) {
		repokit.MustGuard(ctx, st)
	}

	// http server (reads CORE_API_PORT and the timeouts)
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Defaults(apiCfg.MayDuration("REQUEST_TIMEOUT", 60*time.Second))...)
		m.Use(middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		}))
		m.Use(middleware.AccessLog(middleware.AccessLogOptions{
			Slow: apiCfg.MayDuration("SLOW_REQUEST", time.Second),
			Skip: []string{"/api/v1/meta/health", "/api/v1/meta/ready"},
		}))
	})

	workers := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Live:           root.MayBool("LIVE_ENABLED", false),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	for _, w := range workers {
		g.Go(func() error { return w.Run(gctx) })
	}
	l.Info().Str("addr", srv.Addr()).Int("workers", len(workers)).Msg("leadsdash api listening")
	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("api stopped")
	}
	l.Info().Msg("api stopped")
}
