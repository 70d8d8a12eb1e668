package live

import (
	"context"
	"time"

	"leadsdash/internal/core/window"
	"leadsdash/internal/modkit/repokit"
	"leadsdash/internal/platform/config"
	"leadsdash/internal/platform/logger"
	"leadsdash/internal/platform/store"
	"leadsdash/internal/services/api/dashboard/domain"
)

// Settings configure the live worker
type Settings struct {
	Enabled        bool
	Channel        string
	InstallTrigger bool
	Table          string
	Preset         window.Preset
	Timeout        time.Duration
}

// SettingsFromConfig reads LIVE_* from cfg
func SettingsFromConfig(cfg config.Conf) Settings {
	return Settings{
		Enabled:        cfg.MayBool("LIVE_ENABLED", false),
		Channel:        cfg.MayString("LIVE_CHANNEL", "leads_changed"),
		InstallTrigger: cfg.MayBool("LIVE_INSTALL_TRIGGER", false),
		Table:          cfg.MayString("LEADS_TABLE", "leads"),
		Preset:         window.Preset(cfg.MayEnum("LIVE_PRESET", string(window.Last30), "7d", "15d", "30d", "60d", "90d", "all")),
		Timeout:        cfg.MayDuration("LIVE_REFRESH_TIMEOUT", 30*time.Second),
	}
}

// DashboardCompute refreshes the overview of q on every run
func DashboardCompute(s domain.ServicePort, q domain.Query) ComputeFunc {
	return func(ctx context.Context) (any, error) {
		return s.Overview(ctx, q)
	}
}

// Service owns the refresher and its LISTEN loop
type Service struct {
	set       Settings
	refresher *Refresher
	listen    store.Listener
	ddl       repokit.TxRunner
	log       *logger.Logger
}

// New builds the worker over the dashboard; listen and ddl may be nil, in which
// case the snapshot is computed once at startup and never refreshed by NOTIFY
func New(set Settings, dash domain.ServicePort, listen store.Listener, ddl repokit.TxRunner, opts ...Option) *Service {
	log := logger.Named("live")
	opts = append([]Option{WithTimeout(set.Timeout), WithLogger(log)}, opts...)
	return &Service{
		set:       set,
		refresher: NewRefresher(DashboardCompute(dash, domain.Query{Spec: window.Spec{Preset: set.Preset}}), opts...),
		listen:    listen,
		ddl:       ddl,
		log:       log,
	}
}

// Refresher exposes the snapshot source
func (s *Service) Refresher() *Refresher { return s.refresher }

// Run blocks until ctx is done, then stops the refresher
// Setup and listener failures are logged and degrade to a snapshot computed
// once at startup; they never stop the process
func (s *Service) Run(ctx context.Context) error {
	defer s.refresher.Close()

	if s.set.InstallTrigger && s.ddl != nil {
		if err := InstallTrigger(ctx, s.ddl, s.set.Table, s.set.Channel); err != nil {
			s.log.Error().Err(err).Str("table", s.set.Table).Msg("change trigger install failed; live snapshot computed at startup only")
			return s.startupOnly(ctx)
		}
		s.log.Info().Str("table", s.set.Table).Str("channel", s.set.Channel).Msg("change trigger installed")
	}
	if s.listen == nil {
		s.log.Warn().Msg("no postgres listener; live snapshot will not refresh on change")
		return s.startupOnly(ctx)
	}
	l := &Listener{Source: s.listen, Channel: s.set.Channel, Target: s.refresher, Log: s.log}
	if err := l.Run(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("listener stopped; live snapshot no longer refreshes")
		<-ctx.Done()
	}
	return nil
}

func (s *Service) startupOnly(ctx context.Context) error {
	s.refresher.Trigger("startup")
	<-ctx.Done()
	return nil
}
