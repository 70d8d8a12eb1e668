package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"time"

	"leadsdash/internal/platform/config"
	perr "leadsdash/internal/platform/errors"
	"leadsdash/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server is chi behind a stdlib http.Server
type Server struct {
	addr     string
	mux      *chi.Mux
	srv      *stdhttp.Server
	drainFor time.Duration
}

// NewServer reads PORT and the timeouts from cfg; opts receive the mux before
// any route is mounted so they can install middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	if addr != "" && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	m.NotFound(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		RespondError(w, r, perr.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
	})
	m.MethodNotAllowed(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		JSON(w, stdhttp.StatusMethodNotAllowed, Envelope{
			StatusCode: stdhttp.StatusMethodNotAllowed,
			Status:     stdhttp.StatusText(stdhttp.StatusMethodNotAllowed),
			Error:      "method not allowed",
		})
	})
	return &Server{
		addr:     addr,
		mux:      m,
		drainFor: cfg.MayDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 120*time.Second),
		},
	}
}

// Router returns the platform Router over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the mux, mostly for tests
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.drainFor)
	defer cancel()
	log.Info().Dur("drain", s.drainFor).Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
