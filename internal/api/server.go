// Package api exposes outline extraction over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/strucdoc/strata/govern"
	"github.com/strucdoc/strata/internal/config"
	"github.com/strucdoc/strata/outline"
	"github.com/strucdoc/strata/trace"
)

// Server is the HTTP API server for strata.
type Server struct {
	router   chi.Router
	engine   *outline.Engine
	governor *govern.Governor
	store    *trace.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. store may be nil
// when run tracing is disabled.
func NewServer(cfg config.Config, log *slog.Logger, store *trace.Store) *Server {
	engineCfg := cfg.Engine.EngineOptions()
	engineCfg.Logger = log
	governorCfg := cfg.Governor.GovernorOptions()
	governorCfg.Logger = log

	s := &Server{
		engine:   outline.NewWithConfig(engineCfg),
		governor: govern.NewWithConfig(governorCfg),
		store:    store,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		if s.cfg.Server.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.Server.APIKey))
		}
		r.Post("/v1/outline", s.handleOutline)
	})

	s.router = r
}
