package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"nse-deal-tracker/internal/deals"
	"nse-deal-tracker/internal/etf"
	"nse-deal-tracker/internal/logger"
	"nse-deal-tracker/internal/settings"
)

// Config carries the listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server exposes the deal pipeline over HTTP.
type Server struct {
	svc      *deals.Service
	etf      *etf.Service
	settings *settings.Store
	httpSrv  *http.Server
	now      func() time.Time
}

// Option tweaks the server during construction.
type Option func(*Server)

// WithETFService enables the /api/etfs screen.
func WithETFService(svc *etf.Service) Option {
	return func(s *Server) { s.etf = svc }
}

// New assembles the router and the underlying http.Server.
func New(cfg Config, svc *deals.Service, store *settings.Store, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		settings: store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/deals", s.handleDeals)
		r.Get("/deals/export", s.handleDealsExport)
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/symbols", s.handleSymbols)
			r.Get("/clients", s.handleClients)
			r.Get("/client-stocks", s.handleClientStocks)
			r.Get("/dates", s.handleDates)
		})
		r.Get("/etfs", s.handleETFs)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Delete("/settings", s.handleResetSettings)
	})

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	logger.Info(context.Background(), "HTTP server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
