package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tkilaker/magazine/internal/cache"
	"github.com/tkilaker/magazine/internal/config"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/render"
	"github.com/tkilaker/magazine/internal/widget"
)

// Runner renders the widget into a region once
type Runner interface {
	Run(ctx context.Context, region *render.Region) (widget.State, error)
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	widget   Runner
	store    cache.Store
	config   *config.Config
	gatherer prometheus.Gatherer
	http     *http.Server
}

// New creates a new server instance
func New(w Runner, store cache.Store, cfg *config.Config, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		widget:   w,
		store:    store,
		config:   cfg,
		gatherer: gatherer,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)

	// Routes
	s.router.Get("/", s.handleIndex)
	s.router.Get("/rss.xml", s.handleRSS)
	s.router.Handle("/images/*", http.FileServer(http.Dir(s.config.StaticDir)))

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Log.Infof("Starting server on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// handleIndex runs the widget once and renders the page around it
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var region *render.Region
	if s.config.RegionID != "" {
		region = render.NewRegion(s.config.RegionID)
	}

	status := http.StatusOK
	if _, err := s.widget.Run(ctx, region); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
		// The region keeps whatever it held, which here is nothing.
		status = http.StatusGatewayTimeout
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render.Page(s.config.FeedTitle, region).Render(ctx, w)
}
