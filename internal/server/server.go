// Package server exposes the analysis engine over HTTP for dashboard hosts.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"options-strategist/internal/config"
)

// Server wraps the chi router and HTTP lifecycle.
type Server struct {
	config config.ServerConfig
	logger zerolog.Logger
	router *chi.Mux
}

// NewServer creates the API server and mounts all routes.
func NewServer(cfg config.ServerConfig, handler *Handler, logger zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout(cfg)))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", handler.ListTemplates)
		r.Get("/catalog/{id}", handler.GetTemplate)
		r.Post("/catalog/{id}/analyze", handler.AnalyzeTemplate)
		r.Post("/analyze", handler.AnalyzeLegs)
		r.Get("/chance", handler.Chance)
	})

	return &Server{
		config: cfg,
		logger: logger,
		router: r,
	}
}

// Router returns the mounted router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  orDuration(s.config.ReadTimeout, 10*time.Second),
		WriteTimeout: orDuration(s.config.WriteTimeout, 10*time.Second),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.config.Addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), orDuration(s.config.ShutdownTimeout, 10*time.Second))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func requestTimeout(cfg config.ServerConfig) time.Duration {
	return orDuration(cfg.RequestTimeout, 30*time.Second)
}

func corsOrigins(cfg config.ServerConfig) []string {
	if len(cfg.CORSOrigins) > 0 {
		return cfg.CORSOrigins
	}
	return []string{"http://localhost:3000"}
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
