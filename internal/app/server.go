package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/studylens/studylens/internal/api/handlers"
	appMiddleware "github.com/studylens/studylens/internal/api/middlewares"
	"github.com/studylens/studylens/internal/config"
	"github.com/studylens/studylens/internal/core/pipeline"
	"github.com/studylens/studylens/internal/pkg/logger"
	"github.com/studylens/studylens/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, users *services.UserService, gens *services.GenerationService, ing *pipeline.Ingestor, log *logger.Logger) *Server {
	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret, log)
	genHandler := handlers.NewGenerationHandler(ing, gens, cfg.MaxFileSizeBytes, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))
			protected.Post("/generations/upload", genHandler.Upload)
			protected.Get("/generations", genHandler.List)
			protected.Get("/generations/{id}", genHandler.Get)
			protected.Put("/generations/{id}", genHandler.Rename)
			protected.Delete("/generations/{id}", genHandler.Delete)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
