// Package server exposes roster sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/omarshaarawi/courtside/internal/config"
	"github.com/omarshaarawi/courtside/internal/service"
	"github.com/omarshaarawi/courtside/internal/session"
)

const requestTimeout = 60 * time.Second

type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	addr       string

	directory *service.DirectoryService
	sessions  *session.Manager
}

func NewServer(cfg config.Server, directory *service.DirectoryService, sessions *session.Manager) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		addr:      cfg.Addr,
		directory: directory,
		sessions:  sessions,
	}

	s.setupMiddleware(cfg.CORSOrigins)
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(requestTimeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/players", s.listPlayers)
		r.Get("/gameweeks", s.listGameweeks)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)

			r.Delete("/roster", s.clearRoster)
			r.Put("/roster/{group}/{slot}", s.assignSlot)
			r.Delete("/roster/{group}/{slot}", s.removeSlot)

			r.Put("/gameweek", s.setGameweek)
			r.Put("/budget", s.setBudget)

			r.Get("/coverage", s.getCoverage)
			r.Post("/analysis", s.analyze)
			r.Put("/proposal", s.selectProposal)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background until Shutdown is called.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
