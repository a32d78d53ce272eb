package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leeaandrob/matchsignals/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Server represents the API server.
type Server struct {
	router   *chi.Mux
	handlers *Handlers
	addr     string
	server   *http.Server
}

// NewServer creates a new API server. journal may be nil.
func NewServer(predictor Predictor, fixtures FixtureSource, journal JournalReader, addr string) *Server {
	handlers := NewHandlers(predictor, fixtures, journal)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Handle("/metrics", metrics.Handler())

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/fixtures", handlers.GetFixtures)
		r.Post("/news", handlers.GetTeamNews)
		r.Post("/predict", handlers.PredictWithNews)
		r.Post("/matches/predict", handlers.PredictMatch)

		r.Route("/predictions", func(r chi.Router) {
			r.Get("/", handlers.GetPredictions)
			r.Get("/{matchId}", handlers.GetMatchPredictions)
		})
	})

	return &Server{
		router:   r,
		handlers: handlers,
		addr:     addr,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
