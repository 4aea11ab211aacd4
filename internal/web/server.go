// Package web exposes marked cards, bulk import, review sessions and card
// generation over a JSON HTTP API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conorfennell/flashmark/internal/generation"
	"github.com/conorfennell/flashmark/internal/review"
	"github.com/conorfennell/flashmark/internal/service"
)

// Counter reports how many cards are marked.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Deps are the services the server routes to.
type Deps struct {
	Cards     *service.Cards
	Importer  *service.Importer
	Sessions  *review.Registry
	Generator *generation.Service
	Counter   Counter
	Log       *slog.Logger

	// RequestTimeout bounds each handler. Zero disables the limit.
	RequestTimeout time.Duration
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	cards     *service.Cards
	importer  *service.Importer
	sessions  *review.Registry
	generator *generation.Service
	counter   Counter
	log       *slog.Logger
	timeout   time.Duration
	router    chi.Router
}

// NewServer creates and configures a new server.
func NewServer(d Deps) *Server {
	s := &Server{
		cards:     d.Cards,
		importer:  d.Importer,
		sessions:  d.Sessions,
		generator: d.Generator,
		counter:   d.Counter,
		log:       d.Log.With("component", "web"),
		timeout:   d.RequestTimeout,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth())

	r.Route("/api", func(r chi.Router) {
		r.Route("/marked-cards", func(r chi.Router) {
			r.Get("/", s.handleListCards())
			r.Post("/", s.handleMarkCard())
			r.Delete("/", s.handleUnmarkCardBody())
			r.Delete("/{id}", s.handleUnmarkCard())
			r.Post("/import", s.handleImport())
			r.Post("/import/csv", s.handleImportCSV())
		})

		r.Route("/review-sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession())
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession())
				r.Delete("/", s.handleDeleteSession())
				r.Post("/refresh", s.handleRefreshSession())
				r.Post("/previous", s.handlePreviousCard())
				r.Post("/next", s.handleNextCard())
				r.Post("/learned", s.handleMarkLearned())
			})
		})

		r.Post("/flashcards", s.handleGenerateCards())
		r.Post("/explore-topics", s.handleExploreTopics())
	})
}

// requestLogger logs one line per request at debug, or warn for 5xx.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		level := slog.LevelDebug
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		s.log.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// handleHealth reports liveness and the number of marked cards.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := s.counter.Count(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusOK, map[string]any{
			"status":       "ok",
			"marked_cards": n,
		})
	}
}
