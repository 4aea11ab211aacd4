package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/conorfennell/flashmark/internal/domain"
	"github.com/conorfennell/flashmark/internal/review"
)

type sessionView struct {
	ID       uuid.UUID          `json:"id"`
	State    string             `json:"state"`
	Index    int                `json:"index"`
	Position int                `json:"position"`
	Total    int                `json:"total"`
	Current  *domain.MarkedCard `json:"current"`
}

func newSessionView(id uuid.UUID, s review.Session) sessionView {
	v := sessionView{ID: id, State: "empty", Index: s.Index()}
	v.Position, v.Total = s.Progress()
	if card, ok := s.Current(); ok {
		v.State = "active"
		v.Current = &card
	}
	return v
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, review.ErrSessionNotFound
	}
	return id, nil
}

func (s *Server) handleCreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, sess, err := s.sessions.Create(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusCreated, newSessionView(id, sess))
	}
}

func (s *Server) handleGetSession() http.HandlerFunc {
	return s.sessionHandler(func(r *http.Request, id uuid.UUID) (review.Session, error) {
		return s.sessions.Get(id)
	})
}

func (s *Server) handleRefreshSession() http.HandlerFunc {
	return s.sessionHandler(func(r *http.Request, id uuid.UUID) (review.Session, error) {
		return s.sessions.Refresh(r.Context(), id)
	})
}

func (s *Server) handlePreviousCard() http.HandlerFunc {
	return s.sessionHandler(func(_ *http.Request, id uuid.UUID) (review.Session, error) {
		return s.sessions.Previous(id)
	})
}

func (s *Server) handleNextCard() http.HandlerFunc {
	return s.sessionHandler(func(_ *http.Request, id uuid.UUID) (review.Session, error) {
		return s.sessions.Next(id)
	})
}

func (s *Server) handleMarkLearned() http.HandlerFunc {
	return s.sessionHandler(func(r *http.Request, id uuid.UUID) (review.Session, error) {
		return s.sessions.MarkLearned(r.Context(), id)
	})
}

func (s *Server) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.sessions.Delete(id)
		s.respondJSON(w, r, http.StatusOK, map[string]any{"success": true})
	}
}

// sessionHandler parses the session id, applies op and renders the
// resulting session.
func (s *Server) sessionHandler(op func(r *http.Request, id uuid.UUID) (review.Session, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		sess, err := op(r, id)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusOK, newSessionView(id, sess))
	}
}
