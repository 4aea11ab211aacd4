package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/conorfennell/flashmark/internal/domain"
	"github.com/conorfennell/flashmark/internal/parser"
	"github.com/conorfennell/flashmark/internal/service"
)

type markRequest struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type importResponse struct {
	Success bool `json:"success"`
	service.ImportResult
}

func (s *Server) handleListCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := s.cards.List(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if cards == nil {
			cards = []domain.MarkedCard{}
		}
		s.respondJSON(w, r, http.StatusOK, map[string]any{"marked_cards": cards})
	}
}

func (s *Server) handleMarkCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}

		card, err := s.cards.Mark(r.Context(), req.Topic, req.Question, req.Answer)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusCreated, map[string]any{
			"success":     true,
			"marked_card": card,
		})
	}
}

// handleUnmarkCard deletes by path id. Unknown ids still succeed.
func (s *Server) handleUnmarkCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			s.respondError(w, r, domain.NewValidationError("id", "must be an integer"))
			return
		}
		s.unmark(w, r, id)
	}
}

// handleUnmarkCardBody deletes by {"id": N} in the body.
func (s *Server) handleUnmarkCardBody() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID *json.Number `json:"id"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}
		if req.ID == nil {
			s.respondError(w, r, domain.NewValidationError("id", "is required"))
			return
		}
		id, err := req.ID.Int64()
		if err != nil {
			s.respondError(w, r, domain.NewValidationError("id", "must be an integer"))
			return
		}
		s.unmark(w, r, id)
	}
}

func (s *Server) unmark(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.cards.Unmark(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// handleImport bulk imports a {"cards": [...]} body.
func (s *Server) handleImport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := service.DecodeBatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.importBatch(w, r, batch)
	}
}

// handleImportCSV bulk imports a topic,question,answer CSV body whose first
// row is a header.
func (s *Server) handleImportCSV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		if _, err := body.ReadFrom(http.MaxBytesReader(w, r.Body, maxBodyBytes)); err != nil {
			s.respondError(w, r, domain.NewValidationError("", "request body could not be read"))
			return
		}
		batch, err := parser.ParseCSV(&body, true)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.importBatch(w, r, batch)
	}
}

func (s *Server) importBatch(w http.ResponseWriter, r *http.Request, batch []domain.Candidate) {
	res, err := s.importer.Import(r.Context(), batch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, importResponse{Success: true, ImportResult: res})
}
