package web

import (
	"net/http"

	"github.com/conorfennell/flashmark/internal/fingerprint"
	"github.com/conorfennell/flashmark/internal/generation"
)

type generatedCard struct {
	generation.Card
	Marked bool `json:"marked"`
}

// handleGenerateCards returns generated cards, flagging those whose question
// and answer are already marked.
func (s *Server) handleGenerateCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generation.Request
		if err := decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}

		cards, err := s.generator.GenerateCards(r.Context(), req)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		marked, err := s.cards.MarkedFingerprints(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		out := make([]generatedCard, 0, len(cards))
		for _, c := range cards {
			out = append(out, generatedCard{
				Card:   c,
				Marked: marked[fingerprint.Of(c.Question, c.Answer)],
			})
		}
		s.respondJSON(w, r, http.StatusOK, map[string]any{"flashcards": out})
	}
}

func (s *Server) handleExploreTopics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keyword string `json:"keyword"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			s.respondError(w, r, err)
			return
		}

		topics, err := s.generator.ExploreTopics(r.Context(), req.Keyword)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, r, http.StatusOK, map[string]any{"topics": topics})
	}
}
