package domain

import (
	"strings"
	"time"
)

// MarkedCard is a question/answer pair the user flagged for review.
// Cards are immutable once stored.
type MarkedCard struct {
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate is an unvalidated card on its way into the store, either from
// a mark request or a bulk import row.
type Candidate struct {
	Topic    string `json:"topic" validate:"required"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c Candidate) Trimmed() Candidate {
	return Candidate{
		Topic:    strings.TrimSpace(c.Topic),
		Question: strings.TrimSpace(c.Question),
		Answer:   strings.TrimSpace(c.Answer),
	}
}
