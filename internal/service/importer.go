package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/conorfennell/flashmark/internal/domain"
)

// ImportResult summarizes one bulk import batch.
type ImportResult struct {
	Received int `json:"received"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Add accumulates another batch's counts.
func (r *ImportResult) Add(other ImportResult) {
	r.Received += other.Received
	r.Imported += other.Imported
	r.Skipped += other.Skipped
}

// Importer ingests batches of candidate cards, skipping invalid rows.
type Importer struct {
	cards *Cards
	log   *slog.Logger
}

func NewImporter(cards *Cards, log *slog.Logger) *Importer {
	return &Importer{
		cards: cards,
		log:   log.With("component", "importer"),
	}
}

// Import marks every valid candidate in batch. Rows with an empty topic,
// question or answer are skipped. Each row is its own insert, so a storage
// failure leaves earlier rows stored and aborts the rest.
func (i *Importer) Import(ctx context.Context, batch []domain.Candidate) (ImportResult, error) {
	if len(batch) == 0 {
		return ImportResult{}, domain.NewValidationError("cards", "must be a non-empty list")
	}

	res := ImportResult{Received: len(batch)}
	for idx, cand := range batch {
		_, err := i.cards.Mark(ctx, cand.Topic, cand.Question, cand.Answer)
		if errors.Is(err, domain.ErrValidation) {
			res.Skipped++
			i.log.DebugContext(ctx, "skipping invalid row", "row", idx, "reason", err)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("import row %d: %w", idx, err)
		}
		res.Imported++
	}

	i.log.InfoContext(ctx, "import complete",
		"received", res.Received,
		"imported", res.Imported,
		"skipped", res.Skipped,
	)
	return res, nil
}

// DecodeBatch reads a {"cards": [...]} document. A body that is not an
// object with a non-empty cards array is a ValidationError. Items that are
// not objects, or whose fields are not strings, decode to empty fields so
// Import skips them.
func DecodeBatch(r io.Reader) ([]domain.Candidate, error) {
	var body struct {
		Cards json.RawMessage `json:"cards"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, domain.NewValidationError("", "request body must be a JSON object")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body.Cards, &items); err != nil || len(items) == 0 {
		return nil, domain.NewValidationError("cards", "must be a non-empty list")
	}

	batch := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		batch = append(batch, decodeCandidate(item))
	}
	return batch, nil
}

func decodeCandidate(item json.RawMessage) domain.Candidate {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return domain.Candidate{}
	}
	str := func(key string) string {
		var s string
		if err := json.Unmarshal(fields[key], &s); err != nil {
			return ""
		}
		return s
	}
	return domain.Candidate{
		Topic:    str("topic"),
		Question: str("question"),
		Answer:   str("answer"),
	}
}
