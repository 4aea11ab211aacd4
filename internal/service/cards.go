package service

import (
	"context"
	"log/slog"

	"github.com/conorfennell/flashmark/internal/domain"
	"github.com/conorfennell/flashmark/internal/fingerprint"
	"github.com/conorfennell/flashmark/internal/validate"
)

// Cards marks and unmarks cards.
type Cards struct {
	store CardStore
	log   *slog.Logger
}

func NewCards(store CardStore, log *slog.Logger) *Cards {
	return &Cards{
		store: store,
		log:   log.With("component", "cards"),
	}
}

// Mark stores a new card. Marking the same question twice stores two cards.
func (c *Cards) Mark(ctx context.Context, topic, question, answer string) (domain.MarkedCard, error) {
	cand := domain.Candidate{Topic: topic, Question: question, Answer: answer}.Trimmed()
	if err := validate.Struct(cand); err != nil {
		return domain.MarkedCard{}, err
	}

	card, err := c.store.Insert(ctx, cand.Topic, cand.Question, cand.Answer)
	if err != nil {
		return domain.MarkedCard{}, err
	}
	c.log.DebugContext(ctx, "card marked", "id", card.ID, "topic", card.Topic)
	return card, nil
}

// Unmark removes the card with the given id. Unknown ids succeed.
func (c *Cards) Unmark(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.log.DebugContext(ctx, "card unmarked", "id", id)
	return nil
}

// List returns the current marked cards, most recent first.
func (c *Cards) List(ctx context.Context) ([]domain.MarkedCard, error) {
	return c.store.List(ctx)
}

// MarkedFingerprints returns the fingerprints of every marked card.
func (c *Cards) MarkedFingerprints(ctx context.Context) (map[string]bool, error) {
	cards, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	marked := make(map[string]bool, len(cards))
	for _, card := range cards {
		marked[fingerprint.Of(card.Question, card.Answer)] = true
	}
	return marked, nil
}
