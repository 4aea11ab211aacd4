// Package review implements the cursor-based review flow over a snapshot of
// marked cards.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/conorfennell/flashmark/internal/domain"
)

// ErrEmptySession is returned when an operation needs a current card and the
// session has none.
var ErrEmptySession = errors.New("review session is empty")

// Lister reads the current marked cards, most recent first.
type Lister interface {
	List(ctx context.Context) ([]domain.MarkedCard, error)
}

// Unmarker removes a marked card by id.
type Unmarker interface {
	Unmark(ctx context.Context, id int64) error
}

// Session is a snapshot of marked cards plus a cursor into it. It is a value:
// every transition returns a new Session and never touches the receiver.
// Changes to the store are invisible until Refresh.
type Session struct {
	cards []domain.MarkedCard
	index int
}

// NewSession builds a session over cards positioned at the first card. The
// slice is copied.
func NewSession(cards []domain.MarkedCard) Session {
	return Session{cards: append([]domain.MarkedCard(nil), cards...)}
}

// Refresh takes a fresh snapshot from l and resets the cursor.
func Refresh(ctx context.Context, l Lister) (Session, error) {
	cards, err := l.List(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to list marked cards: %w", err)
	}
	return NewSession(cards), nil
}

func (s Session) Empty() bool { return len(s.cards) == 0 }

func (s Session) Len() int { return len(s.cards) }

// Index is the cursor position. It is 0 for an empty session.
func (s Session) Index() int { return s.index }

// Current returns the card under the cursor.
func (s Session) Current() (domain.MarkedCard, bool) {
	if s.Empty() {
		return domain.MarkedCard{}, false
	}
	return s.cards[s.index], true
}

// Cards returns a copy of the snapshot.
func (s Session) Cards() []domain.MarkedCard {
	return append([]domain.MarkedCard(nil), s.cards...)
}

// Progress reports the 1-based position and the total. An empty session
// reports 0 of 0.
func (s Session) Progress() (position, total int) {
	if s.Empty() {
		return 0, 0
	}
	return s.index + 1, len(s.cards)
}

// Previous moves back one card, stopping at the first.
func (s Session) Previous() Session {
	if s.index > 0 {
		s.index--
	}
	return s
}

// Next moves forward one card, stopping at the last.
func (s Session) Next() Session {
	if s.index < len(s.cards)-1 {
		s.index++
	}
	return s
}

// MarkLearned unmarks the current card and drops it from the snapshot. The
// card that slides into the vacated slot becomes current; removing the last
// card moves the cursor back to the new last card. If the unmark fails the
// receiver is returned unchanged along with the error.
func (s Session) MarkLearned(ctx context.Context, u Unmarker) (Session, error) {
	current, ok := s.Current()
	if !ok {
		return s, ErrEmptySession
	}
	if err := u.Unmark(ctx, current.ID); err != nil {
		return s, fmt.Errorf("failed to unmark card %d: %w", current.ID, err)
	}

	rest := make([]domain.MarkedCard, 0, len(s.cards)-1)
	rest = append(rest, s.cards[:s.index]...)
	rest = append(rest, s.cards[s.index+1:]...)

	next := Session{cards: rest, index: s.index}
	if next.index > len(rest)-1 {
		next.index = max(0, len(rest)-1)
	}
	return next, nil
}
