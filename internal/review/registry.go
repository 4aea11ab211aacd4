package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for ids the registry does not hold.
var ErrSessionNotFound = errors.New("review session not found")

// Source is what a registry needs from the card service.
type Source interface {
	Lister
	Unmarker
}

// Registry holds in-flight review sessions keyed by id. Sessions are only
// read or replaced under the registry lock.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	source   Source
	log      *slog.Logger
}

func NewRegistry(source Source, log *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]Session),
		source:   source,
		log:      log.With("component", "review"),
	}
}

// Create snapshots the store into a new session.
func (r *Registry) Create(ctx context.Context) (uuid.UUID, Session, error) {
	s, err := Refresh(ctx, r.source)
	if err != nil {
		return uuid.Nil, Session{}, err
	}

	id := uuid.New()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.DebugContext(ctx, "review session created", "session", id, "cards", s.Len())
	return id, s, nil
}

func (r *Registry) Get(id uuid.UUID) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Refresh(ctx context.Context, id uuid.UUID) (Session, error) {
	return r.update(id, func(Session) (Session, error) {
		return Refresh(ctx, r.source)
	})
}

func (r *Registry) Previous(id uuid.UUID) (Session, error) {
	return r.update(id, func(s Session) (Session, error) {
		return s.Previous(), nil
	})
}

func (r *Registry) Next(id uuid.UUID) (Session, error) {
	return r.update(id, func(s Session) (Session, error) {
		return s.Next(), nil
	})
}

func (r *Registry) MarkLearned(ctx context.Context, id uuid.UUID) (Session, error) {
	return r.update(id, func(s Session) (Session, error) {
		return s.MarkLearned(ctx, r.source)
	})
}

// Delete forgets a session. Unknown ids are a no-op.
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of sessions held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// update applies fn to the stored session and keeps the result only when fn
// succeeds.
func (r *Registry) update(id uuid.UUID, fn func(Session) (Session, error)) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	next, err := fn(s)
	if err != nil {
		return s, err
	}
	r.sessions[id] = next
	return next, nil
}
