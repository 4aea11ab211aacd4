package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashmark/internal/domain"
)

func newTestRegistry(src Source) *Registry {
	return NewRegistry(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_Lifecycle(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cards: cards(3, 2, 1)}
	reg := newTestRegistry(src)

	id, s, err := reg.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, reg.Len())

	s, err = reg.Next(id)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index())

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Index(), "transitions are stored")

	s, err = reg.MarkLearned(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids(s))
	assert.Equal(t, []int64{2}, src.unmarked)

	s, err = reg.Previous(id)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Index())

	src.cards = cards(7, 3, 1)
	s, err = reg.Refresh(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3, 1}, ids(s))

	reg.Delete(id)
	_, err = reg.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, reg.Len())

	reg.Delete(id)
}

func TestRegistry_UnknownSession(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(&fakeSource{})
	id := uuid.New()

	ops := map[string]func() error{
		"get":      func() error { _, err := reg.Get(id); return err },
		"refresh":  func() error { _, err := reg.Refresh(ctx, id); return err },
		"previous": func() error { _, err := reg.Previous(id); return err },
		"next":     func() error { _, err := reg.Next(id); return err },
		"learned":  func() error { _, err := reg.MarkLearned(ctx, id); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), ErrSessionNotFound)
		})
	}
}

func TestRegistry_FailedTransitionKeepsSession(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cards: cards(1, 2)}
	reg := newTestRegistry(src)

	id, _, err := reg.Create(ctx)
	require.NoError(t, err)

	src.unmarkErr = domain.NewStorageError("delete", errors.New("locked"))
	_, err = reg.MarkLearned(ctx, id)
	assert.ErrorIs(t, err, domain.ErrStorage)

	src.listErr = errors.New("gone")
	_, err = reg.Refresh(ctx, id)
	require.Error(t, err)

	s, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(s))
}

func TestRegistry_EmptySession(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(&fakeSource{})

	id, s, err := reg.Create(ctx)
	require.NoError(t, err)
	assert.True(t, s.Empty())

	_, err = reg.MarkLearned(ctx, id)
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestRegistry_CreateListFailure(t *testing.T) {
	reg := newTestRegistry(&fakeSource{listErr: errors.New("boom")})
	_, _, err := reg.Create(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(&fakeSource{cards: cards(1, 2, 3)})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _, err := reg.Create(ctx)
			if !assert.NoError(t, err) {
				return
			}
			_, err = reg.Next(id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, reg.Len())
}
