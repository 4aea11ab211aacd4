package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/conorfennell/flashmark/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// Store is the file-backed table of marked cards.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
	log  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// cardRow mirrors a marked_cards row.
type cardRow struct {
	ID        int64  `db:"id"`
	Topic     string `db:"topic"`
	Question  string `db:"question"`
	Answer    string `db:"answer"`
	CreatedAt int64  `db:"created_at"`
}

func (r cardRow) toDomain() domain.MarkedCard {
	return domain.MarkedCard{
		ID:        r.ID,
		Topic:     r.Topic,
		Question:  r.Question,
		Answer:    r.Answer,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
}

// Open opens (creating if needed) the SQLite file at path and migrates it
// to the latest schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "storage")

	db, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, domain.NewStorageError("open", err)
	}

	// One connection serializes every read and write through SQLite and
	// keeps ":memory:" databases alive for the life of the Store.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.NewStorageError("open", fmt.Errorf("failed to connect to database: %w", err))
	}

	if err := migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, domain.NewStorageError("migrate", err)
	}

	s.conn = db
	s.log.Debug("database opened", "path", path)
	return s, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Insert stores a new card and returns it with its assigned id and
// creation time. Fields are trimmed; any empty field is a ValidationError.
func (s *Store) Insert(ctx context.Context, topic, question, answer string) (domain.MarkedCard, error) {
	c := domain.Candidate{Topic: topic, Question: question, Answer: answer}.Trimmed()
	switch {
	case c.Topic == "":
		return domain.MarkedCard{}, domain.NewValidationError("topic", "is required")
	case c.Question == "":
		return domain.MarkedCard{}, domain.NewValidationError("question", "is required")
	case c.Answer == "":
		return domain.MarkedCard{}, domain.NewValidationError("answer", "is required")
	}

	createdAt := s.now().UTC()
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO marked_cards (topic, question, answer, created_at)
		VALUES (?, ?, ?, ?)
	`, c.Topic, c.Question, c.Answer, createdAt.UnixNano())
	if err != nil {
		return domain.MarkedCard{}, domain.NewStorageError("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.MarkedCard{}, domain.NewStorageError("insert", fmt.Errorf("failed to get last insert ID: %w", err))
	}

	s.log.Debug("card inserted", "id", id, "topic", c.Topic)
	return domain.MarkedCard{
		ID:        id,
		Topic:     c.Topic,
		Question:  c.Question,
		Answer:    c.Answer,
		CreatedAt: time.Unix(0, createdAt.UnixNano()).UTC(),
	}, nil
}

// Delete removes the card with the given id. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM marked_cards WHERE id = ?`, id)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.log.Debug("card deleted", "id", id, "rows", n)
	}
	return nil
}

// List returns every card, most recently created first, ties broken by
// id descending.
func (s *Store) List(ctx context.Context) ([]domain.MarkedCard, error) {
	var rows []cardRow
	err := s.conn.SelectContext(ctx, &rows, `
		SELECT id, topic, question, answer, created_at
		FROM marked_cards
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}

	cards := make([]domain.MarkedCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toDomain())
	}
	return cards, nil
}

// Count returns the number of stored cards.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM marked_cards`); err != nil {
		return 0, domain.NewStorageError("count", err)
	}
	return n, nil
}
