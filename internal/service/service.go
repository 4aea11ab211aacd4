package service

import (
	"context"

	"github.com/conorfennell/flashmark/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service_mock.go -package=mock_service

// CardStore is the persistence the services depend on.
type CardStore interface {
	Insert(ctx context.Context, topic, question, answer string) (domain.MarkedCard, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.MarkedCard, error)
}
