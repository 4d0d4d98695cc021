package game

import (
	"context"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type HistoryRepository interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error)
}

// Service is the entry point for finished-game queries (facade)
type Service struct {
	Repo HistoryRepository
}

func NewService(repo HistoryRepository) *Service {
	return &Service{
		Repo: repo,
	}
}

func (s *Service) GetGame(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	rec, err := s.Repo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrGameNotFound
	}
	return rec, nil
}

// RecentGames clamps limit to [1, MaxHistoryLimit], using the default for
// non-positive values.
func (s *Service) RecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.Repo.ListRecent(ctx, limit)
}
