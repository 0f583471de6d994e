package stats

import (
	"context"

	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/Domenick1991/farescope/internal/logging"
	"github.com/Domenick1991/farescope/internal/repository"
)

type StatsUseCase interface {
	// DateCounts serves the aggregate from cache when it can.
	DateCounts(ctx context.Context) ([]domain.DateCount, error)
	// Refresh always reads the store and rewrites the cache.
	Refresh(ctx context.Context) ([]domain.DateCount, error)
}

type Cache interface {
	GetDateCounts(ctx context.Context) ([]domain.DateCount, error)
	SetDateCounts(ctx context.Context, counts []domain.DateCount) error
	InvalidateDateCounts(ctx context.Context) error
}

type StatsService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewStatsService(repo repository.FlightRepository, cache Cache) *StatsService {
	return &StatsService{repo: repo, cache: cache}
}

func (s *StatsService) DateCounts(ctx context.Context) ([]domain.DateCount, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDateCounts(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

func (s *StatsService) Refresh(ctx context.Context) ([]domain.DateCount, error) {
	counts, err := s.repo.CountByDate(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetDateCounts(ctx, counts); err != nil {
			logging.Warn("caching date counts failed", "error", err)
			_ = s.cache.InvalidateDateCounts(ctx)
		}
	}
	return counts, nil
}

var _ StatsUseCase = (*StatsService)(nil)
