package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/jinzhu/now"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/models"
)

type StatsService struct {
	stats  models.StatsRepo
	logger *slog.Logger
}

func NewStatsService(stats models.StatsRepo, logger *slog.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

// windows are computed fresh on every call so a long-lived process never
// reports against a stale "today".
func statsWindows() models.StatsWindows {
	return models.StatsWindows{
		SevenDaysAgo:  now.New(time.Now().AddDate(0, 0, -7)).BeginningOfDay(),
		ThirtyDaysAgo: now.New(time.Now().AddDate(0, 0, -30)).BeginningOfDay(),
	}
}

func (s *StatsService) UserStats(ctx context.Context) (*models.UserStats, error) {
	stats, err := s.stats.UserStats(ctx, statsWindows())
	if err != nil {
		return nil, apperr.Internal("failed to compute user stats", err)
	}
	return stats, nil
}

func (s *StatsService) BookingStats(ctx context.Context) (*models.BookingStats, error) {
	stats, err := s.stats.BookingStats(ctx, statsWindows())
	if err != nil {
		return nil, apperr.Internal("failed to compute booking stats", err)
	}
	return stats, nil
}

func (s *StatsService) PaymentStats(ctx context.Context) (*models.PaymentStats, error) {
	stats, err := s.stats.PaymentStats(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to compute payment stats", err)
	}
	return stats, nil
}

func (s *StatsService) TourStats(ctx context.Context) (*models.TourStats, error) {
	stats, err := s.stats.TourStats(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to compute tour stats", err)
	}
	return stats, nil
}
