package service

import (
	"context"
	"fmt"
	"strings"

	"chatmart/internal/model"
	"chatmart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type statisticsService struct {
	statsRepo repository.StatisticsRepository
	logger    zerolog.Logger
}

// NewStatisticsService creates a new statistics service.
func NewStatisticsService(statsRepo repository.StatisticsRepository, logger zerolog.Logger) StatisticsService {
	return &statisticsService{
		statsRepo: statsRepo,
		logger:    logger.With().Str("service", "statistics").Logger(),
	}
}

// Revenue reports paid revenue per product. TotalRevenue is the sum of Values.
func (s *statisticsService) Revenue(ctx context.Context, r model.DateRange) (*model.RevenueStatistics, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}

	points, err := s.statsRepo.ProductRevenue(ctx, r)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute revenue")
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	stats := &model.RevenueStatistics{
		Labels:       make([]string, 0, len(points)),
		Values:       make([]decimal.Decimal, 0, len(points)),
		TotalRevenue: decimal.Zero,
	}
	for _, p := range points {
		stats.Labels = append(stats.Labels, p.Label)
		stats.Values = append(stats.Values, p.Value)
		stats.TotalRevenue = stats.TotalRevenue.Add(p.Value)
	}
	return stats, nil
}

// UserQuantities reports ordered quantity per product for one user.
func (s *statisticsService) UserQuantities(ctx context.Context, userID string, r model.DateRange, paidOnly bool) (*model.QuantityStatistics, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.NewValidationError("user_id is required")
	}
	if err := validateRange(r); err != nil {
		return nil, err
	}

	points, err := s.statsRepo.ProductQuantities(ctx, userID, r, paidOnly)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to compute quantities")
		return nil, fmt.Errorf("failed to compute quantities: %w", err)
	}

	stats := &model.QuantityStatistics{
		Labels: make([]string, 0, len(points)),
		Data:   make([]int64, 0, len(points)),
	}
	for _, p := range points {
		stats.Labels = append(stats.Labels, p.Label)
		stats.Data = append(stats.Data, p.Quantity)
	}
	return stats, nil
}

func validateRange(r model.DateRange) error {
	if r.Start.IsZero() != r.End.IsZero() {
		return model.NewValidationError("startDate and endDate must be given together")
	}
	if r.IsSet() && r.End.Before(r.Start) {
		return model.NewValidationError("endDate must not be before startDate")
	}
	return nil
}
