package services

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/analytics"
)

type AnalyticsService struct {
	repo analytics.Repository
}

func NewAnalyticsService(repo analytics.Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

func (s *AnalyticsService) Overview(ctx context.Context, passoutYear int) (analytics.Overview, error) {
	return s.repo.Overview(ctx, passoutYear)
}

func (s *AnalyticsService) PlacementRate(ctx context.Context) ([]analytics.PlacementRate, error) {
	return s.repo.PlacementRate(ctx)
}

func (s *AnalyticsService) BranchSummaries(ctx context.Context, passoutYear int) ([]analytics.BranchSummary, error) {
	return s.repo.BranchSummaries(ctx, passoutYear)
}

func (s *AnalyticsService) CompanySummaries(ctx context.Context, limit int) ([]analytics.CompanySummary, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.repo.CompanySummaries(ctx, limit)
}

func (s *AnalyticsService) CtcBands(ctx context.Context) ([]analytics.CtcBand, error) {
	return s.repo.CtcBands(ctx)
}

func (s *AnalyticsService) Refresh(ctx context.Context) error {
	return s.repo.Refresh(ctx)
}
