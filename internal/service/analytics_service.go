package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

const analyticsSummaryCacheKey = "analytics:summary"

type analyticsRepository interface {
	TotalApprentices(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
	CountByDirectorate(ctx context.Context) ([]models.StatusCount, error)
	CountByProgram(ctx context.Context) ([]models.StatusCount, error)
	MonthlyLevyTotals(ctx context.Context) ([]models.MonthlyLevyTotals, error)
	TotalAgreedPrice(ctx context.Context) (float64, error)
}

// AnalyticsService serves aggregate views over apprentices and levy
// transactions, cached behind Redis.
type AnalyticsService struct {
	repo   analyticsRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Summary aggregates apprentice counts and levy totals, serving from cache
// when possible.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	var cached models.AnalyticsSummary
	if hit, err := s.cache.Get(ctx, analyticsSummaryCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	total, err := s.repo.TotalApprentices(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	byDirectorate, err := s.repo.CountByDirectorate(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	byProgram, err := s.repo.CountByProgram(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	monthly, err := s.repo.MonthlyLevyTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}
	agreedPrice, err := s.repo.TotalAgreedPrice(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics summary")
	}

	if byStatus == nil {
		byStatus = []models.StatusCount{}
	}
	if byDirectorate == nil {
		byDirectorate = []models.StatusCount{}
	}
	if byProgram == nil {
		byProgram = []models.StatusCount{}
	}
	if monthly == nil {
		monthly = []models.MonthlyLevyTotals{}
	}

	summary := &models.AnalyticsSummary{
		TotalApprentices: total,
		ByStatus:         byStatus,
		ByDirectorate:    byDirectorate,
		ByProgram:        byProgram,
		MonthlyLevy:      monthly,
		TotalAgreedPrice: agreedPrice,
		GeneratedAt:      time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, analyticsSummaryCacheKey, summary, s.ttl); err != nil {
		s.logger.Warn("analytics summary cache write failed", zap.Error(err))
	}
	return summary, nil
}
