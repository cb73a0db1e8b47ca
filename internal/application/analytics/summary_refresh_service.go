package analytics

import (
	"context"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

// SummaryRefreshService recomputes the precomputed daily-summary store from
// the raw sale ledger. The store is what MonthlyComparison reads first, so
// refreshing it is what keeps the fast path warm.
type SummaryRefreshService struct {
	ledger    analytics.SaleLedgerRepository
	summaries analytics.DailySummaryRepository
	logger    *zap.Logger
}

// NewSummaryRefreshService creates a new SummaryRefreshService.
func NewSummaryRefreshService(
	ledger analytics.SaleLedgerRepository,
	summaries analytics.DailySummaryRepository,
	logger *zap.Logger,
) *SummaryRefreshService {
	return &SummaryRefreshService{ledger: ledger, summaries: summaries, logger: logger}
}

// RefreshRange recomputes daily aggregates for [start, end) and upserts them
// into the summary store. Upserting is idempotent per date, so overlapping
// refreshes converge to the same rows.
func (s *SummaryRefreshService) RefreshRange(ctx context.Context, start, end time.Time) (int, error) {
	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return 0, computationErr("summary refresh", err)
	}

	aggregates := rollupDaily(records)
	if len(aggregates) == 0 {
		s.logger.Info("summary refresh found no sale records",
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return 0, nil
	}

	if err := s.summaries.Upsert(ctx, aggregates); err != nil {
		return 0, computationErr("summary refresh upsert", err)
	}

	s.logger.Info("daily summaries refreshed",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("days", len(aggregates)),
	)
	return len(aggregates), nil
}

// RefreshMonth recomputes the summaries of one calendar month.
func (s *SummaryRefreshService) RefreshMonth(ctx context.Context, year, month int) (int, error) {
	start, end := analytics.MonthRange(year, month)
	return s.RefreshRange(ctx, start, end)
}
