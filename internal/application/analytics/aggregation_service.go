package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/finance"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultRankingSize is the ranking length used when the caller asks for none.
const DefaultRankingSize = 10

// AggregationService is the single place grouping/reduction logic lives.
// It is stateless: every operation is a pure function of the data it reads,
// so concurrent invocations never interfere and repeated calls with the same
// stored data return identical output.
type AggregationService struct {
	ledger    analytics.SaleLedgerRepository
	summaries analytics.DailySummaryRepository
	products  catalog.ProductLookup
	expenses  finance.ExpenseLedger
	targets   planning.SalesTargetRepository
	logger    *zap.Logger
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(
	ledger analytics.SaleLedgerRepository,
	summaries analytics.DailySummaryRepository,
	products catalog.ProductLookup,
	expenses finance.ExpenseLedger,
	targets planning.SalesTargetRepository,
	logger *zap.Logger,
) *AggregationService {
	return &AggregationService{
		ledger:    ledger,
		summaries: summaries,
		products:  products,
		expenses:  expenses,
		targets:   targets,
		logger:    logger,
	}
}

// computationErr wraps a repository failure into the computation-error class
// so the handler layer can distinguish it from an empty-but-valid result.
func computationErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, shared.ErrComputation)
}

// DailyTrend returns one aggregate per day with data in [start, end),
// ordered by date ascending. Days without records are omitted.
func (s *AggregationService) DailyTrend(ctx context.Context, start, end time.Time) ([]analytics.DailyAggregate, error) {
	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("daily trend", err)
	}
	return rollupDaily(records), nil
}

// rollupDaily groups ledger records by date, preserving ascending date order.
func rollupDaily(records []analytics.SaleRecord) []analytics.DailyAggregate {
	index := make(map[string]int)
	aggregates := make([]analytics.DailyAggregate, 0)

	for _, r := range records {
		key := analytics.DateKey(r.Date)
		i, ok := index[key]
		if !ok {
			i = len(aggregates)
			index[key] = i
			aggregates = append(aggregates, analytics.DailyAggregate{Date: r.Date})
		}
		aggregates[i].TotalSales = aggregates[i].TotalSales.Add(r.Revenue())
		aggregates[i].TotalCost = aggregates[i].TotalCost.Add(r.Cost())
		aggregates[i].ItemCount += r.QuantitySold
		aggregates[i].TransactionCount++
	}

	for i := range aggregates {
		aggregates[i].GrossProfit = aggregates[i].TotalSales.Sub(aggregates[i].TotalCost)
		aggregates[i].GrossMarginPct = analytics.Percentage(aggregates[i].GrossProfit, aggregates[i].TotalSales)
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].Date.Before(aggregates[j].Date)
	})
	return aggregates
}

// MonthlyComparison returns per-month sales and gross profit for months of
// the year that have data, ordered by month ascending.
//
// Two-state source strategy: the precomputed daily-summary store is tried
// first (PRIMARY); if that read fails the result is recomputed from the raw
// sale ledger (FALLBACK), exactly once, with an identical result shape.
func (s *AggregationService) MonthlyComparison(ctx context.Context, year int) ([]analytics.MonthlySales, error) {
	months, err := s.summaries.MonthlyTotals(ctx, year)
	if err == nil {
		sort.SliceStable(months, func(i, j int) bool { return months[i].Month < months[j].Month })
		return months, nil
	}

	s.logger.Warn("monthly summary source unavailable, recomputing from sale ledger",
		zap.Int("year", year),
		zap.Error(err),
	)

	start, end := analytics.YearRange(year)
	trend, trendErr := s.DailyTrend(ctx, start, end)
	if trendErr != nil {
		return nil, computationErr("monthly comparison fallback", errors.Join(err, trendErr))
	}
	return monthlyFromTrend(trend), nil
}

// monthlyFromTrend groups a daily trend by calendar month. This is the
// FALLBACK path of MonthlyComparison and is kept separate so it can be
// exercised directly in tests.
func monthlyFromTrend(trend []analytics.DailyAggregate) []analytics.MonthlySales {
	index := make(map[string]int)
	months := make([]analytics.MonthlySales, 0)

	for _, day := range trend {
		key := analytics.MonthKey(day.Date)
		i, ok := index[key]
		if !ok {
			i = len(months)
			index[key] = i
			months = append(months, analytics.MonthlySales{Month: key})
		}
		months[i].TotalSales = months[i].TotalSales.Add(day.TotalSales)
		months[i].GrossProfit = months[i].GrossProfit.Add(day.GrossProfit)
	}

	sort.SliceStable(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// ProductRanking returns up to topN products sorted by total sales descending.
// Ties keep first-seen ledger order. Products missing from the catalog are
// labeled with the "unknown" sentinel rather than dropped.
func (s *AggregationService) ProductRanking(ctx context.Context, start, end time.Time, topN int) ([]analytics.ProductAggregate, error) {
	if topN <= 0 {
		topN = DefaultRankingSize
	}

	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("product ranking", err)
	}

	index := make(map[uuid.UUID]int)
	products := make([]analytics.ProductAggregate, 0)
	for _, r := range records {
		i, ok := index[r.ProductID]
		if !ok {
			i = len(products)
			index[r.ProductID] = i
			products = append(products, analytics.ProductAggregate{ProductID: r.ProductID})
		}
		products[i].QuantitySold += r.QuantitySold
		products[i].TotalSales = products[i].TotalSales.Add(r.Revenue())
		products[i].TotalCost = products[i].TotalCost.Add(r.Cost())
	}

	s.labelProducts(ctx, products)

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalSales.GreaterThan(products[j].TotalSales)
	})
	if len(products) > topN {
		products = products[:topN]
	}
	return products, nil
}

// labelProducts resolves catalog names in one batched lookup. A failed or
// partial lookup degrades to sentinel labels; ranking data is still valid.
func (s *AggregationService) labelProducts(ctx context.Context, products []analytics.ProductAggregate) {
	if len(products) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("catalog lookup failed, labeling products with sentinels", zap.Error(err))
		found = nil
	}

	for i := range products {
		p, ok := found[products[i].ProductID]
		if !ok {
			products[i].ProductName = analytics.UnknownProductName
			continue
		}
		products[i].ProductName = p.Name
		products[i].CategoryID = p.CategoryID
		products[i].CategoryName = p.CategoryName
	}
}

// CategoryBreakdown returns total sales per category over [start, end),
// sorted descending. Products without a category accumulate under the
// "uncategorized" sentinel.
func (s *AggregationService) CategoryBreakdown(ctx context.Context, start, end time.Time) ([]analytics.CategorySales, error) {
	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("category breakdown", err)
	}

	byProduct := make(map[uuid.UUID]int)
	products := make([]analytics.ProductAggregate, 0)
	for _, r := range records {
		i, ok := byProduct[r.ProductID]
		if !ok {
			i = len(products)
			byProduct[r.ProductID] = i
			products = append(products, analytics.ProductAggregate{ProductID: r.ProductID})
		}
		products[i].TotalSales = products[i].TotalSales.Add(r.Revenue())
	}

	s.labelProducts(ctx, products)

	index := make(map[string]int)
	categories := make([]analytics.CategorySales, 0)
	for _, p := range products {
		name := p.CategoryName
		if name == "" {
			name = analytics.UncategorizedCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(categories)
			index[name] = i
			categories = append(categories, analytics.CategorySales{Category: name})
		}
		categories[i].TotalSales = categories[i].TotalSales.Add(p.TotalSales)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].TotalSales.GreaterThan(categories[j].TotalSales)
	})
	return categories, nil
}

// HourlySales returns exactly 24 slots (hours 0-23), summed across every
// date in [start, end). Hours with no matching records stay zero-filled.
func (s *AggregationService) HourlySales(ctx context.Context, start, end time.Time) ([]analytics.HourlySlot, error) {
	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("hourly sales", err)
	}

	slots := make([]analytics.HourlySlot, 24)
	for h := range slots {
		slots[h] = analytics.HourlySlot{Hour: h, TotalSales: decimal.Zero}
	}
	for _, r := range records {
		h := analytics.HourBucket(r.RecordedAt)
		slots[h].TotalSales = slots[h].TotalSales.Add(r.Revenue())
		slots[h].ItemCount += r.QuantitySold
	}
	return slots, nil
}

// WeekdaySales returns exactly 7 slots in fixed Sunday-first order.
// AverageSales divides each slot's total by the number of distinct dates
// with data in that bucket; buckets with no data report 0, never a
// non-finite value.
func (s *AggregationService) WeekdaySales(ctx context.Context, start, end time.Time) ([]analytics.WeekdaySlot, error) {
	records, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("weekday sales", err)
	}

	slots := make([]analytics.WeekdaySlot, 7)
	for w := range slots {
		slots[w] = analytics.WeekdaySlot{
			Weekday:      w,
			Name:         analytics.WeekdayNames[w],
			TotalSales:   decimal.Zero,
			AverageSales: decimal.Zero,
		}
	}

	days := make([]map[string]struct{}, 7)
	for _, r := range records {
		w := analytics.WeekdayBucket(r.Date)
		slots[w].TotalSales = slots[w].TotalSales.Add(r.Revenue())
		if days[w] == nil {
			days[w] = make(map[string]struct{})
		}
		days[w][analytics.DateKey(r.Date)] = struct{}{}
	}

	for w := range slots {
		n := int64(len(days[w]))
		slots[w].DaysWithData = n
		if n > 0 {
			slots[w].AverageSales = slots[w].TotalSales.Div(decimal.NewFromInt(n)).Round(2)
		}
	}
	return slots, nil
}

// TargetAchievement returns exactly 12 entries (Jan-Dec) for the year.
// Months without a configured target report target 0 and rate 0; actuals
// come from the same monthly rollup the comparison report uses.
func (s *AggregationService) TargetAchievement(ctx context.Context, year int) ([]analytics.TargetAchievement, error) {
	targets, err := s.targets.FindByYear(ctx, year)
	if err != nil {
		return nil, computationErr("target achievement", err)
	}
	targetByMonth := make(map[int]decimal.Decimal, len(targets))
	for _, t := range targets {
		targetByMonth[t.Month] = t.TargetAmount
	}

	months, err := s.MonthlyComparison(ctx, year)
	if err != nil {
		return nil, err
	}
	actualByMonth := make(map[string]decimal.Decimal, len(months))
	for _, m := range months {
		actualByMonth[m.Month] = m.TotalSales
	}

	result := make([]analytics.TargetAchievement, 12)
	for m := 1; m <= 12; m++ {
		entry := analytics.TargetAchievement{
			Month:        m,
			TargetAmount: decimal.Zero,
			ActualAmount: decimal.Zero,
		}
		if t, ok := targetByMonth[m]; ok {
			entry.TargetAmount = t
		}
		if a, ok := actualByMonth[analytics.FormatMonthKey(year, m)]; ok {
			entry.ActualAmount = a
		}
		if entry.TargetAmount.IsPositive() {
			entry.AchievementRate = analytics.Percentage(entry.ActualAmount, entry.TargetAmount).IntPart()
		}
		result[m-1] = entry
	}
	return result, nil
}

// MonthlyReport combines the month's sales rollup, the expense ledger sum,
// and the configured sales target into one financial report.
func (s *AggregationService) MonthlyReport(ctx context.Context, year, month int) (*analytics.MonthlyReport, error) {
	start, end := analytics.MonthRange(year, month)

	trend, err := s.DailyTrend(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &analytics.MonthlyReport{
		Year:          year,
		Month:         month,
		TotalSales:    decimal.Zero,
		TotalCost:     decimal.Zero,
		TargetAmount:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, day := range trend {
		report.TotalSales = report.TotalSales.Add(day.TotalSales)
		report.TotalCost = report.TotalCost.Add(day.TotalCost)
	}
	report.GrossProfit = report.TotalSales.Sub(report.TotalCost)
	report.GrossMarginPct = analytics.Percentage(report.GrossProfit, report.TotalSales)

	expenses, err := s.expenses.TotalForRange(ctx, start, end)
	if err != nil {
		return nil, computationErr("monthly report expenses", err)
	}
	report.TotalExpenses = expenses
	report.NetProfit = report.GrossProfit.Sub(expenses)

	target, err := s.targets.FindByMonth(ctx, year, month)
	switch {
	case err == nil:
		report.TargetAmount = target.TargetAmount
	case errors.Is(err, shared.ErrNotFound):
		// no target configured for the month; rate stays 0
	default:
		return nil, computationErr("monthly report target", err)
	}
	if report.TargetAmount.IsPositive() {
		report.AchievementRate = analytics.Percentage(report.TotalSales, report.TargetAmount).IntPart()
	}
	return report, nil
}
