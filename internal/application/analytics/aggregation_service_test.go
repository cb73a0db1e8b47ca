package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSaleLedgerRepository is a mock implementation of analytics.SaleLedgerRepository
type MockSaleLedgerRepository struct {
	mock.Mock
}

func (m *MockSaleLedgerRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]analytics.SaleRecord, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.SaleRecord), args.Error(1)
}

// MockDailySummaryRepository is a mock implementation of analytics.DailySummaryRepository
type MockDailySummaryRepository struct {
	mock.Mock
}

func (m *MockDailySummaryRepository) MonthlyTotals(ctx context.Context, year int) ([]analytics.MonthlySales, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.MonthlySales), args.Error(1)
}

func (m *MockDailySummaryRepository) Upsert(ctx context.Context, aggregates []analytics.DailyAggregate) error {
	args := m.Called(ctx, aggregates)
	return args.Error(0)
}

// MockProductLookup is a mock implementation of catalog.ProductLookup
type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]catalog.Product), args.Error(1)
}

// MockExpenseLedger is a mock implementation of finance.ExpenseLedger
type MockExpenseLedger struct {
	mock.Mock
}

func (m *MockExpenseLedger) TotalForRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSalesTargetRepository is a mock implementation of planning.SalesTargetRepository
type MockSalesTargetRepository struct {
	mock.Mock
}

func (m *MockSalesTargetRepository) Upsert(ctx context.Context, target *planning.SalesTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockSalesTargetRepository) FindByYear(ctx context.Context, year int) ([]planning.SalesTarget, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.SalesTarget), args.Error(1)
}

func (m *MockSalesTargetRepository) FindByMonth(ctx context.Context, year, month int) (*planning.SalesTarget, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.SalesTarget), args.Error(1)
}

// Verify interface compliance
var _ analytics.SaleLedgerRepository = (*MockSaleLedgerRepository)(nil)
var _ analytics.DailySummaryRepository = (*MockDailySummaryRepository)(nil)
var _ catalog.ProductLookup = (*MockProductLookup)(nil)
var _ planning.SalesTargetRepository = (*MockSalesTargetRepository)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

type serviceMocks struct {
	ledger    *MockSaleLedgerRepository
	summaries *MockDailySummaryRepository
	products  *MockProductLookup
	expenses  *MockExpenseLedger
	targets   *MockSalesTargetRepository
}

func newTestService() (*AggregationService, *serviceMocks) {
	m := &serviceMocks{
		ledger:    new(MockSaleLedgerRepository),
		summaries: new(MockDailySummaryRepository),
		products:  new(MockProductLookup),
		expenses:  new(MockExpenseLedger),
		targets:   new(MockSalesTargetRepository),
	}
	service := NewAggregationService(m.ledger, m.summaries, m.products, m.expenses, m.targets, zap.NewNop())
	return service, m
}

func saleOn(date time.Time, productID uuid.UUID, qty int64, price, cost float64) analytics.SaleRecord {
	return analytics.SaleRecord{
		Date:             date,
		ProductID:        productID,
		QuantitySold:     qty,
		UnitSellingPrice: decimal.NewFromFloat(price),
		UnitCostPrice:    decimal.NewFromFloat(cost),
		RecordedAt:       date.Add(10 * time.Hour),
	}
}

var (
	mar1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mar2 = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	apr1 = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
)

// =============================================================================
// DailyTrend Tests
// =============================================================================

func TestAggregationService_DailyTrend_GroupsByDate(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	records := []analytics.SaleRecord{
		saleOn(mar1, productID, 2, 5.00, 2.00),  // revenue 10, cost 4
		saleOn(mar1, productID, 1, 10.00, 4.00), // revenue 10, cost 4
		saleOn(mar2, productID, 4, 2.50, 1.00),  // revenue 10, cost 4
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)

	trend, err := service.DailyTrend(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, trend, 2)

	assert.Equal(t, mar1, trend[0].Date)
	assert.True(t, trend[0].TotalSales.Equal(decimal.NewFromInt(20)))
	assert.True(t, trend[0].TotalCost.Equal(decimal.NewFromInt(8)))
	assert.True(t, trend[0].GrossProfit.Equal(decimal.NewFromInt(12)))
	assert.True(t, trend[0].GrossMarginPct.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, int64(3), trend[0].ItemCount)
	assert.Equal(t, int64(2), trend[0].TransactionCount)

	assert.Equal(t, mar2, trend[1].Date)
	assert.Equal(t, int64(1), trend[1].TransactionCount)
	m.ledger.AssertExpectations(t)
}

func TestAggregationService_DailyTrend_EmptyRange(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.ledger.On("FindByDateRange", ctx, mar1, mar2).Return([]analytics.SaleRecord{}, nil)

	trend, err := service.DailyTrend(ctx, mar1, mar2)

	assert.NoError(t, err)
	assert.Empty(t, trend)
}

func TestAggregationService_DailyTrend_ZeroSalesDayHasZeroMargin(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	// free promotional giveaway: revenue 0, cost > 0
	records := []analytics.SaleRecord{saleOn(mar1, uuid.New(), 5, 0, 1.00)}
	m.ledger.On("FindByDateRange", ctx, mar1, mar2).Return(records, nil)

	trend, err := service.DailyTrend(ctx, mar1, mar2)

	assert.NoError(t, err)
	assert.Len(t, trend, 1)
	assert.True(t, trend[0].TotalSales.IsZero())
	assert.True(t, trend[0].GrossMarginPct.IsZero())
}

func TestAggregationService_DailyTrend_LedgerError(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(nil, errors.New("connection refused"))

	trend, err := service.DailyTrend(ctx, mar1, apr1)

	assert.Nil(t, trend)
	assert.ErrorIs(t, err, shared.ErrComputation)
}

// =============================================================================
// MonthlyComparison Tests
// =============================================================================

func TestAggregationService_MonthlyComparison_PrimarySource(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	months := []analytics.MonthlySales{
		{Month: "2025-02", TotalSales: decimal.NewFromInt(300), GrossProfit: decimal.NewFromInt(100)},
		{Month: "2025-01", TotalSales: decimal.NewFromInt(200), GrossProfit: decimal.NewFromInt(80)},
	}
	m.summaries.On("MonthlyTotals", ctx, 2025).Return(months, nil)

	got, err := service.MonthlyComparison(ctx, 2025)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "2025-01", got[0].Month)
	assert.Equal(t, "2025-02", got[1].Month)
	// the ledger is never touched when the primary source answers
	m.ledger.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregationService_MonthlyComparison_FallbackOnPrimaryFailure(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	m.summaries.On("MonthlyTotals", ctx, 2025).Return(nil, errors.New("table missing"))

	start, end := analytics.YearRange(2025)
	records := []analytics.SaleRecord{
		saleOn(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), productID, 1, 100, 40),
		saleOn(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), productID, 1, 50, 20),
		saleOn(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), productID, 1, 30, 10),
	}
	m.ledger.On("FindByDateRange", ctx, start, end).Return(records, nil)

	got, err := service.MonthlyComparison(ctx, 2025)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "2025-01", got[0].Month)
	assert.True(t, got[0].TotalSales.Equal(decimal.NewFromInt(150)))
	assert.True(t, got[0].GrossProfit.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "2025-03", got[1].Month)
	assert.True(t, got[1].TotalSales.Equal(decimal.NewFromInt(30)))
	m.ledger.AssertNumberOfCalls(t, "FindByDateRange", 1)
}

func TestAggregationService_MonthlyComparison_BothSourcesFail(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.summaries.On("MonthlyTotals", ctx, 2025).Return(nil, errors.New("primary down"))
	start, end := analytics.YearRange(2025)
	m.ledger.On("FindByDateRange", ctx, start, end).Return(nil, errors.New("ledger down"))

	got, err := service.MonthlyComparison(ctx, 2025)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, shared.ErrComputation)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "ledger down")
}

// =============================================================================
// ProductRanking Tests
// =============================================================================

func TestAggregationService_ProductRanking_SortsBySalesDescending(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	espressoID := uuid.New()
	latteID := uuid.New()

	records := []analytics.SaleRecord{
		saleOn(mar1, espressoID, 2, 3.00, 1.00), // 6.00
		saleOn(mar1, latteID, 4, 4.50, 1.50),    // 18.00
		saleOn(mar2, espressoID, 1, 3.00, 1.00), // espresso total 9.00
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		espressoID: {ID: espressoID, Name: "Espresso", CategoryName: "Coffee"},
		latteID:    {ID: latteID, Name: "Latte", CategoryName: "Coffee"},
	}, nil)

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 10)

	assert.NoError(t, err)
	assert.Len(t, ranking, 2)
	assert.Equal(t, "Latte", ranking[0].ProductName)
	assert.True(t, ranking[0].TotalSales.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "Espresso", ranking[1].ProductName)
	assert.Equal(t, int64(3), ranking[1].QuantitySold)
}

func TestAggregationService_ProductRanking_TiesKeepLedgerOrder(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	firstID := uuid.New()
	secondID := uuid.New()

	records := []analytics.SaleRecord{
		saleOn(mar1, firstID, 1, 10.00, 4.00),
		saleOn(mar1, secondID, 1, 10.00, 4.00),
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{}, nil)

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 10)

	assert.NoError(t, err)
	assert.Len(t, ranking, 2)
	assert.Equal(t, firstID, ranking[0].ProductID)
	assert.Equal(t, secondID, ranking[1].ProductID)
}

func TestAggregationService_ProductRanking_TruncatesToTopN(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	records := make([]analytics.SaleRecord, 0, 5)
	for i := 1; i <= 5; i++ {
		records = append(records, saleOn(mar1, uuid.New(), int64(i), 1.00, 0.50))
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{}, nil)

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 3)

	assert.NoError(t, err)
	assert.Len(t, ranking, 3)
	assert.True(t, ranking[0].TotalSales.Equal(decimal.NewFromInt(5)))
}

func TestAggregationService_ProductRanking_ZeroTopNUsesDefault(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	records := make([]analytics.SaleRecord, 0, 15)
	for i := 1; i <= 15; i++ {
		records = append(records, saleOn(mar1, uuid.New(), int64(i), 1.00, 0.50))
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{}, nil)

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 0)

	assert.NoError(t, err)
	assert.Len(t, ranking, DefaultRankingSize)
}

func TestAggregationService_ProductRanking_MissingCatalogRowGetsSentinel(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	knownID := uuid.New()
	orphanID := uuid.New()

	records := []analytics.SaleRecord{
		saleOn(mar1, knownID, 1, 5.00, 2.00),
		saleOn(mar1, orphanID, 1, 3.00, 1.00),
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		knownID: {ID: knownID, Name: "Mocha", CategoryName: "Coffee"},
	}, nil)

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 10)

	assert.NoError(t, err)
	assert.Len(t, ranking, 2)
	assert.Equal(t, "Mocha", ranking[0].ProductName)
	assert.Equal(t, analytics.UnknownProductName, ranking[1].ProductName)
}

func TestAggregationService_ProductRanking_CatalogFailureDegradesToSentinels(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	records := []analytics.SaleRecord{saleOn(mar1, uuid.New(), 1, 5.00, 2.00)}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(nil, errors.New("catalog down"))

	ranking, err := service.ProductRanking(ctx, mar1, apr1, 10)

	assert.NoError(t, err)
	assert.Len(t, ranking, 1)
	assert.Equal(t, analytics.UnknownProductName, ranking[0].ProductName)
	assert.True(t, ranking[0].TotalSales.Equal(decimal.NewFromInt(5)))
}

// =============================================================================
// CategoryBreakdown Tests
// =============================================================================

func TestAggregationService_CategoryBreakdown_GroupsByCategory(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	espressoID := uuid.New()
	latteID := uuid.New()
	croissantID := uuid.New()

	records := []analytics.SaleRecord{
		saleOn(mar1, espressoID, 2, 3.00, 1.00),  // Coffee 6
		saleOn(mar1, latteID, 2, 4.50, 1.50),     // Coffee 9
		saleOn(mar1, croissantID, 3, 2.00, 0.80), // Bakery 6
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		espressoID:  {ID: espressoID, Name: "Espresso", CategoryName: "Coffee"},
		latteID:     {ID: latteID, Name: "Latte", CategoryName: "Coffee"},
		croissantID: {ID: croissantID, Name: "Croissant", CategoryName: "Bakery"},
	}, nil)

	categories, err := service.CategoryBreakdown(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Coffee", categories[0].Category)
	assert.True(t, categories[0].TotalSales.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "Bakery", categories[1].Category)
	assert.True(t, categories[1].TotalSales.Equal(decimal.NewFromInt(6)))
}

func TestAggregationService_CategoryBreakdown_UncategorizedSentinel(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	bareID := uuid.New()

	records := []analytics.SaleRecord{saleOn(mar1, bareID, 1, 7.00, 3.00)}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)
	// product exists but carries no category
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		bareID: {ID: bareID, Name: "Gift Card"},
	}, nil)

	categories, err := service.CategoryBreakdown(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, analytics.UncategorizedCategory, categories[0].Category)
	assert.True(t, categories[0].TotalSales.Equal(decimal.NewFromInt(7)))
}

// =============================================================================
// HourlySales Tests
// =============================================================================

func TestAggregationService_HourlySales_Exactly24ZeroFilledSlots(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	r1 := saleOn(mar1, productID, 2, 5.00, 2.00)
	r1.RecordedAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	r2 := saleOn(mar2, productID, 1, 4.00, 1.50)
	r2.RecordedAt = time.Date(2025, 3, 2, 9, 5, 0, 0, time.UTC)
	r3 := saleOn(mar2, productID, 3, 2.00, 0.50)
	r3.RecordedAt = time.Date(2025, 3, 2, 14, 0, 0, 0, time.UTC)

	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return([]analytics.SaleRecord{r1, r2, r3}, nil)

	slots, err := service.HourlySales(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, slots, 24)
	for h, slot := range slots {
		assert.Equal(t, h, slot.Hour)
	}
	assert.True(t, slots[9].TotalSales.Equal(decimal.NewFromInt(14)))
	assert.Equal(t, int64(3), slots[9].ItemCount)
	assert.True(t, slots[14].TotalSales.Equal(decimal.NewFromInt(6)))
	assert.True(t, slots[0].TotalSales.IsZero())
	assert.Equal(t, int64(0), slots[0].ItemCount)
}

func TestAggregationService_HourlySales_EmptyLedgerStillReturns24Slots(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return([]analytics.SaleRecord{}, nil)

	slots, err := service.HourlySales(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, slots, 24)
	for _, slot := range slots {
		assert.True(t, slot.TotalSales.IsZero())
	}
}

// =============================================================================
// WeekdaySales Tests
// =============================================================================

func TestAggregationService_WeekdaySales_Exactly7SlotsWithAverages(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	// two distinct Sundays plus one Monday
	sun1 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	sun2 := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	records := []analytics.SaleRecord{
		saleOn(sun1, productID, 1, 10.00, 4.00),
		saleOn(sun1, productID, 1, 20.00, 8.00),
		saleOn(sun2, productID, 1, 30.00, 12.00),
		saleOn(mon, productID, 1, 5.00, 2.00),
	}
	m.ledger.On("FindByDateRange", ctx, mar1, apr1).Return(records, nil)

	slots, err := service.WeekdaySales(ctx, mar1, apr1)

	assert.NoError(t, err)
	assert.Len(t, slots, 7)
	assert.Equal(t, "Sunday", slots[0].Name)

	// Sunday: 60 over 2 distinct days
	assert.True(t, slots[0].TotalSales.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, int64(2), slots[0].DaysWithData)
	assert.True(t, slots[0].AverageSales.Equal(decimal.NewFromInt(30)))

	// Monday: 5 over 1 day
	assert.True(t, slots[1].TotalSales.Equal(decimal.NewFromInt(5)))
	assert.True(t, slots[1].AverageSales.Equal(decimal.NewFromInt(5)))

	// Tuesday has no data: totals and average stay zero
	assert.True(t, slots[2].TotalSales.IsZero())
	assert.True(t, slots[2].AverageSales.IsZero())
	assert.Equal(t, int64(0), slots[2].DaysWithData)
}

// =============================================================================
// TargetAchievement Tests
// =============================================================================

func TestAggregationService_TargetAchievement_Exactly12Entries(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()

	m.targets.On("FindByYear", ctx, 2025).Return([]planning.SalesTarget{
		{Year: 2025, Month: 1, TargetAmount: decimal.NewFromInt(1000)},
		{Year: 2025, Month: 3, TargetAmount: decimal.NewFromInt(2000)},
	}, nil)
	m.summaries.On("MonthlyTotals", ctx, 2025).Return([]analytics.MonthlySales{
		{Month: "2025-01", TotalSales: decimal.NewFromInt(1500)},
		{Month: "2025-02", TotalSales: decimal.NewFromInt(800)},
	}, nil)

	entries, err := service.TargetAchievement(ctx, 2025)

	assert.NoError(t, err)
	assert.Len(t, entries, 12)

	// January: 1500/1000 = 150%
	assert.Equal(t, 1, entries[0].Month)
	assert.Equal(t, int64(150), entries[0].AchievementRate)

	// February has sales but no target: rate stays 0
	assert.Equal(t, 2, entries[1].Month)
	assert.True(t, entries[1].TargetAmount.IsZero())
	assert.True(t, entries[1].ActualAmount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, int64(0), entries[1].AchievementRate)

	// March has a target but no sales
	assert.Equal(t, 3, entries[2].Month)
	assert.True(t, entries[2].ActualAmount.IsZero())
	assert.Equal(t, int64(0), entries[2].AchievementRate)

	// December exists zero-filled
	assert.Equal(t, 12, entries[11].Month)
	assert.True(t, entries[11].TargetAmount.IsZero())
}

// =============================================================================
// MonthlyReport Tests
// =============================================================================

func TestAggregationService_MonthlyReport_CombinesSalesExpensesAndTarget(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	productID := uuid.New()
	start, end := analytics.MonthRange(2025, 3)

	records := []analytics.SaleRecord{
		saleOn(mar1, productID, 10, 10.00, 4.00), // sales 100, cost 40
		saleOn(mar2, productID, 10, 10.00, 4.00), // sales 100, cost 40
	}
	m.ledger.On("FindByDateRange", ctx, start, end).Return(records, nil)
	m.expenses.On("TotalForRange", ctx, start, end).Return(decimal.NewFromInt(50), nil)
	m.targets.On("FindByMonth", ctx, 2025, 3).Return(&planning.SalesTarget{
		Year: 2025, Month: 3, TargetAmount: decimal.NewFromInt(400),
	}, nil)

	report, err := service.MonthlyReport(ctx, 2025, 3)

	assert.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 3, report.Month)
	assert.True(t, report.TotalSales.Equal(decimal.NewFromInt(200)))
	assert.True(t, report.TotalCost.Equal(decimal.NewFromInt(80)))
	assert.True(t, report.GrossProfit.Equal(decimal.NewFromInt(120)))
	assert.True(t, report.GrossMarginPct.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.TotalExpenses.Equal(decimal.NewFromInt(50)))
	assert.True(t, report.NetProfit.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, int64(50), report.AchievementRate)
}

func TestAggregationService_MonthlyReport_MissingTargetIsNotAnError(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	start, end := analytics.MonthRange(2025, 7)

	m.ledger.On("FindByDateRange", ctx, start, end).Return([]analytics.SaleRecord{}, nil)
	m.expenses.On("TotalForRange", ctx, start, end).Return(decimal.Zero, nil)
	m.targets.On("FindByMonth", ctx, 2025, 7).Return(nil, shared.ErrNotFound)

	report, err := service.MonthlyReport(ctx, 2025, 7)

	assert.NoError(t, err)
	assert.True(t, report.TargetAmount.IsZero())
	assert.Equal(t, int64(0), report.AchievementRate)
	assert.True(t, report.NetProfit.IsZero())
}

func TestAggregationService_MonthlyReport_ExpenseLedgerError(t *testing.T) {
	service, m := newTestService()
	ctx := context.Background()
	start, end := analytics.MonthRange(2025, 3)

	m.ledger.On("FindByDateRange", ctx, start, end).Return([]analytics.SaleRecord{}, nil)
	m.expenses.On("TotalForRange", ctx, start, end).Return(decimal.Zero, errors.New("timeout"))

	report, err := service.MonthlyReport(ctx, 2025, 3)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, shared.ErrComputation)
}
