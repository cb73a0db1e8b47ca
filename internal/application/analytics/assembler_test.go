package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(budgets BudgetVarianceSource) (*Assembler, *serviceMocks) {
	service, m := newTestService()
	if budgets == nil {
		budgets = &fakeVarianceSource{}
	}
	return NewAssembler(service, budgets), m
}

func TestAllReportTypes_CoversEveryTitleAndLayout(t *testing.T) {
	types := AllReportTypes()
	assert.Len(t, types, 9)
	for _, reportType := range types {
		_, ok := reportTitles[reportType]
		assert.True(t, ok, "missing title for %s", reportType)
		_, ok = exportLayouts[reportType]
		assert.True(t, ok, "missing export layout for %s", reportType)
	}
}

func TestAssembler_Dashboard_Envelope(t *testing.T) {
	a, m := newTestAssembler(nil)
	ctx := context.Background()

	m.summaries.On("MonthlyTotals", ctx, 2025).Return([]analytics.MonthlySales{
		{Month: "2025-01", TotalSales: decimal.NewFromFloat(123.45), GrossProfit: decimal.NewFromFloat(67.89)},
	}, nil)

	report, err := a.AssembleDashboard(ctx, ReportTypeMonthlyComparison, ReportParams{Year: 2025})

	require.NoError(t, err)
	assert.Equal(t, "monthly_comparison", report.Type)
	assert.Equal(t, "Monthly Sales Comparison", report.Title)
	require.Len(t, report.Data, 1)

	row, ok := report.Data[0].(MonthlyComparisonRow)
	require.True(t, ok)
	assert.Equal(t, "2025-01", row.Month)
	assert.InDelta(t, 123.45, row.TotalSales, 0.0001)
	assert.InDelta(t, 67.89, row.GrossProfit, 0.0001)
}

func TestAssembler_Export_HeadersMatchRowWidth(t *testing.T) {
	a, m := newTestAssembler(nil)
	ctx := context.Background()

	m.ledger.On("FindByDateRange", ctx, mock.Anything, mock.Anything).Return([]analytics.SaleRecord{
		saleOn(mar1, uuid.New(), 2, 5.00, 2.00),
	}, nil)

	params := ReportParams{StartDate: mar1, EndDate: apr1}
	report, err := a.AssembleExport(ctx, ReportTypeDailyTrend, params)

	require.NoError(t, err)
	assert.Equal(t, "daily_trend_20250301_20250401.csv", report.Filename)
	assert.Equal(t, []string{"date", "total_sales", "total_cost", "gross_profit", "gross_margin_pct", "item_count", "transaction_count"}, report.Headers)
	require.Len(t, report.Data, 1)
	assert.Len(t, report.Data[0], len(report.Headers))
	assert.Equal(t, "2025-03-01", report.Data[0][0])
}

func TestAssembler_ExportFilenames(t *testing.T) {
	params := ReportParams{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Year:      2025,
		Month:     3,
	}

	assert.Equal(t, "monthly_comparison_2025.csv", exportFilename(ReportTypeMonthlyComparison, params))
	assert.Equal(t, "target_achievement_2025.csv", exportFilename(ReportTypeTargetAchievement, params))
	assert.Equal(t, "monthly_report_2025-03.csv", exportFilename(ReportTypeMonthlyReport, params))
	assert.Equal(t, "budget_vs_actual_2025-03.csv", exportFilename(ReportTypeBudgetVsActual, params))
	assert.Equal(t, "hourly_sales_20250301_20250401.csv", exportFilename(ReportTypeHourlySales, params))
}

func TestAssembler_ProductRanking_RanksStartAtOne(t *testing.T) {
	a, m := newTestAssembler(nil)
	ctx := context.Background()
	productID := uuid.New()

	m.ledger.On("FindByDateRange", ctx, mock.Anything, mock.Anything).Return([]analytics.SaleRecord{
		saleOn(mar1, productID, 2, 6.00, 2.00),
	}, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		productID: {ID: productID, Name: "Flat White", CategoryName: "Coffee"},
	}, nil)

	report, err := a.AssembleDashboard(ctx, ReportTypeProductRanking, ReportParams{StartDate: mar1, EndDate: apr1})

	require.NoError(t, err)
	require.Len(t, report.Data, 1)
	row := report.Data[0].(ProductRankingRow)
	assert.Equal(t, 1, row.Rank)
	assert.Equal(t, "Flat White", row.ProductName)
	assert.InDelta(t, 12.0, row.TotalSales, 0.0001)
	assert.InDelta(t, 8.0, row.GrossProfit, 0.0001)
}

func TestAssembler_CategoryBreakdown_SharePercentagesSumSensibly(t *testing.T) {
	a, m := newTestAssembler(nil)
	ctx := context.Background()
	coffeeID := uuid.New()
	bakeryID := uuid.New()

	m.ledger.On("FindByDateRange", ctx, mock.Anything, mock.Anything).Return([]analytics.SaleRecord{
		saleOn(mar1, coffeeID, 3, 25.00, 10.00), // 75
		saleOn(mar1, bakeryID, 1, 25.00, 10.00), // 25
	}, nil)
	m.products.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]catalog.Product{
		coffeeID: {ID: coffeeID, Name: "Americano", CategoryName: "Coffee"},
		bakeryID: {ID: bakeryID, Name: "Scone", CategoryName: "Bakery"},
	}, nil)

	report, err := a.AssembleDashboard(ctx, ReportTypeCategoryBreakdown, ReportParams{StartDate: mar1, EndDate: apr1})

	require.NoError(t, err)
	require.Len(t, report.Data, 2)
	coffee := report.Data[0].(CategoryBreakdownRow)
	bakery := report.Data[1].(CategoryBreakdownRow)
	assert.InDelta(t, 75.0, coffee.SharePct, 0.0001)
	assert.InDelta(t, 25.0, bakery.SharePct, 0.0001)
}

func TestAssembler_BudgetVariance_DerivesVariancePerRow(t *testing.T) {
	source := &fakeVarianceSource{budgets: []planning.Budget{
		{
			Year: 2025, Month: 3, Category: "beans",
			PlannedAmount: decimal.NewFromInt(500),
			ActualAmount:  decimal.NewFromInt(620),
			Notes:         "seasonal blend",
		},
	}}
	a, _ := newTestAssembler(source)

	report, err := a.AssembleDashboard(context.Background(), ReportTypeBudgetVsActual, ReportParams{Year: 2025, Month: 3})

	require.NoError(t, err)
	require.Len(t, report.Data, 1)
	row := report.Data[0].(BudgetVarianceRow)
	assert.Equal(t, "beans", row.Category)
	assert.InDelta(t, 120.0, row.Variance, 0.0001)
	assert.Equal(t, "seasonal blend", row.Notes)
}

func TestAssembler_DashboardAndExportAgree(t *testing.T) {
	ctx := context.Background()

	service, m := newTestService()
	a := NewAssembler(service, &fakeVarianceSource{})

	m.ledger.On("FindByDateRange", ctx, mock.Anything, mock.Anything).Return([]analytics.SaleRecord{
		saleOn(mar1, uuid.New(), 2, 5.00, 2.00),
	}, nil)

	params := ReportParams{StartDate: mar1, EndDate: apr1}
	dashboard, err := a.AssembleDashboard(ctx, ReportTypeHourlySales, params)
	require.NoError(t, err)
	export, err := a.AssembleExport(ctx, ReportTypeHourlySales, params)
	require.NoError(t, err)

	require.Len(t, dashboard.Data, 24)
	require.Len(t, export.Data, 24)
	for i, raw := range dashboard.Data {
		row := raw.(HourlySalesRow)
		assert.Equal(t, row.Hour, export.Data[i][0])
		assert.Equal(t, row.TotalSales, export.Data[i][1])
		assert.Equal(t, row.ItemCount, export.Data[i][2])
	}
}
