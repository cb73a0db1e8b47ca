package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReportType enumerates every report the engine can produce.
type ReportType string

const (
	ReportTypeDailyTrend        ReportType = "daily_trend"
	ReportTypeMonthlyComparison ReportType = "monthly_comparison"
	ReportTypeProductRanking    ReportType = "product_ranking"
	ReportTypeCategoryBreakdown ReportType = "category_breakdown"
	ReportTypeHourlySales       ReportType = "hourly_sales"
	ReportTypeWeekdaySales      ReportType = "weekday_sales"
	ReportTypeTargetAchievement ReportType = "target_achievement"
	ReportTypeMonthlyReport     ReportType = "monthly_report"
	ReportTypeBudgetVsActual    ReportType = "budget_vs_actual"
)

// AllReportTypes lists every supported report type in presentation order.
func AllReportTypes() []ReportType {
	return []ReportType{
		ReportTypeDailyTrend,
		ReportTypeMonthlyComparison,
		ReportTypeProductRanking,
		ReportTypeCategoryBreakdown,
		ReportTypeHourlySales,
		ReportTypeWeekdaySales,
		ReportTypeTargetAchievement,
		ReportTypeMonthlyReport,
		ReportTypeBudgetVsActual,
	}
}

// ReportParams carries the resolved parameters of one report request.
// Which fields matter depends on the report type; the dispatcher validates
// that before the assembler runs.
type ReportParams struct {
	StartDate time.Time
	EndDate   time.Time
	Year      int
	Month     int
	TopN      int
}

// DashboardReport is the fixed envelope every dashboard payload uses.
type DashboardReport struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Data  []any  `json:"data"`
}

// ExportReport is the flat tabular shape handed to file renderers.
type ExportReport struct {
	Filename string   `json:"filename"`
	Headers  []string `json:"headers"`
	Data     [][]any  `json:"data"`
}

// BudgetVarianceSource supplies planned-vs-actual rows for one month.
// Satisfied by the planning budget service.
type BudgetVarianceSource interface {
	VarianceReport(ctx context.Context, year, month int) ([]planning.Budget, error)
}

// Assembler turns engine rollups into the two presentation shapes: the
// dashboard envelope and the flat export table. It owns the decimal to
// float64 boundary; nothing above it sees decimals.
type Assembler struct {
	engine  *AggregationService
	budgets BudgetVarianceSource
}

// NewAssembler creates a new Assembler.
func NewAssembler(engine *AggregationService, budgets BudgetVarianceSource) *Assembler {
	return &Assembler{engine: engine, budgets: budgets}
}

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Dashboard row shapes. One struct per report type so payloads stay stable
// regardless of which fields a rollup happens to populate.

type DailyTrendRow struct {
	Date             string  `json:"date"`
	TotalSales       float64 `json:"total_sales"`
	TotalCost        float64 `json:"total_cost"`
	GrossProfit      float64 `json:"gross_profit"`
	GrossMarginPct   float64 `json:"gross_margin_pct"`
	ItemCount        int64   `json:"item_count"`
	TransactionCount int64   `json:"transaction_count"`
}

type MonthlyComparisonRow struct {
	Month       string  `json:"month"`
	TotalSales  float64 `json:"total_sales"`
	GrossProfit float64 `json:"gross_profit"`
}

type ProductRankingRow struct {
	Rank         int     `json:"rank"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CategoryName string  `json:"category_name,omitempty"`
	QuantitySold int64   `json:"quantity_sold"`
	TotalSales   float64 `json:"total_sales"`
	GrossProfit  float64 `json:"gross_profit"`
}

type CategoryBreakdownRow struct {
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
	SharePct   float64 `json:"share_pct"`
}

type HourlySalesRow struct {
	Hour       int     `json:"hour"`
	TotalSales float64 `json:"total_sales"`
	ItemCount  int64   `json:"item_count"`
}

type WeekdaySalesRow struct {
	Weekday      int     `json:"weekday"`
	Name         string  `json:"name"`
	TotalSales   float64 `json:"total_sales"`
	AverageSales float64 `json:"average_sales"`
	DaysWithData int64   `json:"days_with_data"`
}

type TargetAchievementRow struct {
	Month           int     `json:"month"`
	TargetAmount    float64 `json:"target_amount"`
	ActualAmount    float64 `json:"actual_amount"`
	AchievementRate int64   `json:"achievement_rate"`
}

type MonthlyReportRow struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	TotalSales      float64 `json:"total_sales"`
	TotalCost       float64 `json:"total_cost"`
	GrossProfit     float64 `json:"gross_profit"`
	GrossMarginPct  float64 `json:"gross_margin_pct"`
	TotalExpenses   float64 `json:"total_expenses"`
	NetProfit       float64 `json:"net_profit"`
	TargetAmount    float64 `json:"target_amount"`
	AchievementRate int64   `json:"achievement_rate"`
}

type BudgetVarianceRow struct {
	Category      string  `json:"category"`
	PlannedAmount float64 `json:"planned_amount"`
	ActualAmount  float64 `json:"actual_amount"`
	Variance      float64 `json:"variance"`
	Notes         string  `json:"notes,omitempty"`
}

var reportTitles = map[ReportType]string{
	ReportTypeDailyTrend:        "Daily Sales Trend",
	ReportTypeMonthlyComparison: "Monthly Sales Comparison",
	ReportTypeProductRanking:    "Product Sales Ranking",
	ReportTypeCategoryBreakdown: "Category Sales Breakdown",
	ReportTypeHourlySales:       "Hourly Sales",
	ReportTypeWeekdaySales:      "Weekday Sales",
	ReportTypeTargetAchievement: "Sales Target Achievement",
	ReportTypeMonthlyReport:     "Monthly Financial Report",
	ReportTypeBudgetVsActual:    "Budget vs Actual",
}

// AssembleDashboard produces the dashboard envelope for one report type.
func (a *Assembler) AssembleDashboard(ctx context.Context, reportType ReportType, params ReportParams) (*DashboardReport, error) {
	rows, err := a.rows(ctx, reportType, params)
	if err != nil {
		return nil, err
	}
	return &DashboardReport{
		Type:  string(reportType),
		Title: reportTitles[reportType],
		Data:  rows,
	}, nil
}

// AssembleExport produces the flat table shape for one report type.
func (a *Assembler) AssembleExport(ctx context.Context, reportType ReportType, params ReportParams) (*ExportReport, error) {
	rows, err := a.rows(ctx, reportType, params)
	if err != nil {
		return nil, err
	}
	headers, flatten := exportLayouts[reportType].headers, exportLayouts[reportType].flatten
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, flatten(row))
	}
	return &ExportReport{
		Filename: exportFilename(reportType, params),
		Headers:  headers,
		Data:     data,
	}, nil
}

// rows computes the typed row slice for a report type. Both presentation
// shapes are built from the same rows, so dashboard and export of the same
// request always agree.
func (a *Assembler) rows(ctx context.Context, reportType ReportType, params ReportParams) ([]any, error) {
	switch reportType {
	case ReportTypeDailyTrend:
		return a.dailyTrendRows(ctx, params)
	case ReportTypeMonthlyComparison:
		return a.monthlyComparisonRows(ctx, params)
	case ReportTypeProductRanking:
		return a.productRankingRows(ctx, params)
	case ReportTypeCategoryBreakdown:
		return a.categoryBreakdownRows(ctx, params)
	case ReportTypeHourlySales:
		return a.hourlySalesRows(ctx, params)
	case ReportTypeWeekdaySales:
		return a.weekdaySalesRows(ctx, params)
	case ReportTypeTargetAchievement:
		return a.targetAchievementRows(ctx, params)
	case ReportTypeMonthlyReport:
		return a.monthlyReportRows(ctx, params)
	case ReportTypeBudgetVsActual:
		return a.budgetVarianceRows(ctx, params)
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("unknown report type: %s", reportType))
	}
}

func (a *Assembler) dailyTrendRows(ctx context.Context, params ReportParams) ([]any, error) {
	trend, err := a.engine.DailyTrend(ctx, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(trend))
	for _, day := range trend {
		rows = append(rows, DailyTrendRow{
			Date:             analytics.DateKey(day.Date),
			TotalSales:       toFloat64(day.TotalSales),
			TotalCost:        toFloat64(day.TotalCost),
			GrossProfit:      toFloat64(day.GrossProfit),
			GrossMarginPct:   toFloat64(day.GrossMarginPct),
			ItemCount:        day.ItemCount,
			TransactionCount: day.TransactionCount,
		})
	}
	return rows, nil
}

func (a *Assembler) monthlyComparisonRows(ctx context.Context, params ReportParams) ([]any, error) {
	months, err := a.engine.MonthlyComparison(ctx, params.Year)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, MonthlyComparisonRow{
			Month:       m.Month,
			TotalSales:  toFloat64(m.TotalSales),
			GrossProfit: toFloat64(m.GrossProfit),
		})
	}
	return rows, nil
}

func (a *Assembler) productRankingRows(ctx context.Context, params ReportParams) ([]any, error) {
	products, err := a.engine.ProductRanking(ctx, params.StartDate, params.EndDate, params.TopN)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(products))
	for i, p := range products {
		rows = append(rows, ProductRankingRow{
			Rank:         i + 1,
			ProductID:    p.ProductID.String(),
			ProductName:  p.ProductName,
			CategoryName: p.CategoryName,
			QuantitySold: p.QuantitySold,
			TotalSales:   toFloat64(p.TotalSales),
			GrossProfit:  toFloat64(p.TotalSales.Sub(p.TotalCost)),
		})
	}
	return rows, nil
}

func (a *Assembler) categoryBreakdownRows(ctx context.Context, params ReportParams) ([]any, error) {
	categories, err := a.engine.CategoryBreakdown(ctx, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	grand := decimal.Zero
	for _, c := range categories {
		grand = grand.Add(c.TotalSales)
	}
	rows := make([]any, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, CategoryBreakdownRow{
			Category:   c.Category,
			TotalSales: toFloat64(c.TotalSales),
			SharePct:   toFloat64(analytics.Percentage(c.TotalSales, grand)),
		})
	}
	return rows, nil
}

func (a *Assembler) hourlySalesRows(ctx context.Context, params ReportParams) ([]any, error) {
	slots, err := a.engine.HourlySales(ctx, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, HourlySalesRow{
			Hour:       slot.Hour,
			TotalSales: toFloat64(slot.TotalSales),
			ItemCount:  slot.ItemCount,
		})
	}
	return rows, nil
}

func (a *Assembler) weekdaySalesRows(ctx context.Context, params ReportParams) ([]any, error) {
	slots, err := a.engine.WeekdaySales(ctx, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, WeekdaySalesRow{
			Weekday:      slot.Weekday,
			Name:         slot.Name,
			TotalSales:   toFloat64(slot.TotalSales),
			AverageSales: toFloat64(slot.AverageSales),
			DaysWithData: slot.DaysWithData,
		})
	}
	return rows, nil
}

func (a *Assembler) targetAchievementRows(ctx context.Context, params ReportParams) ([]any, error) {
	entries, err := a.engine.TargetAchievement(ctx, params.Year)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, TargetAchievementRow{
			Month:           e.Month,
			TargetAmount:    toFloat64(e.TargetAmount),
			ActualAmount:    toFloat64(e.ActualAmount),
			AchievementRate: e.AchievementRate,
		})
	}
	return rows, nil
}

func (a *Assembler) monthlyReportRows(ctx context.Context, params ReportParams) ([]any, error) {
	report, err := a.engine.MonthlyReport(ctx, params.Year, params.Month)
	if err != nil {
		return nil, err
	}
	return []any{MonthlyReportRow{
		Year:            report.Year,
		Month:           report.Month,
		TotalSales:      toFloat64(report.TotalSales),
		TotalCost:       toFloat64(report.TotalCost),
		GrossProfit:     toFloat64(report.GrossProfit),
		GrossMarginPct:  toFloat64(report.GrossMarginPct),
		TotalExpenses:   toFloat64(report.TotalExpenses),
		NetProfit:       toFloat64(report.NetProfit),
		TargetAmount:    toFloat64(report.TargetAmount),
		AchievementRate: report.AchievementRate,
	}}, nil
}

func (a *Assembler) budgetVarianceRows(ctx context.Context, params ReportParams) ([]any, error) {
	budgets, err := a.budgets.VarianceReport(ctx, params.Year, params.Month)
	if err != nil {
		return nil, err
	}
	rows := make([]any, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, BudgetVarianceRow{
			Category:      b.Category,
			PlannedAmount: toFloat64(b.PlannedAmount),
			ActualAmount:  toFloat64(b.ActualAmount),
			Variance:      toFloat64(b.Variance()),
			Notes:         b.Notes,
		})
	}
	return rows, nil
}
