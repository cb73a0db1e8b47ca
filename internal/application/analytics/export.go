package analytics

import "fmt"

// exportLayout pairs the column headers of an export table with the
// function that flattens one dashboard row into a cell slice. Keeping the
// two together means a header change cannot drift from its row shape.
type exportLayout struct {
	headers []string
	flatten func(row any) []any
}

var exportLayouts = map[ReportType]exportLayout{
	ReportTypeDailyTrend: {
		headers: []string{"date", "total_sales", "total_cost", "gross_profit", "gross_margin_pct", "item_count", "transaction_count"},
		flatten: func(row any) []any {
			r := row.(DailyTrendRow)
			return []any{r.Date, r.TotalSales, r.TotalCost, r.GrossProfit, r.GrossMarginPct, r.ItemCount, r.TransactionCount}
		},
	},
	ReportTypeMonthlyComparison: {
		headers: []string{"month", "total_sales", "gross_profit"},
		flatten: func(row any) []any {
			r := row.(MonthlyComparisonRow)
			return []any{r.Month, r.TotalSales, r.GrossProfit}
		},
	},
	ReportTypeProductRanking: {
		headers: []string{"rank", "product_name", "category", "quantity_sold", "total_sales", "gross_profit"},
		flatten: func(row any) []any {
			r := row.(ProductRankingRow)
			return []any{r.Rank, r.ProductName, r.CategoryName, r.QuantitySold, r.TotalSales, r.GrossProfit}
		},
	},
	ReportTypeCategoryBreakdown: {
		headers: []string{"category", "total_sales", "share_pct"},
		flatten: func(row any) []any {
			r := row.(CategoryBreakdownRow)
			return []any{r.Category, r.TotalSales, r.SharePct}
		},
	},
	ReportTypeHourlySales: {
		headers: []string{"hour", "total_sales", "item_count"},
		flatten: func(row any) []any {
			r := row.(HourlySalesRow)
			return []any{r.Hour, r.TotalSales, r.ItemCount}
		},
	},
	ReportTypeWeekdaySales: {
		headers: []string{"weekday", "name", "total_sales", "average_sales", "days_with_data"},
		flatten: func(row any) []any {
			r := row.(WeekdaySalesRow)
			return []any{r.Weekday, r.Name, r.TotalSales, r.AverageSales, r.DaysWithData}
		},
	},
	ReportTypeTargetAchievement: {
		headers: []string{"month", "target_amount", "actual_amount", "achievement_rate"},
		flatten: func(row any) []any {
			r := row.(TargetAchievementRow)
			return []any{r.Month, r.TargetAmount, r.ActualAmount, r.AchievementRate}
		},
	},
	ReportTypeMonthlyReport: {
		headers: []string{"year", "month", "total_sales", "total_cost", "gross_profit", "gross_margin_pct", "total_expenses", "net_profit", "target_amount", "achievement_rate"},
		flatten: func(row any) []any {
			r := row.(MonthlyReportRow)
			return []any{r.Year, r.Month, r.TotalSales, r.TotalCost, r.GrossProfit, r.GrossMarginPct, r.TotalExpenses, r.NetProfit, r.TargetAmount, r.AchievementRate}
		},
	},
	ReportTypeBudgetVsActual: {
		headers: []string{"category", "planned_amount", "actual_amount", "variance", "notes"},
		flatten: func(row any) []any {
			r := row.(BudgetVarianceRow)
			return []any{r.Category, r.PlannedAmount, r.ActualAmount, r.Variance, r.Notes}
		},
	},
}

// exportFilename derives a stable file name from the report type and the
// parameters that scope it.
func exportFilename(reportType ReportType, params ReportParams) string {
	switch reportType {
	case ReportTypeMonthlyComparison, ReportTypeTargetAchievement:
		return fmt.Sprintf("%s_%04d.csv", reportType, params.Year)
	case ReportTypeMonthlyReport, ReportTypeBudgetVsActual:
		return fmt.Sprintf("%s_%04d-%02d.csv", reportType, params.Year, params.Month)
	default:
		return fmt.Sprintf("%s_%s_%s.csv",
			reportType,
			params.StartDate.Format("20060102"),
			params.EndDate.Format("20060102"),
		)
	}
}
