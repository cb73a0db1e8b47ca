package analytics

import (
	"github.com/shopspring/decimal"
)

// Sentinel labels for rows whose catalog lookup comes back empty.
const (
	UnknownProductName    = "unknown"
	UncategorizedCategory = "uncategorized"
)

// MonthlySales is one month's rollup for the monthly comparison report.
type MonthlySales struct {
	Month       string          `json:"month"` // "YYYY-MM"
	TotalSales  decimal.Decimal `json:"total_sales"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
}

// CategorySales is one category's share of revenue over a date range.
type CategorySales struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// HourlySlot is one hour-of-day bucket. Hourly rollups always carry exactly
// 24 slots, zero-filled for hours without matching records.
type HourlySlot struct {
	Hour       int             `json:"hour"` // 0-23
	TotalSales decimal.Decimal `json:"total_sales"`
	ItemCount  int64           `json:"item_count"`
}

// WeekdaySlot is one weekday bucket (Sunday-first). Weekday rollups always
// carry exactly 7 slots; AverageSales is total over distinct days with data,
// 0 when no day in the bucket has data.
type WeekdaySlot struct {
	Weekday      int             `json:"weekday"` // 0=Sunday .. 6=Saturday
	Name         string          `json:"name"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	AverageSales decimal.Decimal `json:"average_sales"`
	DaysWithData int64           `json:"days_with_data"`
}

// TargetAchievement is one month of the target achievement report. The report
// always carries 12 entries (Jan-Dec); months without a configured target have
// TargetAmount 0 and AchievementRate 0.
type TargetAchievement struct {
	Month           int             `json:"month"` // 1-12
	TargetAmount    decimal.Decimal `json:"target_amount"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	AchievementRate int64           `json:"achievement_rate"` // round(actual/target*100)
}

// MonthlyReport is the combined financial report for one calendar month.
type MonthlyReport struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	GrossMarginPct  decimal.Decimal `json:"gross_margin_pct"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	AchievementRate int64           `json:"achievement_rate"`
}

// Percentage computes part/whole*100 rounded to the nearest whole percent,
// and 0 when the denominator is 0. Every percentage in the engine goes
// through here so no two reports disagree on rounding.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(0)
}
