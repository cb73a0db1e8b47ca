package persistence

import (
	"context"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDailySummaryRepository implements analytics.DailySummaryRepository
// over the precomputed daily_summaries table.
type GormDailySummaryRepository struct {
	db *gorm.DB
}

// NewGormDailySummaryRepository creates a new GormDailySummaryRepository
func NewGormDailySummaryRepository(db *gorm.DB) *GormDailySummaryRepository {
	return &GormDailySummaryRepository{db: db}
}

// MonthlyTotals returns per-month sales and gross profit for the year,
// grouped in SQL, ordered by month ascending. Months without summary rows
// are absent.
func (r *GormDailySummaryRepository) MonthlyTotals(ctx context.Context, year int) ([]analytics.MonthlySales, error) {
	type monthlyResult struct {
		Month       string
		TotalSales  decimal.Decimal
		GrossProfit decimal.Decimal
	}

	var results []monthlyResult
	err := r.db.WithContext(ctx).
		Table("daily_summaries").
		Select(`
			to_char(date, 'YYYY-MM') as month,
			COALESCE(SUM(total_sales), 0) as total_sales,
			COALESCE(SUM(gross_profit), 0) as gross_profit
		`).
		Where("date >= make_date(?, 1, 1) AND date < make_date(?, 1, 1)", year, year+1).
		Group("to_char(date, 'YYYY-MM')").
		Order("month ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	months := make([]analytics.MonthlySales, len(results))
	for i, res := range results {
		months[i] = analytics.MonthlySales{
			Month:       res.Month,
			TotalSales:  res.TotalSales,
			GrossProfit: res.GrossProfit,
		}
	}
	return months, nil
}

// Upsert writes one summary row per aggregate, keyed by date. Re-upserting
// a date overwrites its row, so refreshes are idempotent.
func (r *GormDailySummaryRepository) Upsert(ctx context.Context, aggregates []analytics.DailyAggregate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range aggregates {
			var row models.DailySummaryModel
			row.FromAggregate(a)
			err := tx.Where("date = ?", row.Date).
				Assign(map[string]any{
					"total_sales":       row.TotalSales,
					"total_cost":        row.TotalCost,
					"gross_profit":      row.GrossProfit,
					"item_count":        row.ItemCount,
					"transaction_count": row.TransactionCount,
				}).
				FirstOrCreate(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
