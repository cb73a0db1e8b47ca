package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseLedger using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// TotalForRange sums expense amounts with date in [start, end).
// An empty range sums to 0.
func (r *GormExpenseRepository) TotalForRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	type totalResult struct {
		Total decimal.Decimal
	}

	var result totalResult
	err := r.db.WithContext(ctx).
		Table("expense_records").
		Select("COALESCE(SUM(amount), 0) as total").
		Where("date >= ? AND date < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}
