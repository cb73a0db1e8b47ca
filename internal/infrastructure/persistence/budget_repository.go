package persistence

import (
	"context"

	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBudgetRepository implements planning.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// Upsert writes planned_amount and notes for (year, month, category).
// A fresh row starts with actual_amount 0; an existing actual survives.
func (r *GormBudgetRepository) Upsert(ctx context.Context, budget *planning.Budget) error {
	row := models.BudgetModel{
		ID:            uuid.New(),
		Year:          budget.Year,
		Month:         budget.Month,
		Category:      budget.Category,
		PlannedAmount: budget.PlannedAmount,
		ActualAmount:  decimal.Zero,
	}
	return r.db.WithContext(ctx).
		Where("year = ? AND month = ? AND category = ?", budget.Year, budget.Month, budget.Category).
		Assign(map[string]any{
			"planned_amount": budget.PlannedAmount,
			"notes":          budget.Notes,
		}).
		FirstOrCreate(&row).Error
}

// FindByMonth returns all budget rows for (year, month), ordered by category.
func (r *GormBudgetRepository) FindByMonth(ctx context.Context, year, month int) ([]planning.Budget, error) {
	var rows []models.BudgetModel
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("category ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	budgets := make([]planning.Budget, len(rows))
	for i, row := range rows {
		budgets[i] = row.ToDomain()
	}
	return budgets, nil
}

// UpdateActual sets actual_amount for an existing key. Returns
// shared.ErrNotFound when no row matches.
func (r *GormBudgetRepository) UpdateActual(ctx context.Context, year, month int, category string, actual decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.BudgetModel{}).
		Where("year = ? AND month = ? AND category = ?", year, month, category).
		Update("actual_amount", actual)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
