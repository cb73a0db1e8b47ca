package planning

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Budget is the planned-vs-actual amount for one (year, month, category).
// The key is unique: re-upserting the same key overwrites, never duplicates.
type Budget struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	Notes         string          `json:"notes,omitempty"`
}

// Variance returns actual_amount - planned_amount.
func (b *Budget) Variance() decimal.Decimal {
	return b.ActualAmount.Sub(b.PlannedAmount)
}

// Validate checks the key fields required for an upsert.
func (b *Budget) Validate() error {
	if b.Year < 2000 || b.Year > 2200 {
		return shared.NewDomainError("VALIDATION_ERROR", "budget year out of range")
	}
	if b.Month < 1 || b.Month > 12 {
		return shared.NewDomainError("VALIDATION_ERROR", "budget month must be 1-12")
	}
	if b.Category == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "budget category is required")
	}
	if b.PlannedAmount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "planned amount cannot be negative")
	}
	return nil
}

// BudgetRepository persists budgets keyed by (year, month, category).
type BudgetRepository interface {
	// Upsert writes planned_amount and notes for the key, creating the row
	// when absent. An existing actual_amount survives the upsert; only
	// UpdateActual touches it. Last write wins on the key.
	Upsert(ctx context.Context, budget *Budget) error

	// FindByMonth returns all budget rows for (year, month), ordered by category.
	FindByMonth(ctx context.Context, year, month int) ([]Budget, error)

	// UpdateActual sets actual_amount for an existing key. Returns
	// shared.ErrNotFound when no row exists for the key.
	UpdateActual(ctx context.Context, year, month int, category string, actual decimal.Decimal) error
}
