package planning

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesTarget is the revenue target for one (year, month). Singleton per key.
type SalesTarget struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

// Validate checks the key fields required for an upsert.
func (t *SalesTarget) Validate() error {
	if t.Year < 2000 || t.Year > 2200 {
		return shared.NewDomainError("VALIDATION_ERROR", "target year out of range")
	}
	if t.Month < 1 || t.Month > 12 {
		return shared.NewDomainError("VALIDATION_ERROR", "target month must be 1-12")
	}
	if t.TargetAmount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "target amount cannot be negative")
	}
	return nil
}

// SalesTargetRepository persists sales targets keyed by (year, month).
type SalesTargetRepository interface {
	// Upsert writes the target, replacing any row with the same key.
	Upsert(ctx context.Context, target *SalesTarget) error

	// FindByYear returns all targets configured for a year, ordered by month.
	// Months without a target are simply absent.
	FindByYear(ctx context.Context, year int) ([]SalesTarget, error)

	// FindByMonth returns the target for (year, month), or shared.ErrNotFound.
	FindByMonth(ctx context.Context, year, month int) (*SalesTarget, error)
}
