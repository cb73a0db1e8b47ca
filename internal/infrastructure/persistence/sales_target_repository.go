package persistence

import (
	"context"
	"errors"

	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesTargetRepository implements planning.SalesTargetRepository using GORM
type GormSalesTargetRepository struct {
	db *gorm.DB
}

// NewGormSalesTargetRepository creates a new GormSalesTargetRepository
func NewGormSalesTargetRepository(db *gorm.DB) *GormSalesTargetRepository {
	return &GormSalesTargetRepository{db: db}
}

// Upsert writes the target for (year, month), replacing any existing value.
func (r *GormSalesTargetRepository) Upsert(ctx context.Context, target *planning.SalesTarget) error {
	row := models.SalesTargetModel{
		ID:           uuid.New(),
		Year:         target.Year,
		Month:        target.Month,
		TargetAmount: target.TargetAmount,
	}
	return r.db.WithContext(ctx).
		Where("year = ? AND month = ?", target.Year, target.Month).
		Assign(map[string]any{"target_amount": target.TargetAmount}).
		FirstOrCreate(&row).Error
}

// FindByYear returns the targets configured for a year, ordered by month.
func (r *GormSalesTargetRepository) FindByYear(ctx context.Context, year int) ([]planning.SalesTarget, error) {
	var rows []models.SalesTargetModel
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	targets := make([]planning.SalesTarget, len(rows))
	for i, row := range rows {
		targets[i] = row.ToDomain()
	}
	return targets, nil
}

// FindByMonth returns the target for (year, month), or shared.ErrNotFound.
func (r *GormSalesTargetRepository) FindByMonth(ctx context.Context, year, month int) (*planning.SalesTarget, error) {
	var row models.SalesTargetModel
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	target := row.ToDomain()
	return &target, nil
}
