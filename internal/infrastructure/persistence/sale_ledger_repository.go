package persistence

import (
	"context"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleLedgerRepository implements analytics.SaleLedgerRepository using GORM
type GormSaleLedgerRepository struct {
	db *gorm.DB
}

// NewGormSaleLedgerRepository creates a new GormSaleLedgerRepository
func NewGormSaleLedgerRepository(db *gorm.DB) *GormSaleLedgerRepository {
	return &GormSaleLedgerRepository{db: db}
}

// FindByDateRange returns sale records with date in [start, end), ordered by
// date ascending and insertion order within a date.
func (r *GormSaleLedgerRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]analytics.SaleRecord, error) {
	var rows []models.SaleRecordModel
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC, recorded_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]analytics.SaleRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ToDomain()
	}
	return records, nil
}
