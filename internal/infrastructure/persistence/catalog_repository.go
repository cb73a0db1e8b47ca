package persistence

import (
	"context"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements catalog.ProductLookup using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindByIDs resolves products to their catalog labels in one query.
// IDs without a catalog row are absent from the result.
func (r *GormCatalogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]catalog.Product{}, nil
	}

	type productResult struct {
		ID           uuid.UUID
		Name         string
		CategoryID   *uuid.UUID
		CategoryName string
	}

	var results []productResult
	err := r.db.WithContext(ctx).
		Table("products p").
		Select(`
			p.id,
			p.name,
			p.category_id,
			COALESCE(c.name, '') as category_name
		`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.id IN ?", ids).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	products := make(map[uuid.UUID]catalog.Product, len(results))
	for _, res := range results {
		products[res.ID] = catalog.Product{
			ID:           res.ID,
			Name:         res.Name,
			CategoryID:   res.CategoryID,
			CategoryName: res.CategoryName,
		}
	}
	return products, nil
}
