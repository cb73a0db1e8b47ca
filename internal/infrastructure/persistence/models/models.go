package models

import (
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecordModel is the persistence model for one sale ledger line.
// Rows are written by the point-of-sale import; this side only reads them.
type SaleRecordModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	Date             time.Time       `gorm:"type:date;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantitySold     int64           `gorm:"not null"`
	UnitSellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RecordedAt       time.Time       `gorm:"not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleRecordModel) TableName() string {
	return "sale_records"
}

// ToDomain converts the persistence model to a domain SaleRecord.
func (m *SaleRecordModel) ToDomain() analytics.SaleRecord {
	return analytics.SaleRecord{
		Date:             m.Date,
		ProductID:        m.ProductID,
		QuantitySold:     m.QuantitySold,
		UnitSellingPrice: m.UnitSellingPrice,
		UnitCostPrice:    m.UnitCostPrice,
		RecordedAt:       m.RecordedAt,
	}
}

// DailySummaryModel is the precomputed per-day aggregate row. One row per
// date; refreshes upsert in place.
type DailySummaryModel struct {
	Date             time.Time       `gorm:"type:date;primary_key"`
	TotalSales       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GrossProfit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ItemCount        int64           `gorm:"not null"`
	TransactionCount int64           `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DailySummaryModel) TableName() string {
	return "daily_summaries"
}

// FromAggregate populates the summary row from a computed daily aggregate.
func (m *DailySummaryModel) FromAggregate(a analytics.DailyAggregate) {
	m.Date = a.Date
	m.TotalSales = a.TotalSales
	m.TotalCost = a.TotalCost
	m.GrossProfit = a.GrossProfit
	m.ItemCount = a.ItemCount
	m.TransactionCount = a.TransactionCount
}

// BudgetModel is the persistence model for one budget row, unique per
// (year, month, category).
type BudgetModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	Year          int             `gorm:"not null;uniqueIndex:idx_budget_key,priority:1"`
	Month         int             `gorm:"not null;uniqueIndex:idx_budget_key,priority:2"`
	Category      string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_budget_key,priority:3"`
	PlannedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ActualAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes         string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget.
func (m *BudgetModel) ToDomain() planning.Budget {
	return planning.Budget{
		Year:          m.Year,
		Month:         m.Month,
		Category:      m.Category,
		PlannedAmount: m.PlannedAmount,
		ActualAmount:  m.ActualAmount,
		Notes:         m.Notes,
	}
}

// SalesTargetModel is the persistence model for the monthly sales target,
// unique per (year, month).
type SalesTargetModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	Year         int             `gorm:"not null;uniqueIndex:idx_target_key,priority:1"`
	Month        int             `gorm:"not null;uniqueIndex:idx_target_key,priority:2"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesTargetModel) TableName() string {
	return "sales_targets"
}

// ToDomain converts the persistence model to a domain SalesTarget.
func (m *SalesTargetModel) ToDomain() planning.SalesTarget {
	return planning.SalesTarget{
		Year:         m.Year,
		Month:        m.Month,
		TargetAmount: m.TargetAmount,
	}
}

// ExpenseRecordModel is one expense ledger line. Written by the accounting
// side; the reporting engine only sums it.
type ExpenseRecordModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Date      time.Time       `gorm:"type:date;not null;index"`
	Category  string          `gorm:"type:varchar(100);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Memo      string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenseRecordModel) TableName() string {
	return "expense_records"
}

// ProductModel is the catalog row the labeler joins against.
type ProductModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name       string     `gorm:"type:varchar(200);not null"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// CategoryModel is the product category row.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}
