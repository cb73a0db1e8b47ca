package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is one per-product daily entry in the sale ledger. Records are
// immutable once written; re-entering the same date+product supersedes the
// previous row (upsert semantics at the ledger, never partial mutation).
type SaleRecord struct {
	Date             time.Time       `json:"date"`
	ProductID        uuid.UUID       `json:"product_id"`
	QuantitySold     int64           `json:"quantity_sold"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price"`
	UnitCostPrice    decimal.Decimal `json:"unit_cost_price"`
	RecordedAt       time.Time       `json:"recorded_at"`
}

// Revenue returns quantity_sold * unit_selling_price.
func (r SaleRecord) Revenue() decimal.Decimal {
	return r.UnitSellingPrice.Mul(decimal.NewFromInt(r.QuantitySold))
}

// Cost returns quantity_sold * unit_cost_price.
func (r SaleRecord) Cost() decimal.Decimal {
	return r.UnitCostPrice.Mul(decimal.NewFromInt(r.QuantitySold))
}

// DailyAggregate is the per-day rollup of the sale ledger. It is derived data,
// recomputable from SaleRecord at any time, and never independently authoritative.
type DailyAggregate struct {
	Date             time.Time       `json:"date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`
	GrossMarginPct   decimal.Decimal `json:"gross_margin_pct"`
	ItemCount        int64           `json:"item_count"`
	TransactionCount int64           `json:"transaction_count"`
}

// ProductAggregate is the per-product rollup over a date range.
type ProductAggregate struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// SaleLedgerRepository is the read-only accessor over raw sale records.
// Each engine operation issues one batched range read, not one per bucket.
type SaleLedgerRepository interface {
	// FindByDateRange returns records with start <= date < end, ordered by
	// date ascending and, within a date, by insertion order.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]SaleRecord, error)
}

// DailySummaryRepository is the precomputed per-day aggregate store. It is the
// PRIMARY source for monthly comparison; reads that fail make the engine fall
// back to recomputing from the sale ledger.
type DailySummaryRepository interface {
	// MonthlyTotals groups the stored daily summaries of a year by calendar
	// month. Months without data are omitted.
	MonthlyTotals(ctx context.Context, year int) ([]MonthlySales, error)

	// Upsert writes one row per date, replacing any existing row for that date.
	Upsert(ctx context.Context, aggregates []DailyAggregate) error
}
