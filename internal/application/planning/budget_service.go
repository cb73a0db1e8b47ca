package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cafeops/backend/internal/domain/analytics"
	"github.com/cafeops/backend/internal/domain/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetInput is the write shape for one budget row. Amounts arrive as
// floats at the boundary and are converted to decimals before anything
// arithmetic happens.
type BudgetInput struct {
	Year          int     `json:"year" validate:"required,gte=2000,lte=2200"`
	Month         int     `json:"month" validate:"required,gte=1,lte=12"`
	Category      string  `json:"category" validate:"required"`
	PlannedAmount float64 `json:"planned_amount" validate:"gte=0"`
	Notes         string  `json:"notes"`
}

// BudgetItemResult reports the outcome of one item in a bulk upsert.
type BudgetItemResult struct {
	Index  int              `json:"index"`
	Budget *planning.Budget `json:"budget,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// CategorySalesSource supplies per-category sales totals; the aggregation
// engine satisfies it.
type CategorySalesSource interface {
	CategoryBreakdown(ctx context.Context, start, end time.Time) ([]analytics.CategorySales, error)
}

// BudgetService owns writes to the budget and target stores and the
// variance view over them.
type BudgetService struct {
	budgets  planning.BudgetRepository
	targets  planning.SalesTargetRepository
	sales    CategorySalesSource
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(
	budgets planning.BudgetRepository,
	targets planning.SalesTargetRepository,
	sales CategorySalesSource,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgets:  budgets,
		targets:  targets,
		sales:    sales,
		validate: validator.New(),
		logger:   logger,
	}
}

// UpsertBudget writes one budget row keyed by (year, month, category).
// Calling it twice with the same key overwrites, never duplicates.
func (s *BudgetService) UpsertBudget(ctx context.Context, input BudgetInput) (*planning.Budget, error) {
	budget, err := s.toBudget(input)
	if err != nil {
		return nil, err
	}
	if err := s.budgets.Upsert(ctx, budget); err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	return budget, nil
}

// BulkUpsertBudgets applies each item independently. A malformed item fails
// that item only; previously applied items stay applied. When any item
// fails, the per-item results are returned together with a partial-write
// error so the caller sees exactly which items went through.
func (s *BudgetService) BulkUpsertBudgets(ctx context.Context, inputs []BudgetInput) ([]BudgetItemResult, error) {
	results := make([]BudgetItemResult, len(inputs))
	failed := 0
	for i, input := range inputs {
		results[i].Index = i
		budget, err := s.UpsertBudget(ctx, input)
		if err != nil {
			results[i].Error = err.Error()
			failed++
			continue
		}
		results[i].Budget = budget
	}
	if failed > 0 {
		s.logger.Warn("bulk budget upsert partially failed",
			zap.Int("total", len(inputs)),
			zap.Int("failed", failed),
		)
		return results, fmt.Errorf("%d of %d budget items failed: %w", failed, len(inputs), shared.ErrPartialWrite)
	}
	return results, nil
}

// VarianceReport returns the month's budget rows ordered by category; the
// assembler derives variance = actual - planned per row.
func (s *BudgetService) VarianceReport(ctx context.Context, year, month int) ([]planning.Budget, error) {
	budgets, err := s.budgets.FindByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// RefreshActuals recomputes actual_amount for every budget row of the month
// from the category sales breakdown. Categories without a budget row are
// skipped; refreshing never creates rows.
func (s *BudgetService) RefreshActuals(ctx context.Context, year, month int) (int, error) {
	start, end := analytics.MonthRange(year, month)
	categories, err := s.sales.CategoryBreakdown(ctx, start, end)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, c := range categories {
		err := s.budgets.UpdateActual(ctx, year, month, c.Category, c.TotalSales)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return updated, fmt.Errorf("refresh actual for %q: %w", c.Category, err)
		}
		updated++
	}

	s.logger.Info("budget actuals refreshed",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("updated", updated),
	)
	return updated, nil
}

// UpsertTarget writes the sales target for (year, month), replacing any
// existing value.
func (s *BudgetService) UpsertTarget(ctx context.Context, year, month int, amount float64) (*planning.SalesTarget, error) {
	target := &planning.SalesTarget{
		Year:         year,
		Month:        month,
		TargetAmount: decimal.NewFromFloat(amount),
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := s.targets.Upsert(ctx, target); err != nil {
		return nil, fmt.Errorf("upsert target: %w", err)
	}
	return target, nil
}

// ListTargets returns the targets configured for a year, ordered by month.
func (s *BudgetService) ListTargets(ctx context.Context, year int) ([]planning.SalesTarget, error) {
	targets, err := s.targets.FindByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return targets, nil
}

// toBudget validates the input shape, then the domain invariants, and only
// then builds the row.
func (s *BudgetService) toBudget(input BudgetInput) (*planning.Budget, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}
	budget := &planning.Budget{
		Year:          input.Year,
		Month:         input.Month,
		Category:      input.Category,
		PlannedAmount: decimal.NewFromFloat(input.PlannedAmount),
		ActualAmount:  decimal.Zero,
		Notes:         input.Notes,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	return budget, nil
}
