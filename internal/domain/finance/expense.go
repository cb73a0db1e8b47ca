package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseLedger is the read-only accessor over the external expense ledger.
// The reporting engine only ever needs range sums from it.
type ExpenseLedger interface {
	// TotalForRange sums expense amounts with start <= date < end.
	// An empty range sums to 0, not an error.
	TotalForRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}
