package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportRequest is the raw, untrusted shape a caller submits. The dispatcher
// validates it and resolves it into typed ReportParams before any
// aggregation work starts.
type ReportRequest struct {
	ReportType string `json:"report_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	TopN       int    `json:"top_n"`
}

// ReportCache is a read-through cache over assembled dashboard payloads.
// A miss and a cache failure look the same to the dispatcher; the
// implementation logs its own errors.
type ReportCache interface {
	GetDashboard(ctx context.Context, key string) (*DashboardReport, bool)
	SetDashboard(ctx context.Context, key string, report *DashboardReport)
}

// Dispatcher routes validated report requests to the assembler. It is the
// single entry point the HTTP layer talks to.
type Dispatcher struct {
	assembler *Assembler
	cache     ReportCache
	logger    *zap.Logger
}

// NewDispatcher creates a new Dispatcher. cache may be nil, in which case
// every request recomputes.
func NewDispatcher(assembler *Assembler, cache ReportCache, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{assembler: assembler, cache: cache, logger: logger}
}

// Dashboard validates the request and returns the dashboard payload,
// serving from cache when a fresh copy exists.
func (d *Dispatcher) Dashboard(ctx context.Context, req ReportRequest) (*DashboardReport, error) {
	reportType, params, err := resolveRequest(req)
	if err != nil {
		return nil, err
	}

	key := cacheKey(reportType, params)
	if d.cache != nil {
		if cached, ok := d.cache.GetDashboard(ctx, key); ok {
			d.logger.Debug("report served from cache", zap.String("key", key))
			return cached, nil
		}
	}

	report, err := d.assembler.AssembleDashboard(ctx, reportType, params)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		d.cache.SetDashboard(ctx, key, report)
	}
	return report, nil
}

// Export validates the request and returns the flat export table. Exports
// bypass the cache; they are rare and always want current data.
func (d *Dispatcher) Export(ctx context.Context, req ReportRequest) (*ExportReport, error) {
	reportType, params, err := resolveRequest(req)
	if err != nil {
		return nil, err
	}
	return d.assembler.AssembleExport(ctx, reportType, params)
}

// resolveRequest checks that the request carries the parameters its report
// type needs and converts them into typed params. Date ranges arrive as
// inclusive calendar dates and leave as half-open instants.
func resolveRequest(req ReportRequest) (ReportType, ReportParams, error) {
	reportType := ReportType(req.ReportType)
	if _, ok := reportTitles[reportType]; !ok {
		return "", ReportParams{}, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("unknown report type: %q", req.ReportType))
	}

	var params ReportParams
	switch reportType {
	case ReportTypeDailyTrend, ReportTypeProductRanking, ReportTypeCategoryBreakdown,
		ReportTypeHourlySales, ReportTypeWeekdaySales:
		start, end, err := parseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			return "", ReportParams{}, err
		}
		params.StartDate = start
		params.EndDate = end
		if req.TopN < 0 {
			return "", ReportParams{}, shared.NewDomainError("VALIDATION_ERROR", "top_n cannot be negative")
		}
		params.TopN = req.TopN

	case ReportTypeMonthlyComparison, ReportTypeTargetAchievement:
		if err := validateYear(req.Year); err != nil {
			return "", ReportParams{}, err
		}
		params.Year = req.Year

	case ReportTypeMonthlyReport, ReportTypeBudgetVsActual:
		if err := validateYear(req.Year); err != nil {
			return "", ReportParams{}, err
		}
		if req.Month < 1 || req.Month > 12 {
			return "", ReportParams{}, shared.NewDomainError("VALIDATION_ERROR", "month must be 1-12")
		}
		params.Year = req.Year
		params.Month = req.Month
	}
	return reportType, params, nil
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, shared.NewDomainError("VALIDATION_ERROR",
			"start_date and end_date are required")
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("invalid start_date: %q", startDate))
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("invalid end_date: %q", endDate))
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, shared.NewDomainError("VALIDATION_ERROR",
			"end_date must not be before start_date")
	}
	// inclusive end date becomes an exclusive upper bound
	return start, end.AddDate(0, 0, 1), nil
}

func validateYear(year int) error {
	if year < 2000 || year > 2200 {
		return shared.NewDomainError("VALIDATION_ERROR", "year out of range")
	}
	return nil
}

func cacheKey(reportType ReportType, params ReportParams) string {
	return fmt.Sprintf("report:%s:%s:%s:%04d:%02d:%d",
		reportType,
		params.StartDate.Format("20060102"),
		params.EndDate.Format("20060102"),
		params.Year,
		params.Month,
		params.TopN,
	)
}
