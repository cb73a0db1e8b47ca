package handler

import (
	"github.com/cafeops/backend/internal/application/analytics"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves report queries through the dispatcher
type ReportHandler struct {
	BaseHandler
	dispatcher *analytics.Dispatcher
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dispatcher *analytics.Dispatcher) *ReportHandler {
	return &ReportHandler{dispatcher: dispatcher}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("", h.GetReport)
		reports.GET("/export", h.ExportReport)
		reports.GET("/types", h.ListReportTypes)
		// static routes above win over the named-report param route
		reports.GET("/:report_type", h.GetNamedReport)
	}
}

// reportQuery is the query shape shared by the dashboard and export routes
type reportQuery struct {
	ReportType string `form:"report_type" binding:"required"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Year       int    `form:"year"`
	Month      int    `form:"month"`
	TopN       int    `form:"top_n"`
}

func (q reportQuery) toRequest() analytics.ReportRequest {
	return analytics.ReportRequest{
		ReportType: q.ReportType,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Year:       q.Year,
		Month:      q.Month,
		TopN:       q.TopN,
	}
}

// GetReport returns the dashboard payload for one report type
// GET /api/v1/reports?report_type=daily_trend&start_date=...&end_date=...
func (h *ReportHandler) GetReport(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "report_type is required")
		return
	}

	report, err := h.dispatcher.Dashboard(c.Request.Context(), query.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// namedReportQuery is reportQuery without report_type, which comes from the path
type namedReportQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Year      int    `form:"year"`
	Month     int    `form:"month"`
	TopN      int    `form:"top_n"`
}

// GetNamedReport is GetReport with the report type in the path
// GET /api/v1/reports/daily_trend?start_date=...&end_date=...
func (h *ReportHandler) GetNamedReport(c *gin.Context) {
	var query namedReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "invalid report query parameters")
		return
	}

	req := analytics.ReportRequest{
		ReportType: c.Param("report_type"),
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Year:       query.Year,
		Month:      query.Month,
		TopN:       query.TopN,
	}

	report, err := h.dispatcher.Dashboard(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ExportReport returns the flat export table for one report type
// GET /api/v1/reports/export?report_type=monthly_report&year=2025&month=3
func (h *ReportHandler) ExportReport(c *gin.Context) {
	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "report_type is required")
		return
	}

	report, err := h.dispatcher.Export(c.Request.Context(), query.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ListReportTypes returns every supported report type
// GET /api/v1/reports/types
func (h *ReportHandler) ListReportTypes(c *gin.Context) {
	h.Success(c, analytics.AllReportTypes())
}
