package handler

import (
	"errors"
	"net/http"
	"strconv"

	appplanning "github.com/cafeops/backend/internal/application/planning"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BudgetHandler serves budget and sales target writes and reads
type BudgetHandler struct {
	BaseHandler
	service *appplanning.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(service *appplanning.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// RegisterRoutes registers budget and target routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.UpsertBudget)
		budgets.POST("/bulk", h.BulkUpsertBudgets)
		budgets.GET("", h.ListBudgets)
		budgets.POST("/refresh-actuals", h.RefreshActuals)
	}

	targets := rg.Group("/targets")
	{
		targets.PUT("/:year/:month", h.UpsertTarget)
		targets.GET("", h.ListTargets)
	}
}

// UpsertBudget writes one budget row keyed by (year, month, category)
// POST /api/v1/budgets
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	var input appplanning.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "invalid budget payload")
		return
	}

	budget, err := h.service.UpsertBudget(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budget)
}

// BulkUpsertBudgets applies a batch of budget upserts item by item.
// A partial failure returns 207 with the per-item results.
// POST /api/v1/budgets/bulk
func (h *BudgetHandler) BulkUpsertBudgets(c *gin.Context) {
	var inputs []appplanning.BudgetInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "invalid budget list payload")
		return
	}

	results, err := h.service.BulkUpsertBudgets(c.Request.Context(), inputs)
	if err != nil {
		if errors.Is(err, shared.ErrPartialWrite) {
			c.JSON(http.StatusMultiStatus, dto.Response{
				Success: false,
				Data:    results,
				Error: &dto.ErrorInfo{
					Code:      dto.ErrCodePartialWrite,
					Message:   err.Error(),
					RequestID: getRequestID(c),
				},
			})
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListBudgets returns the budget rows for one month with variances
// GET /api/v1/budgets?year=2025&month=3
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	year, month, ok := h.yearMonthQuery(c)
	if !ok {
		return
	}

	budgets, err := h.service.VarianceReport(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budgets)
}

// RefreshActuals recomputes actual_amount for the month's budget rows from
// the category sales breakdown
// POST /api/v1/budgets/refresh-actuals?year=2025&month=3
func (h *BudgetHandler) RefreshActuals(c *gin.Context) {
	year, month, ok := h.yearMonthQuery(c)
	if !ok {
		return
	}

	updated, err := h.service.RefreshActuals(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}

// upsertTargetRequest is the body for a target upsert
type upsertTargetRequest struct {
	TargetAmount float64 `json:"target_amount" binding:"gte=0"`
}

// UpsertTarget writes the sales target for (year, month)
// PUT /api/v1/targets/:year/:month
func (h *BudgetHandler) UpsertTarget(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.BadRequest(c, "year must be a number")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		h.BadRequest(c, "month must be a number")
		return
	}

	var req upsertTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "invalid target payload")
		return
	}

	target, err := h.service.UpsertTarget(c.Request.Context(), year, month, req.TargetAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, target)
}

// ListTargets returns the targets configured for a year
// GET /api/v1/targets?year=2025
func (h *BudgetHandler) ListTargets(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "year is required")
		return
	}

	targets, err := h.service.ListTargets(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, targets)
}

// yearMonthQuery parses the year and month query parameters
func (h *BudgetHandler) yearMonthQuery(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "year is required")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		h.BadRequest(c, "month is required")
		return 0, 0, false
	}
	return year, month, true
}
