package handler

import (
	"net/http"

	appanalytics "github.com/cafeops/backend/internal/application/analytics"
	"github.com/cafeops/backend/internal/infrastructure/persistence"
	"github.com/cafeops/backend/internal/infrastructure/scheduler"
	"github.com/cafeops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves health, scheduler status, and summary refresh routes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	refresh   *appanalytics.SummaryRefreshService
	scheduler *scheduler.RefreshScheduler
}

// NewSystemHandler creates a new SystemHandler. scheduler may be nil when
// the cron refresh is disabled.
func NewSystemHandler(db *persistence.Database, refresh *appanalytics.SummaryRefreshService, sched *scheduler.RefreshScheduler) *SystemHandler {
	return &SystemHandler{db: db, refresh: refresh, scheduler: sched}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/scheduler/status", h.SchedulerStatus)
	}

	summaries := rg.Group("/summaries")
	{
		summaries.POST("/refresh", h.RefreshSummaries)
	}
}

// Health reports database liveness and pool statistics
// GET /api/v1/system/health
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeSourceUnavailable, "database unreachable")
		return
	}

	stats, err := h.db.Stats()
	if err != nil {
		h.InternalError(c, "failed to read pool stats")
		return
	}

	h.Success(c, gin.H{
		"status": "ok",
		"database": gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	})
}

// SchedulerStatus reports the refresh scheduler state
// GET /api/v1/system/scheduler/status
func (h *SystemHandler) SchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}
	h.Success(c, h.scheduler.GetStatus())
}

// refreshSummariesRequest scopes a manual summary refresh to one month
type refreshSummariesRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,gte=1,lte=12"`
}

// RefreshSummaries recomputes the daily summaries for one month
// POST /api/v1/summaries/refresh
func (h *SystemHandler) RefreshSummaries(c *gin.Context) {
	var req refreshSummariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "year and month are required")
		return
	}

	days, err := h.refresh.RefreshMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"days": days})
}
