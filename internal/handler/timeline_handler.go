package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/pkg/response"
)

// TimelineHandler handles HTTP requests for the date selection
type TimelineHandler struct {
	dashboardService *service.DashboardService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(dashboardService *service.DashboardService) *TimelineHandler {
	return &TimelineHandler{
		dashboardService: dashboardService,
	}
}

// GetTimeline handles GET /api/v1/timeline
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	state, err := h.dashboardService.Timeline()
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, state)
}

// SelectDate handles PUT /api/v1/timeline/selected?index=|date=
func (h *TimelineHandler) SelectDate(c *gin.Context) {
	var df models.DateFilter
	if err := c.ShouldBindQuery(&df); err != nil {
		response.BadRequest(c, "Invalid index parameter")
		return
	}

	state, err := h.dashboardService.SelectDate(df)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, state)
}

// Step handles POST /api/v1/timeline/step?loop=true
func (h *TimelineHandler) Step(c *gin.Context) {
	loop, err := strconv.ParseBool(c.DefaultQuery("loop", "true"))
	if err != nil {
		response.BadRequest(c, "Invalid loop parameter")
		return
	}

	state, err := h.dashboardService.Step(loop)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, state)
}
