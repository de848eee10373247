package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/pkg/response"
)

// DatasetHandler handles HTTP requests for dataset status and reloads
type DatasetHandler struct {
	dashboardService *service.DashboardService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(dashboardService *service.DashboardService) *DatasetHandler {
	return &DatasetHandler{
		dashboardService: dashboardService,
	}
}

// GetStatus handles GET /api/v1/dataset/status
func (h *DatasetHandler) GetStatus(c *gin.Context) {
	status, err := h.dashboardService.Status(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, status)
}

// GetLoads handles GET /api/v1/dataset/loads
func (h *DatasetHandler) GetLoads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	loads, err := h.dashboardService.Loads(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, loads)
}

// Reload handles POST /api/v1/dataset/reload
func (h *DatasetHandler) Reload(c *gin.Context) {
	run, err := h.dashboardService.Reload(c.Request.Context(), models.TriggerAdmin)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, run)
}
