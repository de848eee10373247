package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/pkg/response"
)

// DashboardHandler handles HTTP requests for map and chart data
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetRecords handles GET /api/v1/records
func (h *DashboardHandler) GetRecords(c *gin.Context) {
	var filter models.RecordFilter
	var df models.DateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if err := c.ShouldBindQuery(&df); err != nil {
		response.BadRequest(c, "Invalid date parameters: "+err.Error())
		return
	}

	fc, err := h.dashboardService.Records(c.Request.Context(), filter, df)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, fc)
}

// GetPopup handles GET /api/v1/records/:identity/popup
func (h *DashboardHandler) GetPopup(c *gin.Context) {
	var df models.DateFilter
	if err := c.ShouldBindQuery(&df); err != nil {
		response.BadRequest(c, "Invalid date parameters: "+err.Error())
		return
	}

	popup, err := h.dashboardService.Popup(c.Param("identity"), df)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, popup)
}

// GetSeries handles GET /api/v1/records/:identity/series
func (h *DashboardHandler) GetSeries(c *gin.Context) {
	series, err := h.dashboardService.Series(c.Request.Context(), c.Param("identity"), c.Query("metric"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, series)
}

// GetClusterProperties handles GET /api/v1/clusters/properties
func (h *DashboardHandler) GetClusterProperties(c *gin.Context) {
	props, err := h.dashboardService.ClusterProperties()
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, props)
}

// GetClusters handles GET /api/v1/clusters
func (h *DashboardHandler) GetClusters(c *gin.Context) {
	var filter models.ClusterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	clusters, err := h.dashboardService.Clusters(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, clusters)
}

// GetRank handles GET /api/v1/rank
func (h *DashboardHandler) GetRank(c *gin.Context) {
	var filter models.RankFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	rank, err := h.dashboardService.Rank(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, rank)
}

// GetTotals handles GET /api/v1/totals
func (h *DashboardHandler) GetTotals(c *gin.Context) {
	var df models.DateFilter
	if err := c.ShouldBindQuery(&df); err != nil {
		response.BadRequest(c, "Invalid date parameters: "+err.Error())
		return
	}

	totals, err := h.dashboardService.Totals(c.Request.Context(), df)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, totals)
}

// GetRender handles GET /api/v1/render
func (h *DashboardHandler) GetRender(c *gin.Context) {
	var filter models.RenderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	render, err := h.dashboardService.Render(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, render)
}

// GetTopChart handles GET /api/v1/chart/top and returns an HTML page
func (h *DashboardHandler) GetTopChart(c *gin.Context) {
	var filter models.RankFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.dashboardService.WriteTopChart(&buf, filter); err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
