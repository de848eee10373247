package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/auth"
	"github.com/jengzang/casemap-backend-go/internal/handler"
	"github.com/jengzang/casemap-backend-go/internal/metrics"
	"github.com/jengzang/casemap-backend-go/internal/middleware"
	"github.com/jengzang/casemap-backend-go/internal/service"
)

// Dependencies are the components the router wires into handlers
type Dependencies struct {
	Service   *service.DashboardService
	Collector *metrics.Collector
	Signer    *auth.Signer
	Limiter   *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger("/health", "/metrics"))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Case map API is running",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))

	dashboardHandler := handler.NewDashboardHandler(deps.Service)
	timelineHandler := handler.NewTimelineHandler(deps.Service)
	datasetHandler := handler.NewDatasetHandler(deps.Service)

	// API 路由组
	api := r.Group("/api/v1")
	{
		timeline := api.Group("/timeline")
		{
			timeline.GET("", timelineHandler.GetTimeline)
			timeline.PUT("/selected", timelineHandler.SelectDate)
			timeline.POST("/step", timelineHandler.Step)
		}

		records := api.Group("/records")
		{
			records.GET("", dashboardHandler.GetRecords)
			records.GET("/:identity/popup", dashboardHandler.GetPopup)
			records.GET("/:identity/series", dashboardHandler.GetSeries)
		}

		clusters := api.Group("/clusters")
		{
			clusters.GET("", dashboardHandler.GetClusters)
			clusters.GET("/properties", dashboardHandler.GetClusterProperties)
		}

		api.GET("/rank", dashboardHandler.GetRank)
		api.GET("/totals", dashboardHandler.GetTotals)
		api.GET("/render", dashboardHandler.GetRender)
		api.GET("/chart/top", dashboardHandler.GetTopChart)

		dataset := api.Group("/dataset")
		{
			dataset.GET("/status", datasetHandler.GetStatus)
			dataset.GET("/loads", datasetHandler.GetLoads)
			dataset.POST("/reload",
				middleware.RateLimit(deps.Limiter),
				middleware.RequireAdmin(deps.Signer),
				datasetHandler.Reload,
			)
		}
	}

	return r
}
