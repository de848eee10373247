package main

import (
	"context"
	"flag"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/api"
	"github.com/jengzang/casemap-backend-go/internal/auth"
	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/config"
	"github.com/jengzang/casemap-backend-go/internal/database"
	"github.com/jengzang/casemap-backend-go/internal/metrics"
	"github.com/jengzang/casemap-backend-go/internal/middleware"
	"github.com/jengzang/casemap-backend-go/internal/models"
	"github.com/jengzang/casemap-backend-go/internal/repository"
	"github.com/jengzang/casemap-backend-go/internal/scheduler"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/internal/source"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		log.Fatal("Invalid auth config (set CASEMAP_AUTH_JWT_SECRET):", err)
	}
	gin.SetMode(cfg.Server.Mode)

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	opts := casedata.DefaultOptions()
	opts.StrictSchema = cfg.Pipeline.StrictSchema
	pipeline := casedata.NewPipeline(source.NewFetcher(cfg.Source), opts)

	collector := metrics.NewCollector()
	svc := service.NewDashboardService(
		pipeline,
		repository.NewCaseRepository(db),
		repository.NewLoadRepository(db),
		collector,
		cfg.Pipeline.TopN,
	)

	// The server starts even when the first load fails; data endpoints
	// answer 503 until a reload succeeds.
	if _, err := svc.Reload(context.Background(), models.TriggerStartup); err != nil {
		log.Printf("Initial load failed: %v", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	sched := scheduler.New(svc)
	if cfg.Refresh.Enabled {
		if err := sched.AddRefresh(cfg.Refresh.Schedule); err != nil {
			log.Fatal(err)
		}
	}
	if err := sched.AddCleanup("@every 1m", limiter); err != nil {
		log.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	// 初始化路由
	router := api.SetupRouter(api.Dependencies{
		Service:   svc,
		Collector: collector,
		Signer:    auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Limiter:   limiter,
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
