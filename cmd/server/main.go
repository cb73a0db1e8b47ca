package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/cafeops/backend/internal/application/analytics"
	planningapp "github.com/cafeops/backend/internal/application/planning"
	"github.com/cafeops/backend/internal/infrastructure/cache"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/cafeops/backend/internal/infrastructure/logger"
	"github.com/cafeops/backend/internal/infrastructure/persistence"
	"github.com/cafeops/backend/internal/infrastructure/scheduler"
	"github.com/cafeops/backend/internal/interfaces/http/handler"
	"github.com/cafeops/backend/internal/interfaces/http/middleware"
	"github.com/cafeops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CafeOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	saleLedgerRepo := persistence.NewGormSaleLedgerRepository(db.DB)
	dailySummaryRepo := persistence.NewGormDailySummaryRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	targetRepo := persistence.NewGormSalesTargetRepository(db.DB)

	// Application services
	engine := analyticsapp.NewAggregationService(
		saleLedgerRepo,
		dailySummaryRepo,
		catalogRepo,
		expenseRepo,
		targetRepo,
		log.Named("aggregation"),
	)
	refreshService := analyticsapp.NewSummaryRefreshService(
		saleLedgerRepo,
		dailySummaryRepo,
		log.Named("summary_refresh"),
	)
	budgetService := planningapp.NewBudgetService(
		budgetRepo,
		targetRepo,
		engine,
		log.Named("budgets"),
	)
	assembler := analyticsapp.NewAssembler(engine, budgetService)

	// Report cache is optional; without Redis every request recomputes
	var reportCache analyticsapp.ReportCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisReportCache(cfg.Redis, cfg.Cache.ReportTTL, log)
		if err != nil {
			log.Warn("Redis unavailable, running without report cache", zap.Error(err))
		} else {
			defer func() {
				_ = redisCache.Close()
			}()
			reportCache = redisCache
		}
	}
	dispatcher := analyticsapp.NewDispatcher(assembler, reportCache, log.Named("dispatcher"))

	// Daily summary refresh scheduler
	var refreshScheduler *scheduler.RefreshScheduler
	if cfg.Scheduler.Enabled {
		hour, minute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid cron schedule", zap.Error(err))
		}
		refreshScheduler = scheduler.NewRefreshScheduler(scheduler.RefreshSchedulerConfig{
			Enabled:    true,
			CronHour:   hour,
			CronMinute: minute,
			WindowDays: cfg.Scheduler.RefreshWindowDays,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, refreshService, log.Named("scheduler"))

		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start refresh scheduler", zap.Error(err))
		}
	}

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := app.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	app.Use(middleware.RequestID())
	app.Use(logger.GinMiddleware(log))
	app.Use(logger.Recovery(log))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	app.Use(middleware.CORSWithConfig(corsCfg))

	// Liveness probe outside the versioned API
	app.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	r := router.NewRouter(app, router.WithAPIVersion("v1"))
	r.Register(handler.NewReportHandler(dispatcher))
	r.Register(handler.NewBudgetHandler(budgetService))
	r.Register(handler.NewSystemHandler(db, refreshService, refreshScheduler))
	r.Setup()

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        app,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler shutdown error", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("Server stopped")
}
