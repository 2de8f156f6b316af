package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studyflow/studyplan-api/api/swagger"
	"github.com/studyflow/studyplan-api/internal/genai"
	"github.com/studyflow/studyplan-api/internal/handler"
	"github.com/studyflow/studyplan-api/internal/middleware"
	"github.com/studyflow/studyplan-api/internal/repository"
	"github.com/studyflow/studyplan-api/internal/service"
	"github.com/studyflow/studyplan-api/pkg/cache"
	"github.com/studyflow/studyplan-api/pkg/config"
	"github.com/studyflow/studyplan-api/pkg/database"
	"github.com/studyflow/studyplan-api/pkg/logger"
	corsmiddleware "github.com/studyflow/studyplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studyflow/studyplan-api/pkg/middleware/requestid"
)

// @title StudyPlan API
// @version 0.1.0
// @description Daily study-schedule engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		redisClient = nil
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheEnabled := cfg.Cache.Enabled && redisClient != nil
	cacheSvc := service.NewCacheService(cacheRepo, cfg.Cache.ScheduleTTL, cacheEnabled, logr)

	var generator genai.Generator
	if cfg.AI.Enabled {
		generator = genai.NewClient(genai.ClientConfig{
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
			Logger:  logr,
		})
	}

	fallbackCfg := service.FallbackConfig{
		SlotStepMinutes:       cfg.Scheduler.SlotStepMinutes,
		MinItemMinutes:        cfg.Scheduler.MinItemMinutes,
		MaxPendingLessons:     cfg.Scheduler.MaxPendingLessons,
		MaxPendingAssignments: cfg.Scheduler.MaxPendingAssignments,
	}

	generatorSvc := service.NewScheduleGeneratorService(
		scheduleRepo, taskRepo, constraintRepo, preferenceRepo, courseRepo,
		generator, metricsSvc, validate, logr,
		service.GeneratorConfig{AIEnabled: cfg.AI.Enabled, Fallback: fallbackCfg},
	)
	editorSvc := service.NewScheduleEditorService(
		scheduleRepo, preferenceRepo, generator, metricsSvc, cacheSvc, validate, logr,
		service.EditorConfig{
			SlotStepMinutes: cfg.Scheduler.SlotStepMinutes,
			MinItemMinutes:  cfg.Scheduler.MinItemMinutes,
		},
	)
	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheSvc, logr)
	taskSvc := service.NewTaskService(taskRepo, generator, validate, logr)
	preferenceSvc := service.NewPreferenceService(preferenceRepo, cacheSvc, service.PreferenceDefaults{
		SessionMinutes:   cfg.Scheduler.DefaultSessionMinutes,
		BreakMinutes:     cfg.Scheduler.DefaultBreakMinutes,
		LongBreakMinutes: cfg.Scheduler.DefaultLongBreakMinutes,
		LongBreakEvery:   cfg.Scheduler.DefaultLongBreakEvery,
		DayStart:         cfg.Scheduler.DefaultDayStart,
		DayEnd:           cfg.Scheduler.DefaultDayEnd,
	}, validate, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var syncSvc *service.TaskSyncService
	if cfg.Sync.Enabled {
		syncSvc = service.NewTaskSyncService(
			scheduleRepo, scheduleRepo, taskRepo, constraintRepo, preferenceRepo, cacheSvc,
			service.SyncConfig{
				At:        cfg.Sync.At,
				Workers:   cfg.Sync.Workers,
				QueueSize: cfg.Sync.QueueSize,
				Fallback:  fallbackCfg,
			},
			logr,
		)
		if err := syncSvc.Start(ctx); err != nil {
			logr.Sugar().Fatalw("failed to start task sync", "error", err)
		}
		defer syncSvc.Stop()
	}

	scheduleHandler := handler.NewScheduleHandler(generatorSvc, editorSvc, scheduleSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		api.GET("/status", metricsHandler.Status)

		api.POST("/schedules/generate", scheduleHandler.Generate)
		api.GET("/schedules", scheduleHandler.List)
		api.GET("/schedules/:date", scheduleHandler.Get)
		api.DELETE("/schedules/:date", scheduleHandler.Delete)
		api.POST("/schedules/:date/edit", scheduleHandler.Edit)
		api.PATCH("/schedules/:date/items/:itemId/complete", scheduleHandler.CompleteItem)
		api.GET("/schedules/:date/export", scheduleHandler.Export)

		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks", taskHandler.List)
		api.PATCH("/tasks/:id", taskHandler.Update)
		api.PATCH("/tasks/:id/complete", taskHandler.Complete)
		api.PATCH("/tasks/:id/archive", taskHandler.Archive)
		api.DELETE("/tasks/:id", taskHandler.Delete)

		api.GET("/preferences", preferenceHandler.Get)
		api.PUT("/preferences", preferenceHandler.Update)

		api.GET("/constraints", constraintHandler.List)
		api.POST("/constraints", constraintHandler.Create)
		api.DELETE("/constraints/:id", constraintHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
