package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/study-tracker-api/api/swagger"
	"github.com/noah-isme/study-tracker-api/internal/handler"
	internalmiddleware "github.com/noah-isme/study-tracker-api/internal/middleware"
	"github.com/noah-isme/study-tracker-api/internal/models"
	"github.com/noah-isme/study-tracker-api/internal/repository"
	"github.com/noah-isme/study-tracker-api/internal/service"
	"github.com/noah-isme/study-tracker-api/internal/stats"
	"github.com/noah-isme/study-tracker-api/pkg/cache"
	"github.com/noah-isme/study-tracker-api/pkg/config"
	"github.com/noah-isme/study-tracker-api/pkg/database"
	"github.com/noah-isme/study-tracker-api/pkg/export"
	"github.com/noah-isme/study-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/study-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/study-tracker-api/pkg/middleware/requestid"
)

// @title Study Tracker API
// @version 1.0.0
// @description Study sessions, subjects, a study timer and aggregated statistics.
// @BasePath /api
// @schemes http

// recordStore is the part of a storage backend the stats and readiness paths use.
type recordStore interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
	Ping(ctx context.Context) error
}

type timerBackend interface {
	Load(ctx context.Context) (*models.TimerState, error)
	Save(ctx context.Context, state models.TimerState) error
	Clear(ctx context.Context) error
}

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

	loc, err := cfg.Location()
	if err != nil {
		logr.Warn("unknown stats timezone, using host zone", zap.String("timezone", cfg.Stats.Timezone), zap.Error(err))
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	validate := service.NewValidator()
	checks := map[string]handler.ReadinessCheck{}

	var (
		subjectSvc *service.SubjectService
		sessionSvc *service.SessionService
		records    recordStore
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()
		if cfg.Storage.AutoMigrate {
			if err := database.Migrate(startupCtx, db); err != nil {
				logr.Fatal("failed to apply schema", zap.Error(err))
			}
		}
		subjectSvc = service.NewSubjectService(repository.NewSubjectRepository(db), validate, logr)
		sessionSvc = service.NewSessionService(repository.NewSessionRepository(db), validate, logr)
		records = repository.NewSnapshotRepository(db)
	default:
		mem := repository.NewMemoryStore()
		subjectSvc = service.NewSubjectService(mem.Subjects(), validate, logr)
		sessionSvc = service.NewSessionService(mem.Sessions(), validate, logr)
		records = mem
	}
	checks[cfg.Storage.Driver] = records.Ping

	var timers timerBackend
	switch cfg.Timer.Store {
	case config.TimerStoreRedis:
		client, err := cache.NewRedis(startupCtx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer client.Close()
		redisTimers := repository.NewRedisTimerStore(client, cfg.Timer.Key)
		checks["redis"] = redisTimers.Ping
		timers = redisTimers
	default:
		timers = repository.NewMemoryTimerStore()
	}

	if cfg.Storage.SeedDefaultSubjects {
		if _, err := subjectSvc.SeedDefaults(startupCtx); err != nil {
			logr.Fatal("failed to seed subjects", zap.Error(err))
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	statsSvc := service.NewStatsService(records, metricsSvc, service.StatsServiceConfig{
		TopSubjects: cfg.Stats.TopSubjects,
		Location:    loc,
	}, logr)
	timerSvc := service.NewTimerService(service.TimerServiceParams{
		Store:    timers,
		Subjects: subjectSvc,
		Sessions: sessionSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
		Location: loc,
	})

	routes := handler.Routes{
		Subjects: handler.NewSubjectHandler(subjectSvc),
		Sessions: handler.NewSessionHandler(sessionSvc),
		Stats:    handler.NewStatsHandler(statsSvc),
		Timer:    handler.NewTimerHandler(timerSvc),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(records, service.ExportConfig{
			Title:       cfg.Exports.Title,
			TopSubjects: cfg.Stats.TopSubjects,
			Location:    loc,
		}, logr, export.NewCSVExporter(stats.FormatDuration), export.NewPDFExporter())
		routes.Exports = handler.NewExportHandler(exportSvc)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", cfg.Metrics.Path))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, cfg.Metrics.Path))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.Register(r.Group(cfg.APIPrefix))
	r.NoRoute(handler.SPAFallback(cfg.StaticDir, cfg.APIPrefix))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"storage", cfg.Storage.Driver,
		"timer_store", cfg.Timer.Store,
		"timezone", loc.String(),
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
