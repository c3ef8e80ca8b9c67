package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-nav-api/api/swagger"
	"github.com/noah-isme/campus-nav-api/internal/handler"
	"github.com/noah-isme/campus-nav-api/internal/jobs"
	internalmiddleware "github.com/noah-isme/campus-nav-api/internal/middleware"
	"github.com/noah-isme/campus-nav-api/internal/repository"
	"github.com/noah-isme/campus-nav-api/internal/seed"
	"github.com/noah-isme/campus-nav-api/internal/service"
	"github.com/noah-isme/campus-nav-api/pkg/cache"
	"github.com/noah-isme/campus-nav-api/pkg/config"
	"github.com/noah-isme/campus-nav-api/pkg/database"
	"github.com/noah-isme/campus-nav-api/pkg/export"
	"github.com/noah-isme/campus-nav-api/pkg/geo"
	"github.com/noah-isme/campus-nav-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-nav-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-nav-api/pkg/middleware/requestid"
)

// @title Campus Navigation API
// @version 1.0.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, checks, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	if cfg.Store.Seed {
		if _, err := seed.Run(ctx, store, logr); err != nil {
			logr.Fatal("failed to seed store", zap.Error(err))
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := service.NewValidator()
	estimator := geo.Estimator{SpeedMetersPerMinute: cfg.Navigation.WalkingSpeedMetersPerMinute}
	courses := service.NewCourseService(store, validate, logr)
	svcs := handler.Services{
		Auth: service.NewAuthService(store, validate, logr, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		Buildings: service.NewBuildingService(store, validate, logr, estimator, cfg.Navigation.NearbyRadiusMeters),
		Courses:   courses,
		Exports:   service.NewScheduleExportService(courses, store, export.NewCSVExporter(), export.NewPDFExporter(), logr),
		Events:    service.NewEventService(store, validate, logr),
		Favorites: service.NewFavoriteService(store, validate, logr),
		Locations: service.NewLocationService(store, validate, logr, metricsSvc, service.LocationConfig{
			BuildingRadiusMeters: cfg.Location.BuildingRadiusMeters,
		}),
		Navigation: service.NewNavigationService(store, estimator),
		Metrics:    metricsSvc,
	}

	if cfg.Location.TTL > 0 {
		sweeper, err := jobs.NewLocationSweeper(store, jobs.SweeperConfig{
			TTL:        cfg.Location.TTL,
			Schedule:   cfg.Location.SweepSchedule,
			MaxRetries: 2,
			RetryDelay: 5 * time.Second,
		}, metricsSvc, logr)
		if err != nil {
			logr.Fatal("invalid location sweeper config", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			logr.Fatal("failed to start location sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	handler.RegisterRoutes(r, svcs, handler.RouteConfig{
		APIPrefix:             cfg.APIPrefix,
		ProtectCatalogWrites:  cfg.Auth.ProtectCatalogWrites,
		ProtectLocationWrites: cfg.Auth.ProtectLocationWrites,
		ReadinessChecks:       checks,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Backend),
			zap.String("location_store", cfg.Store.LocationStore),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the configured store backing along with its readiness
// checks and a release func.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.Store, map[string]handler.ReadinessCheck, func(), error) {
	checks := map[string]handler.ReadinessCheck{}
	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store repository.Store
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = repository.NewMemoryStore()
	case config.BackendPostgres, config.BackendSQLite:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Store.Backend == config.BackendPostgres {
			db, err = database.NewPostgres(cfg.Database)
		} else {
			db, err = database.NewSQLite(cfg.SQLite)
		}
		if err != nil {
			return nil, nil, release, err
		}
		closers = append(closers, func() { _ = db.Close() })
		if err := database.EnsureSchema(ctx, db); err != nil {
			release()
			return nil, nil, func() {}, fmt.Errorf("ensure schema: %w", err)
		}
		checks["database"] = db.PingContext
		store = repository.NewSQLStore(db)
	}

	if cfg.Store.LocationStore == config.LocationStoreRedis {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			release()
			return nil, nil, func() {}, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		store = repository.WithLocationStore(store, repository.NewRedisLocationStore(client, cfg.Location.TTL, logr))
	}

	return store, checks, release, nil
}
