package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/api"
	"github.com/andresuchdata/stationops/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stationops/backend-go/internal/cache"
	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/loader"
	"github.com/andresuchdata/stationops/backend-go/internal/metrics"
	"github.com/andresuchdata/stationops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stationops/backend-go/internal/service"
	"github.com/andresuchdata/stationops/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := metrics.ParseMeterDeltaPolicy(cfg.Metrics.MeterDeltaPolicy)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid metrics configuration")
	}

	auth, err := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid auth configuration")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	stationCache, dashboardCache := buildCaches(cfg.Cache)

	stationRepo := postgres.NewStationRepository(db)
	opsRepo := postgres.NewOperationsRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	profileRepo := postgres.NewProfileRepository(db)

	services := &api.Services{
		Stations: service.NewStationService(stationRepo, stationCache, dashboardCache),
		Expenses: service.NewExpenseService(expenseRepo, stationRepo),
		Dashboards: service.NewDashboardService(stationRepo, opsRepo, dashboardCache, service.DashboardOptions{
			CommissionRate: cfg.Metrics.CommissionRate,
			MeterDelta:     policy,
			Loader:         loader.Options{Limit: cfg.Loader.Concurrency, TaskTimeout: cfg.Loader.TaskTimeout()},
		}),
		Commissions: service.NewCommissionService(stationRepo, opsRepo, cfg.Metrics.CommissionRate),
		Profiles:    service.NewProfileService(profileRepo, stationRepo),
	}

	opts := api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           auth,
		Location:       cfg.App.Location(),
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(services, opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildCaches shares one redis client between both caches; any redis
// problem degrades to the noop caches.
func buildCaches(cfg config.CacheConfig) (cache.StationListCache, cache.DealerDashboardCache) {
	if !cfg.Enabled {
		return cache.NewNoopStationCache(), cache.NewNoopDashboardCache()
	}

	client, ttl, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		return cache.NewNoopStationCache(), cache.NewNoopDashboardCache()
	}

	return cache.NewRedisStationCache(client, ttl), cache.NewRedisDashboardCache(client, ttl)
}
