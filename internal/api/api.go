package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/api/handlers"
	"github.com/andresuchdata/stationops/backend-go/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Stations    handlers.StationService
	Expenses    handlers.ExpenseService
	Dashboards  handlers.DashboardService
	Commissions handlers.CommissionService
	Profiles    handlers.ProfileService
}

type Options struct {
	AllowedOrigins []string
	Auth           *middleware.Authenticator
	// RateLimiter throttles mutating routes; nil disables throttling.
	RateLimiter *middleware.RateLimiter
	// Location is the business time zone month and day boundaries are taken in.
	Location *time.Location
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil || opts.Auth == nil {
		return router
	}

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.JWTAuth(opts.Auth))

	throttle := func(c *gin.Context) { c.Next() }
	if opts.RateLimiter != nil {
		throttle = middleware.RateLimit(opts.RateLimiter)
	}

	if services.Profiles != nil {
		profileHandler := handlers.NewProfileHandler(services.Profiles)
		apiGroup.GET("/me/permissions", profileHandler.Permissions)
		apiGroup.GET("/profile", profileHandler.Get)
		apiGroup.PUT("/profile", throttle, profileHandler.Update)
	}

	if services.Stations != nil {
		stationHandler := handlers.NewStationHandler(services.Stations)
		stationGroup := apiGroup.Group("/stations")
		{
			stationGroup.GET("", stationHandler.List)
			stationGroup.GET("/export", stationHandler.Export)
			stationGroup.POST("", throttle, stationHandler.Create)
			stationGroup.GET("/:id", stationHandler.Get)
			stationGroup.PUT("/:id", throttle, stationHandler.Update)
			stationGroup.DELETE("/:id", throttle, stationHandler.Delete)
		}
	}

	if services.Dashboards != nil && services.Commissions != nil {
		dealerHandler := handlers.NewDealerHandler(services.Dashboards, services.Commissions, opts.Location)
		apiGroup.GET("/stations/:id/loss", dealerHandler.StationLoss)
		apiGroup.GET("/stations/:id/commission/progressive", dealerHandler.ProgressiveCommission)

		dealerGroup := apiGroup.Group("/dealer")
		{
			dealerGroup.GET("/dashboard", dealerHandler.Dashboard)
			dealerGroup.GET("/commissions/stats", dealerHandler.CommissionStats)
		}
	}

	if services.Expenses != nil {
		expenseHandler := handlers.NewExpenseHandler(services.Expenses)
		expenseGroup := apiGroup.Group("/expenses")
		{
			expenseGroup.GET("", expenseHandler.List)
			expenseGroup.GET("/summary", expenseHandler.Summary)
			expenseGroup.GET("/export", expenseHandler.Export)
			expenseGroup.POST("", throttle, expenseHandler.Create)
			expenseGroup.POST("/:id/approve", throttle, expenseHandler.Approve)
			expenseGroup.POST("/:id/reject", throttle, expenseHandler.Reject)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
