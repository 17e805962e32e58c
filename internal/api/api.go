package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/api/handlers"
	"github.com/assistidads/assist-lead-hub-sub000/internal/api/middleware"
	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/metrics"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	LeadService      *service.LeadService
	ReferenceService *service.ReferenceService
	ReportService    *service.ReportService
	BudgetService    *service.BudgetService
}

// Options configures the router. A nil Gatherer disables the metrics route.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	MetricsPath    string
	Location       *time.Location
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Metrics))
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", auth.HeaderUserID, auth.HeaderRole, auth.HeaderAgentID, handlers.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Session())

	if services != nil {
		if services.LeadService != nil {
			leadHandler := handlers.NewLeadHandler(services.LeadService, opts.Location)
			leadGroup := apiGroup.Group("/prospects")
			{
				leadGroup.GET("", leadHandler.List)
				leadGroup.POST("", leadHandler.Create)
				leadGroup.GET("/:id", leadHandler.Get)
				leadGroup.PUT("/:id", leadHandler.Update)
				leadGroup.DELETE("/:id", leadHandler.Delete)
			}
		}

		if services.ReferenceService != nil {
			referenceHandler := handlers.NewReferenceHandler(services.ReferenceService)
			referenceGroup := apiGroup.Group("/references/:kind")
			{
				referenceGroup.GET("", referenceHandler.List)
				referenceGroup.POST("", referenceHandler.Create)
				referenceGroup.PUT("/:id", referenceHandler.Update)
				referenceGroup.DELETE("/:id", referenceHandler.Delete)
			}
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("/leads", reportHandler.GetLeadReport)
				reportGroup.GET("/leads/breakdown", reportHandler.GetBreakdown)
				reportGroup.GET("/ads", reportHandler.GetAdsReport)
			}
		}

		if services.BudgetService != nil {
			budgetHandler := handlers.NewBudgetHandler(services.BudgetService)
			budgetGroup := apiGroup.Group("/ads/:ad_code_id/budget")
			{
				budgetGroup.GET("", budgetHandler.Get)
				budgetGroup.GET("/history", budgetHandler.History)
				budgetGroup.POST("/top-up", budgetHandler.TopUp)
				budgetGroup.PUT("/spent", budgetHandler.UpdateSpent)
			}
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
