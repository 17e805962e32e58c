package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/api"
	"github.com/assistidads/assist-lead-hub-sub000/internal/config"
	"github.com/assistidads/assist-lead-hub-sub000/internal/idempotency"
	"github.com/assistidads/assist-lead-hub-sub000/internal/metrics"
	"github.com/assistidads/assist-lead-hub-sub000/internal/period"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository/postgres"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/assistidads/assist-lead-hub-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	guard, err := idempotency.NewGuard(cfg.Redis)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("idempotency: redis unavailable, duplicate top-ups will not be rejected")
		guard = idempotency.NewNoopGuard()
	}

	var (
		gatherer prometheus.Gatherer
		m        *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	} else {
		m = metrics.New(nil)
	}

	loc := period.LoadLocation(cfg.Report.Timezone)

	// Initialize repositories and services
	leadRepo := postgres.NewLeadRepository(db.DB)
	referenceRepo := postgres.NewReferenceRepository(db.DB)
	budgetRepo := postgres.NewBudgetRepository(db)

	services := &api.Services{
		LeadService:      service.NewLeadService(leadRepo, referenceRepo, loc),
		ReferenceService: service.NewReferenceService(referenceRepo),
		ReportService: service.NewReportService(leadRepo, referenceRepo, budgetRepo, service.ReportOptions{
			Location:  loc,
			TopCities: cfg.Report.TopCities,
			Metrics:   m,
		}),
		BudgetService: service.NewBudgetService(budgetRepo, referenceRepo, guard, m),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Gatherer:       gatherer,
		MetricsPath:    cfg.Metrics.Path,
		Location:       loc,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("timezone", loc.String()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
