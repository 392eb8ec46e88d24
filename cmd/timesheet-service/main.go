package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/events"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/handler"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/report"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/repository"
	"github.com/badeeltechnology/cmecustom/internal/timesheet/service"
	"github.com/badeeltechnology/cmecustom/pkg/config"
	"github.com/badeeltechnology/cmecustom/pkg/database"
	"github.com/badeeltechnology/cmecustom/pkg/httputil"
	"github.com/badeeltechnology/cmecustom/pkg/logger"
	"github.com/badeeltechnology/cmecustom/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.Load("timesheet-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("timesheet-service", cfg.Server.Environment)
	log.Info().Msg("starting Timesheet Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewTimesheetEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	timesheetRepo := repository.NewTimesheetRepository(db)
	timeLogRepo := repository.NewTimeLogRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	// Initialize service
	timesheetService := service.NewTimesheetService(timesheetRepo, timeLogRepo, directoryRepo, publisher, log)

	// Initialize handlers
	timesheetHandler := handler.NewTimesheetHandler(timesheetService, log)
	reportHandler := handler.NewReportHandler(
		report.NewDetailReport(db),
		report.NewSummaryReport(db),
		report.NewMonthlyReport(db),
		log,
	)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "timesheet-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/", timesheetHandler.List)
			r.Post("/", timesheetHandler.Create)
			r.Get("/{id}", timesheetHandler.Get)
			r.Put("/{id}", timesheetHandler.Update)
			r.Delete("/{id}", timesheetHandler.Delete)
			r.Post("/{id}/submit", timesheetHandler.Submit)
			r.Post("/{id}/cancel", timesheetHandler.Cancel)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/detail", reportHandler.Detail)
			r.Get("/summary", reportHandler.Summary)
			r.Get("/monthly", reportHandler.Monthly)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
