package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	appService "tildy/internal/application/service"
	"tildy/internal/infrastructure/config"
	"tildy/internal/infrastructure/database/sqlite"
	lineClient "tildy/internal/infrastructure/line"
	"tildy/internal/infrastructure/scheduler"
	"tildy/internal/interfaces/api/handler"
	"tildy/internal/interfaces/api/router"
	appLogger "tildy/internal/pkg/logger"

	"os/signal"
	"syscall"
)

func gracefulShutdown(apiServer *http.Server, schedulerService appService.SchedulerService, log appLogger.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	log.Info("Stopping scheduler...")
	schedulerService.Stop()

	log.Info("Closing database connection...")
	if err := sqlite.CloseDB(); err != nil {
		log.Error("Error closing database", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := appLogger.New(cfg.LogLevel, cfg.Environment)
	log.Info("Logger initialized.")

	// --- Infrastructure ---
	db := sqlite.NewDB(cfg.DatabaseURL)
	reminderRepo := sqlite.NewReminderRepository(db)
	timezoneRepo := sqlite.NewTimezoneRepository(db)
	log.Info("Database and repositories initialized.")

	line := lineClient.NewClient(cfg.ChannelSecret, cfg.ChannelAccessToken, log)
	cronScheduler := scheduler.NewScheduler(log)

	// --- Application Services ---
	schedulerSvc := appService.NewSchedulerService(cronScheduler, reminderRepo, log)
	resolver := appService.NewTimeResolver(cfg.NextDayThresholdHours, log)
	timezoneSvc := appService.NewTimezoneService(timezoneRepo, log)
	// Wires itself in as the scheduler's delivery handler.
	reminderSvc := appService.NewReminderService(reminderRepo, timezoneRepo, schedulerSvc, resolver, line, log)

	matcher, err := appService.NewTriggerMatcher(cfg.Triggers, cfg.BotID)
	if err != nil {
		log.Error("Invalid trigger configuration", err)
		os.Exit(1)
	}
	log.Info("Application services initialized.")

	// --- Startup reconciliation ---
	if err := schedulerSvc.InitializeSchedules(context.Background()); err != nil {
		// Keep serving; new reminders still work even if reconciliation failed.
		log.Error("Failed to reconcile schedules on startup", err)
	} else {
		log.Info("Reminder schedules reconciled.")
	}

	// --- HTTP layer ---
	lineHandler := handler.NewLineHandler(line, matcher, reminderSvc, timezoneSvc, log)
	echoRouter := router.NewRouter(&router.Config{
		LineHandler: lineHandler,
		Logger:      log,
	})

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, log, done)

	log.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("HTTP server ListenAndServe error", err)
		os.Exit(1)
	}

	<-done
	log.Info("Graceful shutdown complete.")
}
