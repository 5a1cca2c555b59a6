package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rps-game-system/config"
	"rps-game-system/database"
	"rps-game-system/handlers"
	"rps-game-system/services"
	"rps-game-system/utils"
	"rps-game-system/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so its deferred cleanup happens before main exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile, cfg.LogStderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closeLog()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	playerService := services.NewPlayerService(db, logger)
	matchService := services.NewMatchService(db, logger)
	statsService := services.NewStatsService(db, logger)

	sweeper, err := matchService.StartStaleMatchSweeper(ctx, cfg.StaleMatchAge, cfg.SweepInterval)
	if err != nil {
		logger.Error("failed to start stale match sweeper", "error", err)
		return err
	}
	defer func() {
		if err := sweeper.Shutdown(); err != nil {
			logger.Warn("sweeper shutdown", "error", err)
		}
	}()

	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Client(ctx, cfg.R2)
		if err != nil {
			logger.Error("failed to initialize R2 client", "error", err)
			return err
		}
		exporter := workers.NewStatsExporter(statsService, r2, cfg.ExportInterval, logger)
		go exporter.Run(ctx)
	} else {
		logger.Info("R2 not configured, stats export disabled")
	}

	app := handlers.NewApp(logger, cfg.AllowedOrigins)
	handlers.SetupHealthRoutes(app, db)
	handlers.SetupStatsRoutes(app, statsService, playerService, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(cfg.HTTPAddr)
	}()

	logger.Info("server running", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver, "origins", cfg.AllowedOrigins)

	var listenErr error
	select {
	case <-ctx.Done():
	case listenErr = <-serverErr:
		if listenErr != nil {
			logger.Error("server error", "error", listenErr)
		}
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	return listenErr
}
