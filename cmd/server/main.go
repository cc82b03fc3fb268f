package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/optionscout/internal/clients/yahoo"
	"github.com/aristath/optionscout/internal/config"
	"github.com/aristath/optionscout/internal/database"
	"github.com/aristath/optionscout/internal/modules/history"
	"github.com/aristath/optionscout/internal/modules/market_hours"
	"github.com/aristath/optionscout/internal/modules/screener"
	screenerhandlers "github.com/aristath/optionscout/internal/modules/screener/handlers"
	"github.com/aristath/optionscout/internal/server"
	"github.com/aristath/optionscout/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger with configured level
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting OptionScout")

	// Initialize scan history database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := history.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scan history schema")
	}

	// Market data gateway
	marketHours := market_hours.NewService()
	marketData := yahoo.NewClient(log, marketHours, cfg.RiskFreeRateFallback)

	// Screeners
	incomeScreener := screener.NewIncomeScreener(marketData, log)
	buyScreener := screener.NewBuyScreener(marketData, log)

	// Scan history
	historyRepo := history.NewRepository(db.Conn(), log)
	historyHandlers := history.NewHandlers(historyRepo, log)

	// HTTP layer
	handlers := screenerhandlers.NewHandlers(incomeScreener, buyScreener, historyRepo, log)

	srv := server.New(server.Config{
		Port:             cfg.Port,
		Log:              log,
		Config:           cfg,
		DevMode:          cfg.DevMode,
		ScreenerHandlers: handlers,
		HistoryHandlers:  historyHandlers,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
