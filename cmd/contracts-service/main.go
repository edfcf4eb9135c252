package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nurpe/snowops-contracts/internal/auth"
	"github.com/nurpe/snowops-contracts/internal/config"
	"github.com/nurpe/snowops-contracts/internal/db"
	"github.com/nurpe/snowops-contracts/internal/excel"
	httphandler "github.com/nurpe/snowops-contracts/internal/http"
	"github.com/nurpe/snowops-contracts/internal/http/middleware"
	"github.com/nurpe/snowops-contracts/internal/logger"
	"github.com/nurpe/snowops-contracts/internal/notify"
	"github.com/nurpe/snowops-contracts/internal/repository"
	"github.com/nurpe/snowops-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init notifier")
	}
	if closer, ok := notifier.(io.Closer); ok {
		defer closer.Close()
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.Notify.Timeout, log)

	configRepo := repository.NewConfigurationRepository(database)
	sheetRepo := repository.NewSheetRepository(database)
	contractRepo := repository.NewContractRepository(database)
	directoryRepo := repository.NewDirectoryRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)

	services := httphandler.Services{
		Configurations: service.NewConfigurationService(configRepo, directoryRepo),
		Sheets:         service.NewSheetService(configRepo, sheetRepo, directoryRepo),
		Flows:          service.NewFlowService(configRepo, sheetRepo, directoryRepo),
		Contracts:      service.NewContractService(configRepo, sheetRepo, contractRepo, directoryRepo, dispatcher, cfg.Contracts),
		Settlements:    service.NewSettlementService(ledgerRepo, directoryRepo, excel.NewGenerator()),
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(services, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("notify_driver", cfg.Notify.Driver).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		dispatcher.Wait()
		os.Exit(1)
	}
}
