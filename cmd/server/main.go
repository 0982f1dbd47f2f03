package main

import (
	"fmt"
	"os"

	"adsignal/internal/delivery"
	"adsignal/internal/infrastructure"
	"adsignal/internal/usecase"
	"adsignal/pkg/config"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New()

	client := infrastructure.NewTransparencyClient(cfg.Upstream, cfg.Analysis.Region, log, m)

	snapshots := usecase.NewSnapshotService(client, log, m, cfg.Analysis)
	creatives := usecase.NewCreativeService(client, log, m, cfg.Analysis)

	dispatcher := delivery.NewDispatcher(snapshots, creatives, log, m)
	rpc := delivery.NewRPCHandler(dispatcher, log)

	router := delivery.NewHTTPRouter(rpc, log, m).SetupRoutes()

	log.WithField("port", cfg.Server.Port).Info("Starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
