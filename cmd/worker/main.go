package main

import (
	"os"

	"media-editor/internal/config"
	"media-editor/internal/logger"
	"media-editor/internal/worker"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.Init(cfg.LogLevel)

	workerApp, err := worker.NewWorker(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker")
	}

	if err := workerApp.Run(); err != nil {
		log.Fatal().Err(err).Msg("Worker failed")
	}

	log.Info().Msg("Worker exited successfully")
	os.Exit(0)
}
