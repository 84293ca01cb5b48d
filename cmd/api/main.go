package main

import (
	"media-editor/internal/app"
	"media-editor/internal/config"
	"media-editor/internal/logger"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.Init(cfg.LogLevel)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create app")
	}

	if err := application.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
