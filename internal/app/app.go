package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"media-editor/internal/broker"
	kafka_impl "media-editor/internal/broker/kafka"
	"media-editor/internal/config"
	media_h "media-editor/internal/http-server/handler/media"
	transform_h "media-editor/internal/http-server/handler/transform"
	"media-editor/internal/http-server/router"
	"media-editor/internal/ratelimit"
	minio_repo "media-editor/internal/repository/media/cloud/minio"
	postgres_repo "media-editor/internal/repository/media/db/postgres"
	"media-editor/internal/transform"
	media_uc "media-editor/internal/usecase/media"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg      *config.Config
	server   *http.Server
	logger   *zlog.Zerolog
	db       *dbpg.DB
	producer broker.Producer
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}

	db, err := dbpg.New(cfg.DBDSN(), []string{}, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	mediaRepo := postgres_repo.NewMediaRepository(db, retries)

	var usecase *media_uc.MediaUsecase
	engine := transform.NewEngine(transform.Options{
		Endpoint:  cfg.CDN.Endpoint,
		AccountID: cfg.CDN.AccountID,
	}, logger)
	producer := kafka_impl.NewProducerClient(cfg)

	if cfg.CDN.OriginCheck {
		origin, err := minio_repo.NewOriginRepository(cfg, retries, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create origin repository: %w", err)
		}
		usecase = media_uc.NewMediaUsecase(mediaRepo, origin, producer, engine, logger, retries)
	} else {
		usecase = media_uc.NewMediaUsecase(mediaRepo, nil, producer, engine, logger, retries)
	}

	limiter := ratelimit.NewMemoryStore(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TTL)

	h := &router.Handler{
		MediaHandler:     media_h.NewMediaHandler(usecase, logger),
		TransformHandler: transform_h.NewTransformHandler(usecase, logger),
		Limiter:          limiter,
		Logger:           logger,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      router.SetupRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info().
		Str("cdn_endpoint", cfg.CDN.Endpoint).
		Bool("origin_check", cfg.CDN.OriginCheck).
		Str("edits_topic", producer.Topic()).
		Msg("API configuration")

	return &App{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		db:       db,
		producer: producer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		a.close()
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.close()
		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) close() {
	if a.db != nil && a.db.Master != nil {
		a.db.Master.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close producer")
		}
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
