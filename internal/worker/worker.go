package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"media-editor/internal/broker"
	kafka_impl "media-editor/internal/broker/kafka"
	"media-editor/internal/config"
	"media-editor/internal/domain"
	repoMedia "media-editor/internal/repository/media"
	postgres_repo "media-editor/internal/repository/media/db/postgres"
	"media-editor/internal/usecase/readiness"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type editRepository interface {
	GetEdit(ctx context.Context, id string) (*domain.Edit, error)
	UpdateEditStatus(ctx context.Context, id string, status domain.EditStatus, errMsg string) error
}

type readinessChecker interface {
	Wait(ctx context.Context, url string) error
}

// Worker consumes EditRequested events and settles each edit once the CDN
// answers for its URL.
type Worker struct {
	cfg         *config.Config
	logger      *zlog.Zerolog
	db          *dbpg.DB
	consumer    broker.Consumer
	edits       editRepository
	checker     readinessChecker
	concurrency int
	wg          sync.WaitGroup
}

func NewWorker(cfg *config.Config, logger *zlog.Zerolog) (*Worker, error) {
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

	editRepo := postgres_repo.NewMediaRepository(db, retries)
	consumer := kafka_impl.NewConsumerClient(cfg)
	checker := readiness.NewChecker(&http.Client{Timeout: cfg.Worker.PollTimeout}, cfg.PollStrategy(), logger)

	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.EditsTopic).
		Str("group", cfg.Kafka.GroupID).
		Int("concurrency", cfg.Worker.Concurrency).
		Msg("Worker configuration")

	w := newWorker(cfg, logger, consumer, editRepo, checker)
	w.db = db
	return w, nil
}

func newWorker(cfg *config.Config, logger *zlog.Zerolog, consumer broker.Consumer, edits editRepository, checker readinessChecker) *Worker {
	concurrency := cfg.Worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		cfg:         cfg,
		logger:      logger,
		consumer:    consumer,
		edits:       edits,
		checker:     checker,
		concurrency: concurrency,
	}
}

// Run blocks until SIGINT or SIGTERM, then drains in-flight messages.
func (w *Worker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		w.logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal, stopping worker...")
		cancel()
	}()

	w.run(ctx)

	if w.db != nil && w.db.Master != nil {
		w.db.Master.Close()
	}
	if w.consumer != nil {
		if err := w.consumer.Close(); err != nil {
			w.logger.Error().Err(err).Msg("Failed to close consumer")
		}
	}
	w.logger.Info().Msg("Worker stopped gracefully")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("Starting worker")

	messages := make(chan *broker.Message, w.concurrency*2)
	w.consumer.Start(ctx, messages, w.cfg.DefaultRetryStrategy())

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.processWorker(ctx, id, messages)
		}(i)
	}

	w.logger.Info().Msg("Worker started successfully")
	<-ctx.Done()
	w.logger.Info().Msg("Shutting down worker gracefully...")
	w.wg.Wait()
}

func (w *Worker) processWorker(ctx context.Context, id int, messages <-chan *broker.Message) {
	w.logger.Info().Int("worker_id", id).Msg("Worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Int("worker_id", id).Msg("Worker stopping")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			startTime := time.Now()
			if err := w.safeProcessMessage(ctx, id, msg); err != nil {
				w.logger.Error().
					Err(err).
					Int("worker_id", id).
					Int64("offset", msg.Offset).
					Msg("Failed to process message")
				continue
			}

			if err := w.consumer.Commit(ctx, msg); err != nil {
				w.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Int("worker_id", id).
					Msg("Failed to commit message after successful processing")
				continue
			}
			w.logger.Debug().
				Int("worker_id", id).
				Int64("offset", msg.Offset).
				Dur("duration", time.Since(startTime)).
				Msg("Message processed and committed successfully")
		}
	}
}

func (w *Worker) safeProcessMessage(ctx context.Context, workerID int, msg *broker.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Int("worker_id", workerID).
				Interface("panic", r).
				Int64("offset", msg.Offset).
				Msg("Panic recovered while processing message")
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

// processMessage returns an error only when the message should be
// redelivered. Undecodable events and unknown edits are skipped.
func (w *Worker) processMessage(ctx context.Context, msg *broker.Message) error {
	var event domain.EditRequested
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		w.logger.Error().Err(err).Str("message", string(msg.Value)).Int64("offset", msg.Offset).Msg("Skipping undecodable event")
		return nil
	}

	edit, err := w.edits.GetEdit(ctx, event.EditID)
	if errors.Is(err, repoMedia.ErrEditNotFound) {
		w.logger.Warn().Str("edit_id", event.EditID).Msg("Skipping event for unknown edit")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load edit: %w", err)
	}
	if edit.Status != domain.EditPending {
		w.logger.Debug().Str("edit_id", edit.ID).Str("status", string(edit.Status)).Msg("Edit already settled")
		return nil
	}

	w.logger.Info().
		Str("edit_id", edit.ID).
		Str("media_id", event.MediaID).
		Str("url", event.URL).
		Msg("Waiting for CDN to render edit")

	if err := w.checker.Wait(ctx, event.URL); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("readiness check interrupted: %w", ctx.Err())
		}
		w.logger.Warn().Err(err).Str("edit_id", edit.ID).Msg("Edit never became ready")
		if updateErr := w.edits.UpdateEditStatus(ctx, edit.ID, domain.EditFailed, err.Error()); updateErr != nil {
			return fmt.Errorf("failed to mark edit failed: %w", updateErr)
		}
		return nil
	}

	if err := w.edits.UpdateEditStatus(ctx, edit.ID, domain.EditReady, ""); err != nil {
		return fmt.Errorf("failed to mark edit ready: %w", err)
	}

	w.logger.Info().Str("edit_id", edit.ID).Msg("Edit ready")
	return nil
}
