package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"media-editor/internal/domain"
	repoMedia "media-editor/internal/repository/media"
	"media-editor/internal/transform"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

const maxSwapAttempts = 5

type MediaUsecase struct {
	repo     mediaRepository
	origin   originRepository
	producer editProducer
	engine   transformer
	logger   *zlog.Zerolog
	retries  retry.Strategy
}

// NewMediaUsecase wires the use case. origin may be nil, which disables
// the origin bucket check before edits.
func NewMediaUsecase(repo mediaRepository, origin originRepository, producer editProducer, engine transformer, logger *zlog.Zerolog, retries retry.Strategy) *MediaUsecase {
	return &MediaUsecase{
		repo:     repo,
		origin:   origin,
		producer: producer,
		engine:   engine,
		logger:   logger,
		retries:  retries,
	}
}

// RegisterMedia records an asset that is already served by the CDN. Any
// transformations in rawURL are kept as the starting state.
func (u *MediaUsecase) RegisterMedia(ctx context.Context, ownerID, title string, kind domain.MediaKind, rawURL string) (*domain.Media, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	current, err := u.engine.Normalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	original, err := u.engine.Strip(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	now := time.Now()
	m := &domain.Media{
		OwnerID:     ownerID,
		Kind:        kind,
		Title:       title,
		OriginalURL: original,
		CurrentURL:  current,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := u.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save media: %w", err)
	}

	u.logger.Info().Str("media_id", m.ID).Str("url", m.CurrentURL).Msg("Media registered")
	return m, nil
}

// GetMedia returns the media with its most recent edits first.
func (u *MediaUsecase) GetMedia(ctx context.Context, id string) (*domain.Media, []domain.Edit, error) {
	m, err := u.getMedia(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	edits, err := u.repo.ListEdits(ctx, id, domain.DefaultListEditLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list edits: %w", err)
	}

	return m, edits, nil
}

// ApplyEdit merges a preset step into the media's current URL, records the
// edit as pending and queues it for the readiness worker. The URL is
// written first; if the edit cannot be recorded or queued it is rolled back.
func (u *MediaUsecase) ApplyEdit(ctx context.Context, mediaID string, preset transform.Preset, params map[string]interface{}) (*domain.Media, *domain.Edit, error) {
	if !preset.Valid() {
		return nil, nil, ErrInvalidPreset
	}
	if len(params) > domain.DefaultMaxParams {
		return nil, nil, ErrTooManyParams
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode parameters: %w", err)
	}

	m, source, err := u.swapCurrentURL(ctx, mediaID, func(m *domain.Media) (string, error) {
		if err := u.checkOrigin(ctx, m.CurrentURL); err != nil {
			return "", err
		}
		result, err := u.engine.Apply(m.CurrentURL, preset, params)
		if err != nil {
			return "", mapTransformError(err)
		}
		return result, nil
	})
	if err != nil {
		return nil, nil, err
	}

	edit := &domain.Edit{
		MediaID:    m.ID,
		Preset:     string(preset),
		Parameters: string(rawParams),
		SourceURL:  source,
		ResultURL:  m.CurrentURL,
		Status:     domain.EditPending,
	}
	if err := u.repo.SaveEdit(ctx, edit); err != nil {
		u.rollbackURL(ctx, m, source)
		return nil, nil, fmt.Errorf("failed to save edit: %w", err)
	}

	if err := u.publish(ctx, edit); err != nil {
		u.logger.Error().Err(err).Str("edit_id", edit.ID).Str("media_id", m.ID).Msg("Failed to publish edit event")
		u.markFailed(ctx, edit, "failed to queue readiness check")
		u.rollbackURL(ctx, m, source)
		return nil, nil, fmt.Errorf("%w: %v", ErrMessageQueueError, err)
	}

	u.logger.Info().
		Str("media_id", m.ID).
		Str("edit_id", edit.ID).
		Str("preset", string(preset)).
		Str("url", m.CurrentURL).
		Msg("Edit applied")

	return m, edit, nil
}

// RevertMedia drops every transformation from the media's current URL.
func (u *MediaUsecase) RevertMedia(ctx context.Context, id string) (*domain.Media, error) {
	m, _, err := u.swapCurrentURL(ctx, id, func(m *domain.Media) (string, error) {
		plain, err := u.engine.Strip(m.CurrentURL)
		if err != nil {
			return "", mapTransformError(err)
		}
		return plain, nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info().Str("media_id", m.ID).Msg("Media transformations reverted")
	return m, nil
}

func (u *MediaUsecase) GetEdit(ctx context.Context, id string) (*domain.Edit, error) {
	edit, err := u.repo.GetEdit(ctx, id)
	if errors.Is(err, repoMedia.ErrEditNotFound) {
		return nil, ErrEditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get edit: %w", err)
	}
	return edit, nil
}

// Preview computes the URL an edit would produce without storing anything.
func (u *MediaUsecase) Preview(rawURL string, preset transform.Preset, params map[string]interface{}) (string, error) {
	if !preset.Valid() {
		return "", ErrInvalidPreset
	}
	if len(params) > domain.DefaultMaxParams {
		return "", ErrTooManyParams
	}

	result, err := u.engine.Apply(rawURL, preset, params)
	if err != nil {
		return "", mapTransformError(err)
	}
	return result, nil
}

func (u *MediaUsecase) Inspect(rawURL string) (transform.Inspection, error) {
	insp := u.engine.Inspect(rawURL)
	if insp.BasePath == "" {
		return transform.Inspection{}, ErrInvalidURL
	}
	return insp, nil
}

func (u *MediaUsecase) getMedia(ctx context.Context, id string) (*domain.Media, error) {
	m, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, repoMedia.ErrMediaNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return m, nil
}

// swapCurrentURL derives a new URL from the stored media with next and
// writes it only if the stored URL is still the one next saw. On a lost race
// the media is re-read and next runs again, so concurrent edits compose.
// It returns the media as written and the URL it replaced.
func (u *MediaUsecase) swapCurrentURL(ctx context.Context, id string, next func(m *domain.Media) (string, error)) (*domain.Media, string, error) {
	for attempt := 1; attempt <= maxSwapAttempts; attempt++ {
		m, err := u.getMedia(ctx, id)
		if err != nil {
			return nil, "", err
		}

		result, err := next(m)
		if err != nil {
			return nil, "", err
		}

		source := m.CurrentURL
		if result == source {
			return m, source, nil
		}

		err = u.repo.UpdateCurrentURL(ctx, m.ID, source, result)
		switch {
		case err == nil:
			m.CurrentURL = result
			m.UpdatedAt = time.Now()
			return m, source, nil
		case errors.Is(err, repoMedia.ErrCurrentURLChanged):
			u.logger.Debug().Str("media_id", id).Int("attempt", attempt).Msg("Media url changed concurrently, retrying")
		case errors.Is(err, repoMedia.ErrMediaNotFound):
			return nil, "", ErrMediaNotFound
		default:
			return nil, "", fmt.Errorf("failed to update media url: %w", err)
		}
	}

	u.logger.Warn().Str("media_id", id).Msg("Gave up updating media url after repeated conflicts")
	return nil, "", ErrConflict
}

// rollbackURL puts source back unless someone has already built on m's URL.
func (u *MediaUsecase) rollbackURL(ctx context.Context, m *domain.Media, source string) {
	if m.CurrentURL == source {
		return
	}
	if err := u.repo.UpdateCurrentURL(ctx, m.ID, m.CurrentURL, source); err != nil {
		u.logger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to roll back media url")
	}
}

func (u *MediaUsecase) checkOrigin(ctx context.Context, rawURL string) error {
	if u.origin == nil {
		return nil
	}

	res := u.engine.ParsePath(rawURL)
	if res.BasePath == "" {
		return ErrInvalidURL
	}

	found, err := u.origin.Exists(ctx, res.BasePath)
	if err != nil {
		return fmt.Errorf("failed to check origin: %w", err)
	}
	if !found {
		u.logger.Warn().Str("path", res.BasePath).Msg("Asset missing from origin")
		return ErrOriginNotFound
	}
	return nil
}

func (u *MediaUsecase) publish(ctx context.Context, edit *domain.Edit) error {
	event := domain.EditRequested{
		EditID:      edit.ID,
		MediaID:     edit.MediaID,
		URL:         edit.ResultURL,
		RequestedAt: edit.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return u.producer.Send(ctx, u.retries, []byte(edit.MediaID), value)
}

func (u *MediaUsecase) markFailed(ctx context.Context, edit *domain.Edit, reason string) {
	if err := u.repo.UpdateEditStatus(ctx, edit.ID, domain.EditFailed, reason); err != nil {
		u.logger.Error().Err(err).Str("edit_id", edit.ID).Msg("Failed to update edit status")
	}
}

func mapTransformError(err error) error {
	switch {
	case errors.Is(err, transform.ErrUnknownPreset):
		return ErrInvalidPreset
	case errors.Is(err, transform.ErrNoBasePath):
		return ErrInvalidURL
	default:
		return err
	}
}
