package media

import (
	"context"

	"media-editor/internal/domain"
	"media-editor/internal/transform"
)

type mediaUsecase interface {
	RegisterMedia(ctx context.Context, ownerID, title string, kind domain.MediaKind, rawURL string) (*domain.Media, error)
	GetMedia(ctx context.Context, id string) (*domain.Media, []domain.Edit, error)
	ApplyEdit(ctx context.Context, mediaID string, preset transform.Preset, params map[string]interface{}) (*domain.Media, *domain.Edit, error)
	RevertMedia(ctx context.Context, id string) (*domain.Media, error)
	GetEdit(ctx context.Context, id string) (*domain.Edit, error)
}
