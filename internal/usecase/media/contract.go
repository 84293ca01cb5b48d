package media

import (
	"context"

	"media-editor/internal/domain"
	"media-editor/internal/transform"

	"github.com/wb-go/wbf/retry"
)

type mediaRepository interface {
	Save(ctx context.Context, m *domain.Media) error
	GetByID(ctx context.Context, id string) (*domain.Media, error)
	UpdateCurrentURL(ctx context.Context, id, expected, url string) error
	SaveEdit(ctx context.Context, edit *domain.Edit) error
	GetEdit(ctx context.Context, id string) (*domain.Edit, error)
	ListEdits(ctx context.Context, mediaID string, limit int) ([]domain.Edit, error)
	UpdateEditStatus(ctx context.Context, id string, status domain.EditStatus, errMsg string) error
}

type originRepository interface {
	Exists(ctx context.Context, basePath string) (bool, error)
}

type editProducer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
}

type transformer interface {
	ParsePath(raw string) transform.Resource
	Apply(raw string, preset transform.Preset, params map[string]interface{}) (string, error)
	Strip(raw string) (string, error)
	Normalize(raw string) (string, error)
	Inspect(raw string) transform.Inspection
}
