package transform

import "media-editor/internal/transform"

type transformUsecase interface {
	Preview(rawURL string, preset transform.Preset, params map[string]interface{}) (string, error)
	Inspect(rawURL string) (transform.Inspection, error)
}
