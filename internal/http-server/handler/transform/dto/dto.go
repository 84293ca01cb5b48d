package dto

type PreviewRequest struct {
	URL    string                 `json:"url" validate:"required,max=2048"`
	Preset string                 `json:"preset" validate:"required,oneof=enhance background-removal resize orient"`
	Params map[string]interface{} `json:"params" validate:"max=32"`
}

type PreviewResponse struct {
	URL string `json:"url"`
}

type InspectRequest struct {
	URL string `validate:"required,max=2048"`
}
