package dto

type RegisterMediaRequest struct {
	OwnerID string `json:"owner_id" validate:"required,max=128"`
	Title   string `json:"title" validate:"max=256"`
	Kind    string `json:"kind" validate:"required,oneof=image video"`
	URL     string `json:"url" validate:"required,max=2048"`
}

type ApplyEditRequest struct {
	Preset string                 `json:"preset" validate:"required,oneof=enhance background-removal resize orient"`
	Params map[string]interface{} `json:"params" validate:"max=32"`
}

type MediaIDRequest struct {
	ID string `validate:"required,max=64"`
}
