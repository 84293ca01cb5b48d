package dto

import (
	"encoding/json"
	"time"

	"media-editor/internal/domain"
)

type MediaResponse struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title"`
	OriginalURL string         `json:"original_url"`
	CurrentURL  string         `json:"current_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Edits       []EditResponse `json:"edits,omitempty"`
}

type EditResponse struct {
	ID         string          `json:"id"`
	MediaID    string          `json:"media_id"`
	Preset     string          `json:"preset"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	SourceURL  string          `json:"source_url"`
	ResultURL  string          `json:"result_url"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ApplyEditResponse struct {
	Media MediaResponse `json:"media"`
	Edit  EditResponse  `json:"edit"`
}

func NewMediaResponse(m *domain.Media, edits []domain.Edit) MediaResponse {
	resp := MediaResponse{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Kind:        string(m.Kind),
		Title:       m.Title,
		OriginalURL: m.OriginalURL,
		CurrentURL:  m.CurrentURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range edits {
		resp.Edits = append(resp.Edits, NewEditResponse(&edits[i]))
	}
	return resp
}

func NewEditResponse(e *domain.Edit) EditResponse {
	resp := EditResponse{
		ID:        e.ID,
		MediaID:   e.MediaID,
		Preset:    e.Preset,
		SourceURL: e.SourceURL,
		ResultURL: e.ResultURL,
		Status:    string(e.Status),
		Error:     e.Error,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if json.Valid([]byte(e.Parameters)) {
		resp.Parameters = json.RawMessage(e.Parameters)
	}
	return resp
}
