package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"media-editor/internal/domain"
	"media-editor/internal/transform"
	media_uc "media-editor/internal/usecase/media"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

type stubUsecase struct {
	media      *domain.Media
	edit       *domain.Edit
	err        error
	gotPreset  transform.Preset
	gotParams  map[string]interface{}
	gotKind    domain.MediaKind
	gotURL     string
	revertedID string
}

func (s *stubUsecase) RegisterMedia(_ context.Context, _, _ string, kind domain.MediaKind, rawURL string) (*domain.Media, error) {
	s.gotKind = kind
	s.gotURL = rawURL
	return s.media, s.err
}

func (s *stubUsecase) GetMedia(context.Context, string) (*domain.Media, []domain.Edit, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	var edits []domain.Edit
	if s.edit != nil {
		edits = append(edits, *s.edit)
	}
	return s.media, edits, nil
}

func (s *stubUsecase) ApplyEdit(_ context.Context, _ string, preset transform.Preset, params map[string]interface{}) (*domain.Media, *domain.Edit, error) {
	s.gotPreset = preset
	s.gotParams = params
	return s.media, s.edit, s.err
}

func (s *stubUsecase) RevertMedia(_ context.Context, id string) (*domain.Media, error) {
	s.revertedID = id
	return s.media, s.err
}

func (s *stubUsecase) GetEdit(context.Context, string) (*domain.Edit, error) {
	return s.edit, s.err
}

func newTestRouter(uc mediaUsecase) http.Handler {
	h := NewMediaHandler(uc, &zlog.Logger)
	r := chi.NewRouter()
	r.Post("/api/media", h.RegisterMedia)
	r.Get("/api/media/{id}", h.GetMedia)
	r.Post("/api/media/{id}/edits", h.ApplyEdit)
	r.Delete("/api/media/{id}/transformations", h.RevertMedia)
	r.Get("/api/edits/{id}", h.GetEdit)
	return r
}

func sampleMedia() *domain.Media {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Media{
		ID:          "m-1",
		OwnerID:     "user-1",
		Kind:        domain.KindImage,
		Title:       "beach",
		OriginalURL: "https://cdn.example/acct/photo.jpg",
		CurrentURL:  "https://cdn.example/acct/tr:q-90/photo.jpg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleEdit() *domain.Edit {
	return &domain.Edit{
		ID:         "e-1",
		MediaID:    "m-1",
		Preset:     "enhance",
		Parameters: `{"quality":90}`,
		SourceURL:  "https://cdn.example/acct/photo.jpg",
		ResultURL:  "https://cdn.example/acct/tr:q-90/photo.jpg",
		Status:     domain.EditPending,
	}
}

func TestMediaHandler_RegisterMedia(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "created",
			body:     `{"owner_id":"user-1","title":"beach","kind":"image","url":"https://cdn.example/acct/photo.jpg"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing url",
			body:     `{"owner_id":"user-1","kind":"image"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad kind",
			body:     `{"owner_id":"user-1","kind":"audio","url":"https://cdn.example/acct/a.mp3"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field",
			body:     `{"owner_id":"user-1","kind":"image","url":"x","extra":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "url rejected by usecase",
			body:     `{"owner_id":"user-1","kind":"image","url":"not a url"}`,
			err:      media_uc.ErrInvalidURL,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUsecase{media: sampleMedia(), err: tt.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/media", strings.NewReader(tt.body))

			newTestRouter(uc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusCreated {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "m-1", resp["id"])
				assert.Equal(t, domain.KindImage, uc.gotKind)
				assert.Equal(t, "https://cdn.example/acct/photo.jpg", uc.gotURL)
			}
		})
	}
}

func TestMediaHandler_ApplyEdit(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "accepted",
			body:     `{"preset":"enhance","params":{"quality":90,"brightness":-5}}`,
			wantCode: http.StatusAccepted,
		},
		{
			name:     "unknown preset",
			body:     `{"preset":"sepia"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "media not found",
			body:     `{"preset":"resize","params":{"width":100}}`,
			err:      media_uc.ErrMediaNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "origin missing",
			body:     `{"preset":"resize","params":{"width":100}}`,
			err:      media_uc.ErrOriginNotFound,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "queue down",
			body:     `{"preset":"orient","params":{"rotate":90}}`,
			err:      media_uc.ErrMessageQueueError,
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "concurrent edits",
			body:     `{"preset":"orient","params":{"rotate":90}}`,
			err:      media_uc.ErrConflict,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUsecase{media: sampleMedia(), edit: sampleEdit(), err: tt.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/media/m-1/edits", strings.NewReader(tt.body))

			newTestRouter(uc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusAccepted {
				return
			}

			assert.Equal(t, transform.PresetEnhance, uc.gotPreset)
			assert.Equal(t, json.Number("90"), uc.gotParams["quality"])
			assert.Equal(t, json.Number("-5"), uc.gotParams["brightness"])

			var resp struct {
				Media struct {
					CurrentURL string `json:"current_url"`
				} `json:"media"`
				Edit struct {
					ID         string          `json:"id"`
					Status     string          `json:"status"`
					Parameters json.RawMessage `json:"parameters"`
				} `json:"edit"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "https://cdn.example/acct/tr:q-90/photo.jpg", resp.Media.CurrentURL)
			assert.Equal(t, "e-1", resp.Edit.ID)
			assert.Equal(t, "pending", resp.Edit.Status)
			assert.JSONEq(t, `{"quality":90}`, string(resp.Edit.Parameters))
		})
	}
}

func TestMediaHandler_GetMedia(t *testing.T) {
	uc := &stubUsecase{media: sampleMedia(), edit: sampleEdit()}
	rec := httptest.NewRecorder()

	newTestRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/m-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID    string `json:"id"`
		Edits []struct {
			ID string `json:"id"`
		} `json:"edits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "m-1", resp.ID)
	require.Len(t, resp.Edits, 1)
	assert.Equal(t, "e-1", resp.Edits[0].ID)

	rec = httptest.NewRecorder()
	newTestRouter(&stubUsecase{err: media_uc.ErrMediaNotFound}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaHandler_RevertMedia(t *testing.T) {
	m := sampleMedia()
	m.CurrentURL = m.OriginalURL
	uc := &stubUsecase{media: m}
	rec := httptest.NewRecorder()

	newTestRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/media/m-1/transformations", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m-1", uc.revertedID)
	assert.Contains(t, rec.Body.String(), `"current_url":"https://cdn.example/acct/photo.jpg"`)
}

func TestMediaHandler_GetEdit(t *testing.T) {
	edit := sampleEdit()
	edit.Status = domain.EditFailed
	edit.Error = "url not ready"

	rec := httptest.NewRecorder()
	newTestRouter(&stubUsecase{edit: edit}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/edits/e-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"failed"`)
	assert.Contains(t, rec.Body.String(), `"error":"url not ready"`)

	rec = httptest.NewRecorder()
	newTestRouter(&stubUsecase{err: media_uc.ErrEditNotFound}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/edits/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
