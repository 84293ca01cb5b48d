package media

import (
	"errors"
	"net/http"

	"media-editor/internal/domain"
	"media-editor/internal/http-server/handler/media/dto"
	"media-editor/internal/http-server/handler/response"
	"media-editor/internal/transform"
	media_uc "media-editor/internal/usecase/media"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const maxBodyBytes = 64 << 10

type MediaHandler struct {
	usecase  mediaUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewMediaHandler(usecase mediaUsecase, logger *zlog.Zerolog) *MediaHandler {
	return &MediaHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *MediaHandler) RegisterMedia(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterMediaRequest
	if err := response.Decode(w, r, maxBodyBytes, &req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode register request")
		response.Error(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "Validation failed", err)
		return
	}

	m, err := h.usecase.RegisterMedia(r.Context(), req.OwnerID, req.Title, domain.MediaKind(req.Kind), req.URL)
	if err != nil {
		h.handleError(w, err, "", "Failed to register media")
		return
	}

	response.JSON(w, h.logger, http.StatusCreated, dto.NewMediaResponse(m, nil))
}

func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	m, edits, err := h.usecase.GetMedia(r.Context(), id)
	if err != nil {
		h.handleError(w, err, id, "Failed to get media")
		return
	}

	response.JSON(w, h.logger, http.StatusOK, dto.NewMediaResponse(m, edits))
}

func (h *MediaHandler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req dto.ApplyEditRequest
	if err := response.Decode(w, r, maxBodyBytes, &req); err != nil {
		h.logger.Warn().Err(err).Str("media_id", id).Msg("Failed to decode edit request")
		response.Error(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "Validation failed", err)
		return
	}

	m, edit, err := h.usecase.ApplyEdit(r.Context(), id, transform.Preset(req.Preset), req.Params)
	if err != nil {
		h.handleError(w, err, id, "Failed to apply edit")
		return
	}

	response.JSON(w, h.logger, http.StatusAccepted, dto.ApplyEditResponse{
		Media: dto.NewMediaResponse(m, nil),
		Edit:  dto.NewEditResponse(edit),
	})
}

func (h *MediaHandler) RevertMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	m, err := h.usecase.RevertMedia(r.Context(), id)
	if err != nil {
		h.handleError(w, err, id, "Failed to revert media")
		return
	}

	response.JSON(w, h.logger, http.StatusOK, dto.NewMediaResponse(m, nil))
}

func (h *MediaHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	edit, err := h.usecase.GetEdit(r.Context(), id)
	if err != nil {
		h.handleError(w, err, id, "Failed to get edit")
		return
	}

	response.JSON(w, h.logger, http.StatusOK, dto.NewEditResponse(edit))
}

func (h *MediaHandler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := dto.MediaIDRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "ID is required", nil)
		return "", false
	}
	return req.ID, true
}

func (h *MediaHandler) handleError(w http.ResponseWriter, err error, id, message string) {
	switch {
	case errors.Is(err, media_uc.ErrMediaNotFound):
		response.Error(w, h.logger, http.StatusNotFound, "Media not found", nil)
	case errors.Is(err, media_uc.ErrEditNotFound):
		response.Error(w, h.logger, http.StatusNotFound, "Edit not found", nil)
	case errors.Is(err, media_uc.ErrOriginNotFound):
		response.Error(w, h.logger, http.StatusUnprocessableEntity, "Asset not found in origin", nil)
	case errors.Is(err, media_uc.ErrInvalidURL),
		errors.Is(err, media_uc.ErrInvalidPreset),
		errors.Is(err, media_uc.ErrInvalidKind),
		errors.Is(err, media_uc.ErrTooManyParams):
		response.Error(w, h.logger, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, media_uc.ErrConflict):
		response.Error(w, h.logger, http.StatusConflict, "Media is being edited concurrently, retry", nil)
	case errors.Is(err, media_uc.ErrMessageQueueError):
		h.logger.Error().Err(err).Str("id", id).Msg(message)
		response.Error(w, h.logger, http.StatusServiceUnavailable, message, nil)
	default:
		h.logger.Error().Err(err).Str("id", id).Msg(message)
		response.Error(w, h.logger, http.StatusInternalServerError, message, nil)
	}
}
