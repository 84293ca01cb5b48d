// Package transform serves stateless URL previews and inspection.
package transform

import (
	"errors"
	"net/http"

	"media-editor/internal/http-server/handler/response"
	"media-editor/internal/http-server/handler/transform/dto"
	"media-editor/internal/transform"
	media_uc "media-editor/internal/usecase/media"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const maxBodyBytes = 64 << 10

type TransformHandler struct {
	usecase  transformUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewTransformHandler(usecase transformUsecase, logger *zlog.Zerolog) *TransformHandler {
	return &TransformHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *TransformHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := response.Decode(w, r, maxBodyBytes, &req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "Validation failed", err)
		return
	}

	url, err := h.usecase.Preview(req.URL, transform.Preset(req.Preset), req.Params)
	if err != nil {
		h.handleError(w, err, req.URL)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, dto.PreviewResponse{URL: url})
}

func (h *TransformHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	req := dto.InspectRequest{URL: r.URL.Query().Get("url")}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, h.logger, http.StatusBadRequest, "url query parameter is required", nil)
		return
	}

	insp, err := h.usecase.Inspect(req.URL)
	if err != nil {
		h.handleError(w, err, req.URL)
		return
	}

	response.JSON(w, h.logger, http.StatusOK, insp)
}

func (h *TransformHandler) handleError(w http.ResponseWriter, err error, url string) {
	switch {
	case errors.Is(err, media_uc.ErrInvalidURL),
		errors.Is(err, media_uc.ErrInvalidPreset),
		errors.Is(err, media_uc.ErrTooManyParams):
		h.logger.Debug().Err(err).Str("url", url).Msg("Rejected transform request")
		response.Error(w, h.logger, http.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Str("url", url).Msg("Transform request failed")
		response.Error(w, h.logger, http.StatusInternalServerError, "Failed to transform url", nil)
	}
}
