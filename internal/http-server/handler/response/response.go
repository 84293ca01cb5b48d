package response

import (
	"encoding/json"
	"net/http"

	"github.com/wb-go/wbf/zlog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, logger *zlog.Zerolog, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Interface("data", data).Msg("Failed to encode response")
	}
}

// Error writes an ErrorResponse. err, when set, is exposed as details.
func Error(w http.ResponseWriter, logger *zlog.Zerolog, status int, message string, err error) {
	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		resp.Details = err.Error()
	}

	JSON(w, logger, status, resp)
}

// Decode reads a JSON body keeping numbers as json.Number.
func Decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
