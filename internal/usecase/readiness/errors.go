package readiness

import "errors"

var (
	ErrNotReady   = errors.New("url not ready")
	ErrRejected   = errors.New("url rejected by cdn")
	ErrInvalidURL = errors.New("invalid url")
)
