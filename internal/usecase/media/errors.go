package media

import "errors"

var (
	ErrInvalidURL        = errors.New("invalid media url")
	ErrInvalidPreset     = errors.New("invalid preset")
	ErrInvalidKind       = errors.New("invalid media kind")
	ErrTooManyParams     = errors.New("too many parameters")
	ErrOriginNotFound    = errors.New("asset not found in origin")
	ErrMediaNotFound     = errors.New("media not found")
	ErrEditNotFound      = errors.New("edit not found")
	ErrMessageQueueError = errors.New("message queue error")
	ErrConflict          = errors.New("media changed concurrently")
)
