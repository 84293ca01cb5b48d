package media

import "errors"

var (
	ErrMediaNotFound  = errors.New("media not found")
	ErrEditNotFound   = errors.New("edit not found")
	ErrObjectNotFound = errors.New("object not found")
	ErrStorageError   = errors.New("storage error")

	ErrCurrentURLChanged = errors.New("current url changed concurrently")
)
