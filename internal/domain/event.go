package domain

import "time"

// EditRequested is published once an edit's URL is stored; the readiness
// worker consumes it and polls the CDN until the URL renders.
type EditRequested struct {
	EditID      string    `json:"edit_id"`
	MediaID     string    `json:"media_id"`
	URL         string    `json:"url"`
	RequestedAt time.Time `json:"requested_at"`
}

const (
	DefaultMaxParams     = 32
	DefaultListEditLimit = 50
)
