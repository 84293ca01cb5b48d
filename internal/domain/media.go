package domain

import "time"

type Media struct {
	ID          string
	OwnerID     string
	Kind        MediaKind
	Title       string
	OriginalURL string
	CurrentURL  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == KindImage || k == KindVideo
}

type Edit struct {
	ID         string
	MediaID    string
	Preset     string
	Parameters string
	SourceURL  string
	ResultURL  string
	Status     EditStatus
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type EditStatus string

const (
	EditPending EditStatus = "pending"
	EditReady   EditStatus = "ready"
	EditFailed  EditStatus = "failed"
)
