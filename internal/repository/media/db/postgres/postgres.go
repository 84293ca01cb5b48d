package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"media-editor/internal/domain"
	"media-editor/internal/repository/media"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type MediaRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewMediaRepository(db *dbpg.DB, retries retry.Strategy) *MediaRepository {
	return &MediaRepository{
		db:      db,
		retries: retries,
	}
}

func (r *MediaRepository) Save(ctx context.Context, m *domain.Media) error {
	query := `
		INSERT INTO media (
			id, owner_id, kind, title, original_url,
			current_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		m.ID,
		m.OwnerID,
		m.Kind,
		m.Title,
		m.OriginalURL,
		m.CurrentURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save media: %w", err)
	}

	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `
		SELECT id, owner_id, kind, title, original_url,
		       current_url, created_at, updated_at
		FROM media
		WHERE id = $1
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}

	var m domain.Media
	err = row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Kind,
		&m.Title,
		&m.OriginalURL,
		&m.CurrentURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, media.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}

	return &m, nil
}

// UpdateCurrentURL moves the media's current URL from expected to url. It
// fails with ErrCurrentURLChanged when another writer got there first.
func (r *MediaRepository) UpdateCurrentURL(ctx context.Context, id, expected, url string) error {
	query := `UPDATE media SET current_url = $1, updated_at = $2 WHERE id = $3 AND current_url = $4`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, url, time.Now(), id, expected)
	if err != nil {
		return fmt.Errorf("failed to update current url: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return r.missOrConflict(ctx, id)
	}

	return nil
}

func (r *MediaRepository) missOrConflict(ctx context.Context, id string) error {
	row, err := r.db.QueryRowWithRetry(ctx, r.retries, `SELECT 1 FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to query media: %w", err)
	}

	var one int
	err = row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return media.ErrMediaNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to scan media: %w", err)
	}

	return media.ErrCurrentURLChanged
}

func (r *MediaRepository) SaveEdit(ctx context.Context, edit *domain.Edit) error {
	query := `
		INSERT INTO media_edits (
			id, media_id, preset, parameters, source_url,
			result_url, status, error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	edit.ID = uuid.New().String()
	edit.CreatedAt = time.Now()
	edit.UpdatedAt = edit.CreatedAt

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		edit.ID,
		edit.MediaID,
		edit.Preset,
		edit.Parameters,
		edit.SourceURL,
		edit.ResultURL,
		edit.Status,
		edit.Error,
		edit.CreatedAt,
		edit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save edit: %w", err)
	}

	return nil
}

func (r *MediaRepository) GetEdit(ctx context.Context, id string) (*domain.Edit, error) {
	query := `
		SELECT id, media_id, preset, parameters, source_url,
		       result_url, status, error, created_at, updated_at
		FROM media_edits
		WHERE id = $1
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query edit: %w", err)
	}

	var e domain.Edit
	err = row.Scan(
		&e.ID,
		&e.MediaID,
		&e.Preset,
		&e.Parameters,
		&e.SourceURL,
		&e.ResultURL,
		&e.Status,
		&e.Error,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, media.ErrEditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan edit: %w", err)
	}

	return &e, nil
}

func (r *MediaRepository) ListEdits(ctx context.Context, mediaID string, limit int) ([]domain.Edit, error) {
	query := `
		SELECT id, media_id, preset, parameters, source_url,
		       result_url, status, error, created_at, updated_at
		FROM media_edits
		WHERE media_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, mediaID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	var edits []domain.Edit
	for rows.Next() {
		var e domain.Edit
		err := rows.Scan(
			&e.ID,
			&e.MediaID,
			&e.Preset,
			&e.Parameters,
			&e.SourceURL,
			&e.ResultURL,
			&e.Status,
			&e.Error,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edit: %w", err)
		}
		edits = append(edits, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edits: %w", err)
	}

	return edits, nil
}

func (r *MediaRepository) UpdateEditStatus(ctx context.Context, id string, status domain.EditStatus, errMsg string) error {
	query := `UPDATE media_edits SET status = $1, error = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, status, errMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update edit status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return media.ErrEditNotFound
	}

	return nil
}
