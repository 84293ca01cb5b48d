package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"media-editor/internal/domain"
	"media-editor/internal/repository/media"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

func newTestRepository(t *testing.T) (*MediaRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewMediaRepository(&dbpg.DB{Master: db}, retry.Strategy{Attempts: 1})
	return repo, mock
}

var mediaColumns = []string{
	"id", "owner_id", "kind", "title", "original_url",
	"current_url", "created_at", "updated_at",
}

var editColumns = []string{
	"id", "media_id", "preset", "parameters", "source_url",
	"result_url", "status", "error", "created_at", "updated_at",
}

func TestMediaRepository_Save(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	m := &domain.Media{
		OwnerID:     "user-1",
		Kind:        domain.KindImage,
		Title:       "beach",
		OriginalURL: "https://cdn.example/acct/beach.jpg",
		CurrentURL:  "https://cdn.example/acct/beach.jpg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media")).
		WithArgs(sqlmock.AnyArg(), "user-1", domain.KindImage, "beach", m.OriginalURL, m.CurrentURL, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), m))
	assert.NotEmpty(t, m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				now := time.Now()
				mock.ExpectQuery(regexp.QuoteMeta("FROM media")).
					WithArgs("m-1").
					WillReturnRows(sqlmock.NewRows(mediaColumns).AddRow(
						"m-1", "user-1", "image", "beach",
						"https://cdn.example/acct/beach.jpg",
						"https://cdn.example/acct/tr:q-80/beach.jpg",
						now, now,
					))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM media")).
					WithArgs("m-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: media.ErrMediaNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)
			tt.setup(mock)

			m, err := repo.GetByID(context.Background(), "m-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "m-1", m.ID)
			assert.Equal(t, domain.KindImage, m.Kind)
			assert.Equal(t, "https://cdn.example/acct/tr:q-80/beach.jpg", m.CurrentURL)
		})
	}
}

func TestMediaRepository_UpdateCurrentURL(t *testing.T) {
	const (
		source = "https://cdn.example/acct/a.jpg"
		result = "https://cdn.example/acct/tr:w-10/a.jpg"
	)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "updated",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE media SET current_url")).
					WithArgs(result, sqlmock.AnyArg(), "m-1", source).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "changed concurrently",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE media SET current_url")).
					WithArgs(result, sqlmock.AnyArg(), "m-1", source).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM media")).
					WithArgs("m-1").
					WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
			},
			wantErr: media.ErrCurrentURLChanged,
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE media SET current_url")).
					WithArgs(result, sqlmock.AnyArg(), "m-1", source).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM media")).
					WithArgs("m-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: media.ErrMediaNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)
			tt.setup(mock)

			err := repo.UpdateCurrentURL(context.Background(), "m-1", source, result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMediaRepository_Edits(t *testing.T) {
	repo, mock := newTestRepository(t)
	ctx := context.Background()

	edit := &domain.Edit{
		MediaID:    "m-1",
		Preset:     "enhance",
		Parameters: `{"quality":90}`,
		SourceURL:  "https://cdn.example/acct/a.jpg",
		ResultURL:  "https://cdn.example/acct/tr:q-90/a.jpg",
		Status:     domain.EditPending,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media_edits")).
		WithArgs(sqlmock.AnyArg(), "m-1", "enhance", `{"quality":90}`, edit.SourceURL, edit.ResultURL,
			domain.EditPending, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.SaveEdit(ctx, edit))
	assert.NotEmpty(t, edit.ID)
	assert.False(t, edit.CreatedAt.IsZero())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM media_edits")).
		WithArgs("m-1", 10).
		WillReturnRows(sqlmock.NewRows(editColumns).
			AddRow("e-2", "m-1", "orient", `{"rotate":90}`, "s2", "r2", "ready", "", now, now).
			AddRow("e-1", "m-1", "enhance", `{"quality":90}`, "s1", "r1", "pending", "", now, now))

	edits, err := repo.ListEdits(ctx, "m-1", 10)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "e-2", edits[0].ID)
	assert.Equal(t, domain.EditReady, edits[0].Status)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE media_edits SET status")).
		WithArgs(domain.EditFailed, "timeout", sqlmock.AnyArg(), "e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateEditStatus(ctx, "e-1", domain.EditFailed, "timeout"))

	mock.ExpectQuery(regexp.QuoteMeta("FROM media_edits")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetEdit(ctx, "nope")
	assert.ErrorIs(t, err, media.ErrEditNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
