package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type MediaRepositoryImpl struct {
	DB *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepositoryImpl {
	return &MediaRepositoryImpl{DB: db}
}

func (r *MediaRepositoryImpl) Create(ctx context.Context, media *models.PostMedia) error {
	if media.MediaID == "" {
		media.MediaID = uuid.New().String()
	}
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now()
	}

	query := `
        INSERT INTO post_media (media_id, post_id, url, media_type, aspect_ratio, created_at)
        VALUES (:media_id, :post_id, :url, :media_type, :aspect_ratio, :created_at)
    `

	if _, err := r.DB.NamedExecContext(ctx, query, media); err != nil {
		return fmt.Errorf("could not create media record: %w", err)
	}

	return nil
}

func (r *MediaRepositoryImpl) GetByPostID(ctx context.Context, postID string) ([]models.PostMedia, error) {
	query := `SELECT * FROM post_media WHERE post_id = $1 ORDER BY created_at`

	var media []models.PostMedia
	if err := r.DB.SelectContext(ctx, &media, query, postID); err != nil {
		return nil, fmt.Errorf("could not list media: %w", err)
	}

	return media, nil
}

func (r *MediaRepositoryImpl) Delete(ctx context.Context, mediaID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM post_media WHERE media_id = $1`, mediaID)
	if err != nil {
		return fmt.Errorf("could not delete media: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *MediaRepositoryImpl) DeleteByPostID(ctx context.Context, postID string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM post_media WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("could not delete media for post: %w", err)
	}

	return nil
}
