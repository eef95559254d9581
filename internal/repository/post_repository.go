package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

const insertPostQuery = `
        INSERT INTO posts
        (post_id, title, description, price, category, contact_name, contact_phone,
         status, is_paid, payment_ref, repost_count, max_reposts, expires_at, created_at, updated_at)
        VALUES
        (:post_id, :title, :description, :price, :category, :contact_name, :contact_phone,
         :status, :is_paid, :payment_ref, :repost_count, :max_reposts, :expires_at, :created_at, :updated_at)
    `

func prepareInsert(post *models.Post) {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
}

func (r *PostRepositoryImpl) CreateFirstFree(ctx context.Context, post *models.Post) (bool, error) {
	prepareInsert(post)

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The insert is the compare-and-swap on the per-phone free slot: a second
	// concurrent first-post request hits the primary key and claims nothing.
	result, err := tx.ExecContext(ctx,
		`INSERT INTO free_slots (phone, post_id) VALUES ($1, $2) ON CONFLICT (phone) DO NOTHING`,
		post.ContactPhone, post.PostID,
	)
	if err != nil {
		return false, fmt.Errorf("could not claim free slot: %w", err)
	}

	claimed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not check claimed rows: %w", err)
	}
	if claimed == 0 {
		return false, nil
	}

	if _, err := tx.NamedExecContext(ctx, insertPostQuery, post); err != nil {
		return false, fmt.Errorf("could not create post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit post creation: %w", err)
	}

	return true, nil
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	prepareInsert(post)

	if _, err := r.DB.NamedExecContext(ctx, insertPostQuery, post); err != nil {
		// The partial unique index on payment_ref turns a racing duplicate
		// insert into a conflict instead of a second post.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "ux_posts_payment_ref" {
			return models.ErrDuplicatePaymentRef
		}
		return fmt.Errorf("could not create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT * FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("could not load post: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetByPaymentRef(ctx context.Context, externalRef string) (*models.Post, error) {
	query := `SELECT * FROM posts WHERE payment_ref = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, externalRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("could not load post by payment reference: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetByPhone(ctx context.Context, phone string) ([]models.Post, error) {
	query := `SELECT * FROM posts WHERE contact_phone = $1 ORDER BY created_at DESC`

	var posts []models.Post
	if err := r.DB.SelectContext(ctx, &posts, query, phone); err != nil {
		return nil, fmt.Errorf("could not list posts by phone: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetByStatus(ctx context.Context, status string, limit, offset int) ([]models.Post, error) {
	query := `SELECT * FROM posts WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	var posts []models.Post
	if err := r.DB.SelectContext(ctx, &posts, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("could not list posts by status: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetApproved(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT * FROM posts
		WHERE status = 'approved' AND expires_at > NOW()
		ORDER BY expires_at DESC LIMIT $1 OFFSET $2
	`

	var posts []models.Post
	if err := r.DB.SelectContext(ctx, &posts, query, limit, offset); err != nil {
		return nil, fmt.Errorf("could not list active posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) CountByPhone(ctx context.Context, phone string) (int, error) {
	query := `SELECT COUNT(*) FROM posts WHERE contact_phone = $1`

	var count int
	if err := r.DB.GetContext(ctx, &count, query, phone); err != nil {
		return 0, fmt.Errorf("could not count posts by phone: %w", err)
	}

	return count, nil
}

func (r *PostRepositoryImpl) HasFreeSlot(ctx context.Context, phone string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM free_slots WHERE phone = $1)`

	var claimed bool
	if err := r.DB.GetContext(ctx, &claimed, query, phone); err != nil {
		return false, fmt.Errorf("could not check free slot: %w", err)
	}

	return !claimed, nil
}

func (r *PostRepositoryImpl) IncrementFreeRepost(ctx context.Context, postID string) error {
	// The quota guard lives in the WHERE clause so two racing reposts cannot
	// both slip under the cap.
	query := `
		UPDATE posts SET
			repost_count = repost_count + 1,
			status = 'pending',
			expires_at = NULL,
			updated_at = NOW()
		WHERE post_id = $1 AND is_paid = FALSE AND repost_count < max_reposts
	`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("could not apply free repost: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrQuotaExceeded
	}

	return nil
}

func (r *PostRepositoryImpl) ApplyRepostPayment(ctx context.Context, postID, externalRef string, expiresAt time.Time) (bool, error) {
	// Reference inequality in the guard makes duplicate webhook deliveries
	// a no-op: the second delivery matches zero rows.
	query := `
		UPDATE posts SET
			repost_count = repost_count + 1,
			status = 'approved',
			payment_ref = $2,
			expires_at = $3,
			updated_at = NOW()
		WHERE post_id = $1 AND (payment_ref IS NULL OR payment_ref <> $2)
	`

	result, err := r.DB.ExecContext(ctx, query, postID, externalRef, expiresAt)
	if err != nil {
		return false, fmt.Errorf("could not apply repost payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not check updated rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostRepositoryImpl) Approve(ctx context.Context, postID string, expiresAt time.Time) error {
	query := `
		UPDATE posts SET
			status = 'approved',
			expires_at = COALESCE(expires_at, $2),
			updated_at = NOW()
		WHERE post_id = $1 AND status = 'pending'
	`

	result, err := r.DB.ExecContext(ctx, query, postID, expiresAt)
	if err != nil {
		return fmt.Errorf("could not approve post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostRepositoryImpl) Reject(ctx context.Context, postID string) error {
	query := `
		UPDATE posts SET
			status = 'rejected',
			updated_at = NOW()
		WHERE post_id = $1 AND status = 'pending'
	`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("could not reject post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
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
