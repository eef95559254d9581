package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type PostRepository interface {
	// CreateFirstFree atomically claims the phone's lifetime free slot and
	// inserts the post in one transaction. Returns false without inserting
	// when the slot was already claimed (possibly by a concurrent request).
	CreateFirstFree(ctx context.Context, post *models.Post) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetByPaymentRef(ctx context.Context, externalRef string) (*models.Post, error)
	GetByPhone(ctx context.Context, phone string) ([]models.Post, error)
	GetByStatus(ctx context.Context, status string, limit, offset int) ([]models.Post, error)
	GetApproved(ctx context.Context, limit, offset int) ([]models.Post, error)
	CountByPhone(ctx context.Context, phone string) (int, error)
	HasFreeSlot(ctx context.Context, phone string) (bool, error)
	// IncrementFreeRepost applies a free-tier repost: bumps repost_count,
	// resets the post to pending and clears expiry, but only while the
	// quota guard holds. Returns models.ErrQuotaExceeded when it does not.
	IncrementFreeRepost(ctx context.Context, postID string) error
	// ApplyRepostPayment applies a confirmed repost payment in one guarded
	// update. Returns false when the reference was already recorded, so a
	// duplicate webhook delivery never double-increments.
	ApplyRepostPayment(ctx context.Context, postID, externalRef string, expiresAt time.Time) (bool, error)
	Approve(ctx context.Context, postID string, expiresAt time.Time) error
	Reject(ctx context.Context, postID string) error
	Delete(ctx context.Context, postID string) error
}

type IntentRepository interface {
	// CreateSuperseding inserts a pending intent, first marking any prior
	// pending intent for the same (phone, target) as deleted. At most one
	// live charge per target survives.
	CreateSuperseding(ctx context.Context, intent *models.PaymentIntent) error
	GetByRef(ctx context.Context, externalRef string) (*models.PaymentIntent, error)
	// Consume flips a pending intent to confirmed. Returns false when the
	// intent was no longer pending (already consumed or written off).
	Consume(ctx context.Context, externalRef string) (bool, error)
	MarkStatus(ctx context.Context, externalRef, status string) error
}

type MediaRepository interface {
	Create(ctx context.Context, media *models.PostMedia) error
	GetByPostID(ctx context.Context, postID string) ([]models.PostMedia, error)
	Delete(ctx context.Context, mediaID string) error
	DeleteByPostID(ctx context.Context, postID string) error
}

type StatsRepository interface {
	CountByStatus(ctx context.Context) (*models.StatusCounts, error)
}

type Repository struct {
	Post   PostRepository
	Intent IntentRepository
	Media  MediaRepository
	Stats  StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Post:   NewPostRepository(db),
		Intent: NewIntentRepository(db),
		Media:  NewMediaRepository(db),
		Stats:  NewStatsRepository(db),
	}
}
