package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type IntentRepositoryImpl struct {
	DB *sqlx.DB
}

func NewIntentRepository(db *sqlx.DB) *IntentRepositoryImpl {
	return &IntentRepositoryImpl{DB: db}
}

func (r *IntentRepositoryImpl) CreateSuperseding(ctx context.Context, intent *models.PaymentIntent) error {
	now := time.Now()
	intent.CreatedAt = now
	intent.UpdatedAt = now
	if intent.Status == "" {
		intent.Status = models.IntentPending
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Write off any charge still pending for the same target. The partial
	// unique index on pending intents backs this up at the schema level.
	_, err = tx.ExecContext(ctx,
		`UPDATE payment_intents SET status = 'deleted', updated_at = NOW()
		 WHERE phone = $1 AND target_type = $2 AND COALESCE(post_id::text, '') = COALESCE($3, '')
		   AND status = 'pending'`,
		intent.Phone, intent.TargetType, intent.PostID,
	)
	if err != nil {
		return fmt.Errorf("could not supersede pending intent: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO payment_intents
        (external_ref, provider, phone, amount, target_type, post_id, metadata, status, created_at, updated_at)
        VALUES
        (:external_ref, :provider, :phone, :amount, :target_type, :post_id, :metadata, :status, :created_at, :updated_at)
    `, intent)
	if err != nil {
		return fmt.Errorf("could not create payment intent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit payment intent: %w", err)
	}

	return nil
}

func (r *IntentRepositoryImpl) GetByRef(ctx context.Context, externalRef string) (*models.PaymentIntent, error) {
	query := `SELECT * FROM payment_intents WHERE external_ref = $1`

	var intent models.PaymentIntent
	err := r.DB.GetContext(ctx, &intent, query, externalRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrIntentNotFound
		}
		return nil, fmt.Errorf("could not load payment intent: %w", err)
	}

	return &intent, nil
}

func (r *IntentRepositoryImpl) Consume(ctx context.Context, externalRef string) (bool, error) {
	// Pending is consumed exactly once; everything else matches zero rows.
	query := `
		UPDATE payment_intents SET
			status = 'confirmed',
			updated_at = NOW()
		WHERE external_ref = $1 AND status = 'pending'
	`

	result, err := r.DB.ExecContext(ctx, query, externalRef)
	if err != nil {
		return false, fmt.Errorf("could not consume payment intent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not check updated rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *IntentRepositoryImpl) MarkStatus(ctx context.Context, externalRef, status string) error {
	query := `
		UPDATE payment_intents SET
			status = $2,
			updated_at = NOW()
		WHERE external_ref = $1 AND status = 'pending'
	`

	if _, err := r.DB.ExecContext(ctx, query, externalRef, status); err != nil {
		return fmt.Errorf("could not mark payment intent %s: %w", status, err)
	}

	return nil
}
