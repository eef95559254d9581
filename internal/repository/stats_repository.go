package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

type StatsRepositoryImpl struct {
	DB *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepositoryImpl {
	return &StatsRepositoryImpl{DB: db}
}

func (r *StatsRepositoryImpl) CountByStatus(ctx context.Context) (*models.StatusCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')  AS pending,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
			COUNT(*)                                    AS total
		FROM posts
	`

	var counts models.StatusCounts
	if err := r.DB.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("could not count posts by status: %w", err)
	}

	return &counts, nil
}
