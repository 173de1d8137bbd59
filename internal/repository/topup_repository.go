package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TopUpRepository struct {
	*base.Repository
}

func NewTopUpRepository(pool *pgxpool.Pool) *TopUpRepository {
	return &TopUpRepository{Repository: base.NewRepository(pool)}
}

func (r *TopUpRepository) WithTx(tx pgx.Tx) *TopUpRepository {
	return &TopUpRepository{Repository: r.Repository.WithTx(tx)}
}

func (r *TopUpRepository) Create(ctx context.Context, t *model.TopUp) error {
	query := `
		INSERT INTO topups (session_id, user_id, team_id, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, t.SessionID, t.UserID, t.TeamID, t.Amount, t.Status).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create topup: %w", err)
	}
	return nil
}

// MarkCompleted moves a pending top-up to completed. Returns nil, nil if the session
// is unknown or was already processed.
func (r *TopUpRepository) MarkCompleted(ctx context.Context, sessionID string) (*model.TopUp, error) {
	query := `
		UPDATE topups
		SET status = 'completed', completed_at = now()
		WHERE session_id = $1 AND status = 'pending'
		RETURNING id, session_id, user_id, team_id, amount, status, created_at, completed_at
	`

	var t model.TopUp
	err := r.QueryRow(ctx, query, sessionID).Scan(
		&t.ID, &t.SessionID, &t.UserID, &t.TeamID, &t.Amount, &t.Status, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("complete topup: %w", err)
	}
	return &t, nil
}

// MarkExpired closes a pending session that was abandoned
func (r *TopUpRepository) MarkExpired(ctx context.Context, sessionID string) error {
	query := `UPDATE topups SET status = 'expired' WHERE session_id = $1 AND status = 'pending'`

	if _, err := r.ExecAffected(ctx, query, sessionID); err != nil {
		return fmt.Errorf("expire topup: %w", err)
	}
	return nil
}
