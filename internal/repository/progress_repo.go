package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
)

type ProgressRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProgressRepository(db *pgxpool.Pool, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the progress row for a user, or (nil, nil) when none exists yet.
func (r *ProgressRepository) Get(ctx context.Context, userID string) (*model.Progress, error) {
	query := `
        SELECT user_id, current_day, streak, last_completed
        FROM progress
        WHERE user_id = $1
    `
	var p model.Progress
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.CurrentDay, &p.Streak, &p.LastCompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get progress", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// Seed creates the initial progress row if the user has none.
// Re-running it for an already seeded user is a no-op.
func (r *ProgressRepository) Seed(ctx context.Context, userID string) error {
	query := `
        INSERT INTO progress (user_id, current_day, streak)
        VALUES ($1, 1, 0)
        ON CONFLICT (user_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to seed progress",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *ProgressRepository) Save(ctx context.Context, p model.Progress) error {
	query := `
        UPDATE progress
        SET current_day = $1, streak = $2, last_completed = $3
        WHERE user_id = $4
    `
	_, err := r.db.Exec(ctx, query, p.CurrentDay, p.Streak, p.LastCompletedAt, p.UserID)
	if err != nil {
		r.logger.Error("Failed to save progress",
			zap.String("user_id", p.UserID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Debug("Progress saved",
		zap.String("user_id", p.UserID),
		zap.Int("current_day", p.CurrentDay),
		zap.Int("streak", p.Streak),
	)
	return nil
}
