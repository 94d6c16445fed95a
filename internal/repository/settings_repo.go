package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
)

// SettingsRepository persists notification settings, independent from the
// progress record.
type SettingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSettingsRepository(db *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the settings row for a user, or (nil, nil) when none exists yet.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	query := `
        SELECT user_id, email_notifications, daily_reminders
        FROM user_settings
        WHERE user_id = $1
    `
	var s model.NotificationSettings
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.EmailNotifications, &s.DailyReminders,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get settings", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

// Upsert replaces the settings singleton for a user.
func (r *SettingsRepository) Upsert(ctx context.Context, s model.NotificationSettings) error {
	query := `
        INSERT INTO user_settings (user_id, email_notifications, daily_reminders)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET email_notifications = EXCLUDED.email_notifications,
            daily_reminders = EXCLUDED.daily_reminders
    `
	_, err := r.db.Exec(ctx, query, s.UserID, s.EmailNotifications, s.DailyReminders)
	if err != nil {
		r.logger.Error("Failed to upsert settings",
			zap.String("user_id", s.UserID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
