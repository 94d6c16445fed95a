package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Insert stores a task and fills in the backend-assigned id.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("user_id", t.UserID),
		zap.String("title", t.Title),
		zap.Int("day", t.Day),
	)

	query := `
        INSERT INTO tasks (user_id, title, completed, category, day, created_at, notes, target_company)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		t.UserID,
		t.Title,
		t.Completed,
		t.Category,
		t.Day,
		t.CreatedAt,
		t.Notes,
		t.TargetCompany,
	).Scan(&t.ID)

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return err
	}

	r.logger.Info("Task inserted successfully",
		zap.String("id", t.ID),
		zap.String("user_id", t.UserID),
	)
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, completed = $2, category = $3, day = $4, notes = $5, target_company = $6
        WHERE id = $7 AND user_id = $8
    `
	_, err := r.db.Exec(ctx, query,
		t.Title,
		t.Completed,
		t.Category,
		t.Day,
		t.Notes,
		t.TargetCompany,
		t.ID,
		t.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.String("id", t.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.String("id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// DeleteAllByUser removes every task for a user. Used by progress reset.
func (r *TaskRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM tasks WHERE user_id = $1`
	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to delete tasks for user",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Deleted all tasks for user",
		zap.String("user_id", userID),
		zap.Int64("count", result.RowsAffected()),
	)
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	r.logger.Debug("Listing tasks for user", zap.String("user_id", userID))

	query := `
        SELECT id, user_id, title, completed, category, day, created_at, notes, target_company
        FROM tasks
        WHERE user_id = $1
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.Completed,
			&t.Category,
			&t.Day,
			&t.CreatedAt,
			&t.Notes,
			&t.TargetCompany,
		); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	r.logger.Debug("Listed tasks",
		zap.String("user_id", userID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}
