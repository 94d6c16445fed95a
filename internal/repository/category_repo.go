package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Insert(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (user_id, name, color, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, c.UserID, c.Name, c.Color, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		r.logger.Error("Failed to insert category", zap.Error(err))
		return err
	}

	r.logger.Info("Category inserted successfully",
		zap.String("id", c.ID),
		zap.String("name", c.Name),
	)
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = $1, color = $2
        WHERE id = $3 AND user_id = $4
    `
	_, err := r.db.Exec(ctx, query, c.Name, c.Color, c.ID, c.UserID)
	if err != nil {
		r.logger.Error("Failed to update category",
			zap.String("id", c.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Delete removes a category row. Tasks referencing it by name are left
// untouched on purpose.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete category",
			zap.String("id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	query := `
        SELECT id, user_id, name, color, created_at
        FROM categories
        WHERE user_id = $1
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			r.logger.Error("Failed to scan category", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, nil
}
