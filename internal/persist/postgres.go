package persist

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
	"prepbuddy/internal/repository"
	"prepbuddy/pkg/metrics"
)

// PostgresAdapter backs authenticated mode with identity-scoped durable
// writes. Every backend rejection maps to *apperr.PersistenceError so the
// store can keep its write-through contract.
type PostgresAdapter struct {
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	progress   *repository.ProgressRepository
	settings   *repository.SettingsRepository
	logger     *zap.Logger
}

func NewPostgresAdapter(db *pgxpool.Pool, logger *zap.Logger) *PostgresAdapter {
	return &PostgresAdapter{
		tasks:      repository.NewTaskRepository(db, logger),
		categories: repository.NewCategoryRepository(db, logger),
		progress:   repository.NewProgressRepository(db, logger),
		settings:   repository.NewSettingsRepository(db, logger),
		logger:     logger,
	}
}

// Hydrate loads the full snapshot for the session's identity, seeding the
// default category set, the initial progress row and default settings on
// first contact. Seeding is idempotent: a re-hydrated identity never gets
// duplicates.
func (a *PostgresAdapter) Hydrate(ctx context.Context, session model.Session) (*Snapshot, error) {
	start := time.Now()
	defer func() { metrics.RecordPersist("hydrate", "postgres", time.Since(start)) }()

	categories, err := a.categories.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Persistence("hydrate categories", err)
	}

	if len(categories) == 0 {
		for _, c := range DefaultCategories(session.UserID) {
			c.CreatedAt = time.Now()
			if err := a.categories.Insert(ctx, &c); err != nil {
				return nil, apperr.Persistence("seed categories", err)
			}
		}
		categories, err = a.categories.ListByUser(ctx, session.UserID)
		if err != nil {
			return nil, apperr.Persistence("hydrate categories", err)
		}
	}

	tasks, err := a.tasks.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Persistence("hydrate tasks", err)
	}

	progress, err := a.progress.Get(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Persistence("hydrate progress", err)
	}
	if progress == nil {
		if err := a.progress.Seed(ctx, session.UserID); err != nil {
			return nil, apperr.Persistence("seed progress", err)
		}
		p := model.DefaultProgress(session.UserID)
		progress = &p
	}

	settings, err := a.settings.Get(ctx, session.UserID)
	if err != nil {
		return nil, apperr.Persistence("hydrate settings", err)
	}
	if settings == nil {
		s := model.DefaultNotificationSettings(session.UserID)
		if err := a.settings.Upsert(ctx, s); err != nil {
			return nil, apperr.Persistence("seed settings", err)
		}
		settings = &s
	}

	a.logger.Info("Hydrated session",
		zap.String("user_id", session.UserID),
		zap.Int("tasks", len(tasks)),
		zap.Int("categories", len(categories)),
		zap.Int("current_day", progress.CurrentDay),
	)

	return &Snapshot{
		Tasks:      tasks,
		Categories: categories,
		Progress:   *progress,
		Settings:   *settings,
	}, nil
}

func (a *PostgresAdapter) CreateTask(ctx context.Context, t *model.Task) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("create_task", "postgres", time.Since(start)) }()

	if err := a.tasks.Insert(ctx, t); err != nil {
		return apperr.Persistence("create task", err)
	}
	return nil
}

func (a *PostgresAdapter) UpdateTask(ctx context.Context, t model.Task) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("update_task", "postgres", time.Since(start)) }()

	if err := a.tasks.Update(ctx, &t); err != nil {
		return apperr.Persistence("update task", err)
	}
	return nil
}

func (a *PostgresAdapter) DeleteTask(ctx context.Context, userID, id string) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("delete_task", "postgres", time.Since(start)) }()

	if err := a.tasks.Delete(ctx, userID, id); err != nil {
		return apperr.Persistence("delete task", err)
	}
	return nil
}

func (a *PostgresAdapter) DeleteAllTasks(ctx context.Context, userID string) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("delete_all_tasks", "postgres", time.Since(start)) }()

	if err := a.tasks.DeleteAllByUser(ctx, userID); err != nil {
		return apperr.Persistence("delete all tasks", err)
	}
	return nil
}

func (a *PostgresAdapter) CreateCategory(ctx context.Context, c *model.Category) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("create_category", "postgres", time.Since(start)) }()

	if err := a.categories.Insert(ctx, c); err != nil {
		return apperr.Persistence("create category", err)
	}
	return nil
}

func (a *PostgresAdapter) UpdateCategory(ctx context.Context, c model.Category) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("update_category", "postgres", time.Since(start)) }()

	if err := a.categories.Update(ctx, &c); err != nil {
		return apperr.Persistence("update category", err)
	}
	return nil
}

func (a *PostgresAdapter) DeleteCategory(ctx context.Context, userID, id string) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("delete_category", "postgres", time.Since(start)) }()

	if err := a.categories.Delete(ctx, userID, id); err != nil {
		return apperr.Persistence("delete category", err)
	}
	return nil
}

func (a *PostgresAdapter) SaveProgress(ctx context.Context, p model.Progress) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("save_progress", "postgres", time.Since(start)) }()

	if err := a.progress.Save(ctx, p); err != nil {
		return apperr.Persistence("save progress", err)
	}
	return nil
}

func (a *PostgresAdapter) SaveSettings(ctx context.Context, s model.NotificationSettings) error {
	start := time.Now()
	defer func() { metrics.RecordPersist("save_settings", "postgres", time.Since(start)) }()

	if err := a.settings.Upsert(ctx, s); err != nil {
		return apperr.Persistence("save settings", err)
	}
	return nil
}
