package persist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
	"prepbuddy/pkg/metrics"
)

// MemoryAdapter backs demo mode. Every write mutates only the in-memory
// mirror and always succeeds; nothing survives the process.
type MemoryAdapter struct {
	logger *zap.Logger

	tasks      map[string]model.Task
	categories map[string]model.Category
	progress   model.Progress
	settings   model.NotificationSettings
	seeded     bool
}

func NewMemoryAdapter(logger *zap.Logger) *MemoryAdapter {
	return &MemoryAdapter{
		logger:     logger,
		tasks:      make(map[string]model.Task),
		categories: make(map[string]model.Category),
	}
}

func (a *MemoryAdapter) Hydrate(ctx context.Context, session model.Session) (*Snapshot, error) {
	start := time.Now()
	defer func() { metrics.RecordPersist("hydrate", "memory", time.Since(start)) }()

	if !a.seeded {
		for _, c := range DefaultCategories(session.UserID) {
			c.ID = uuid.NewString()
			c.CreatedAt = time.Now()
			a.categories[c.ID] = c
		}
		a.progress = model.DefaultProgress(session.UserID)
		a.settings = model.DefaultNotificationSettings(session.UserID)
		a.seeded = true
		a.logger.Info("Seeded demo session",
			zap.String("user_id", session.UserID),
			zap.Int("categories", len(a.categories)),
		)
	}

	return &Snapshot{
		Tasks:      a.taskList(),
		Categories: a.categoryList(),
		Progress:   a.progress,
		Settings:   a.settings,
	}, nil
}

func (a *MemoryAdapter) CreateTask(ctx context.Context, t *model.Task) error {
	t.ID = uuid.NewString()
	a.tasks[t.ID] = *t
	return nil
}

func (a *MemoryAdapter) UpdateTask(ctx context.Context, t model.Task) error {
	a.tasks[t.ID] = t
	return nil
}

func (a *MemoryAdapter) DeleteTask(ctx context.Context, userID, id string) error {
	delete(a.tasks, id)
	return nil
}

func (a *MemoryAdapter) DeleteAllTasks(ctx context.Context, userID string) error {
	a.tasks = make(map[string]model.Task)
	return nil
}

func (a *MemoryAdapter) CreateCategory(ctx context.Context, c *model.Category) error {
	c.ID = uuid.NewString()
	a.categories[c.ID] = *c
	return nil
}

func (a *MemoryAdapter) UpdateCategory(ctx context.Context, c model.Category) error {
	a.categories[c.ID] = c
	return nil
}

func (a *MemoryAdapter) DeleteCategory(ctx context.Context, userID, id string) error {
	delete(a.categories, id)
	return nil
}

func (a *MemoryAdapter) SaveProgress(ctx context.Context, p model.Progress) error {
	a.progress = p
	return nil
}

func (a *MemoryAdapter) SaveSettings(ctx context.Context, s model.NotificationSettings) error {
	a.settings = s
	return nil
}

func (a *MemoryAdapter) taskList() []model.Task {
	tasks := make([]model.Task, 0, len(a.tasks))
	for _, t := range a.tasks {
		tasks = append(tasks, t)
	}
	return tasks
}

func (a *MemoryAdapter) categoryList() []model.Category {
	categories := make([]model.Category, 0, len(a.categories))
	for _, c := range a.categories {
		categories = append(categories, c)
	}
	return categories
}
