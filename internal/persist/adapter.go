// Package persist translates store mutations into either a local in-memory
// effect (demo mode) or a durable Postgres write (authenticated mode), and
// performs hydration when a session is established.
package persist

import (
	"context"

	"prepbuddy/internal/model"
)

// Snapshot is the full initial state handed to the store on hydration.
type Snapshot struct {
	Tasks      []model.Task
	Categories []model.Category
	Progress   model.Progress
	Settings   model.NotificationSettings
}

// Adapter is the uniform interface over the two persistence strategies.
// Writes for a single entity are applied in the order the store issues
// them; the adapter never reorders or batches across entities. In
// authenticated mode a write failure surfaces as *apperr.PersistenceError
// and the store must not apply the corresponding in-memory mutation.
type Adapter interface {
	Hydrate(ctx context.Context, session model.Session) (*Snapshot, error)

	// CreateTask assigns the task id: locally generated in demo mode,
	// backend-assigned in authenticated mode.
	CreateTask(ctx context.Context, t *model.Task) error
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	DeleteAllTasks(ctx context.Context, userID string) error

	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error

	SaveProgress(ctx context.Context, p model.Progress) error
	SaveSettings(ctx context.Context, s model.NotificationSettings) error
}

// DefaultCategories returns the fixed seed set every fresh session starts
// with.
func DefaultCategories(userID string) []model.Category {
	seed := []struct {
		name  string
		color string
	}{
		{"DSA", "#7C3AED"},
		{"Aptitude", "#10B981"},
		{"CS Fundamentals", "#8B5CF6"},
		{"Resume", "#F59E0B"},
		{"Projects", "#EC4899"},
		{"Mock Interviews", "#EF4444"},
		{"Contests", "#6366F1"},
	}

	categories := make([]model.Category, 0, len(seed))
	for _, s := range seed {
		categories = append(categories, model.Category{
			UserID: userID,
			Name:   s.name,
			Color:  s.color,
		})
	}
	return categories
}
