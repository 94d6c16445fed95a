package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepbuddy/internal/model"
)

func demoSession() model.Session {
	return model.Session{
		UserID: "demo-user-123",
		Email:  "demo@prepbuddy.com",
		Mode:   model.ModeDemo,
	}
}

func TestMemoryHydrateSeedsOnce(t *testing.T) {
	a := NewMemoryAdapter(zap.NewNop())

	first, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)
	assert.Len(t, first.Categories, 7)
	assert.Equal(t, 1, first.Progress.CurrentDay)
	assert.True(t, first.Settings.DailyReminders)

	// Re-hydrating an already seeded session must not duplicate the seed.
	second, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)
	assert.Len(t, second.Categories, 7)
}

func TestMemoryAssignsTaskIDs(t *testing.T) {
	a := NewMemoryAdapter(zap.NewNop())
	_, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)

	t1 := model.Task{UserID: demoSession().UserID, Title: "a", Day: 1}
	t2 := model.Task{UserID: demoSession().UserID, Title: "b", Day: 1}
	require.NoError(t, a.CreateTask(context.Background(), &t1))
	require.NoError(t, a.CreateTask(context.Background(), &t2))

	assert.NotEmpty(t, t1.ID)
	assert.NotEmpty(t, t2.ID)
	assert.NotEqual(t, t1.ID, t2.ID, "task identity is unique within a session")

	snapshot, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)
	assert.Len(t, snapshot.Tasks, 2)
}

func TestMemoryDeleteAllTasks(t *testing.T) {
	a := NewMemoryAdapter(zap.NewNop())
	_, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)

	task := model.Task{UserID: demoSession().UserID, Title: "a", Day: 1}
	require.NoError(t, a.CreateTask(context.Background(), &task))
	require.NoError(t, a.DeleteAllTasks(context.Background(), demoSession().UserID))

	snapshot, err := a.Hydrate(context.Background(), demoSession())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Tasks)
}
