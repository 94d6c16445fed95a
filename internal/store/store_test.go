package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
	"prepbuddy/internal/notify"
	"prepbuddy/internal/persist"
)

func demoSession() model.Session {
	return model.Session{
		UserID: "demo-user-123",
		Email:  "demo@prepbuddy.com",
		Mode:   model.ModeDemo,
	}
}

// scriptedConfirmer answers the confirmation gate from a fixed script.
type scriptedConfirmer struct {
	answers []bool
	asked   int
}

func (s *scriptedConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.asked >= len(s.answers) {
		return false, errors.New("unexpected confirmation request")
	}
	answer := s.answers[s.asked]
	s.asked++
	return answer, nil
}

// flakyAdapter wraps the memory adapter and fails selected writes the way
// a rejected durable backend would.
type flakyAdapter struct {
	persist.Adapter
	failWrites bool
}

func (f *flakyAdapter) CreateTask(ctx context.Context, t *model.Task) error {
	if f.failWrites {
		return apperr.Persistence("create task", errors.New("backend rejected write"))
	}
	return f.Adapter.CreateTask(ctx, t)
}

func (f *flakyAdapter) UpdateTask(ctx context.Context, t model.Task) error {
	if f.failWrites {
		return apperr.Persistence("update task", errors.New("backend rejected write"))
	}
	return f.Adapter.UpdateTask(ctx, t)
}

func (f *flakyAdapter) SaveProgress(ctx context.Context, p model.Progress) error {
	if f.failWrites {
		return apperr.Persistence("save progress", errors.New("backend rejected write"))
	}
	return f.Adapter.SaveProgress(ctx, p)
}

type recordingNotifier struct {
	sent chan notify.Kind
}

func (n *recordingNotifier) Send(ctx context.Context, kind notify.Kind, payload notify.Payload) bool {
	n.sent <- kind
	return true
}

func newTestStore(t *testing.T, confirm Confirmer) (*Store, *flakyAdapter) {
	t.Helper()

	adapter := &flakyAdapter{Adapter: persist.NewMemoryAdapter(zap.NewNop())}
	if confirm == nil {
		confirm = &scriptedConfirmer{}
	}
	s := New(demoSession(), adapter, nil, confirm, zap.NewNop())
	require.NoError(t, s.Hydrate(context.Background()))
	return s, adapter
}

func addTask(t *testing.T, s *Store, title string, day int) *model.Task {
	t.Helper()
	task, err := s.AddTask(context.Background(), TaskInput{Title: title, Category: "DSA", Day: day})
	require.NoError(t, err)
	return task
}

func TestHydrateSeedsDefaults(t *testing.T) {
	s, _ := newTestStore(t, nil)

	assert.Len(t, s.Categories(), 7)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, 1, s.Progress().CurrentDay)
	assert.Equal(t, 0, s.Progress().Streak)
	assert.True(t, s.Settings().EmailNotifications)
	assert.True(t, s.Settings().DailyReminders)
}

func TestAddTaskRejectsEmptyTitle(t *testing.T) {
	s, _ := newTestStore(t, nil)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.AddTask(context.Background(), TaskInput{Title: title, Day: 1})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
	assert.Empty(t, s.Tasks(), "rejected input must not mutate the collection")
}

func TestAddTaskRejectsDayOutOfRange(t *testing.T) {
	s, _ := newTestStore(t, nil)

	for _, day := range []int{0, -3, 101} {
		_, err := s.AddTask(context.Background(), TaskInput{Title: "solve two problems", Day: day})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
	assert.Empty(t, s.Tasks())
}

func TestDeleteNonexistentTaskIsNoOp(t *testing.T) {
	s, _ := newTestStore(t, nil)
	addTask(t, s, "revise graphs", 1)

	require.NoError(t, s.DeleteTask(context.Background(), "no-such-id"))
	assert.Len(t, s.Tasks(), 1)
}

func TestUpdateNonexistentTaskFails(t *testing.T) {
	s, _ := newTestStore(t, nil)

	title := "renamed"
	_, err := s.UpdateTask(context.Background(), "no-such-id", TaskPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestDayStatsEmptyDayIsZero(t *testing.T) {
	s, _ := newTestStore(t, nil)

	for _, day := range []int{1, 42, 100} {
		stats := s.GetDayStats(day)
		assert.Equal(t, 0, stats.TotalTasks)
		assert.Equal(t, 0.0, stats.CompletionRate, "divide-by-zero guard")
	}
}

func TestOverallStatsRatio(t *testing.T) {
	s, _ := newTestStore(t, nil)

	assert.Equal(t, 0.0, s.GetOverallStats().CompletionRate)

	a := addTask(t, s, "a", 1)
	addTask(t, s, "b", 1)
	addTask(t, s, "c", 2)
	addTask(t, s, "d", 3)

	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)

	stats := s.GetOverallStats()
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 25.0, stats.CompletionRate)
}

func TestToggleStreakIncrementsExactlyOnce(t *testing.T) {
	s, _ := newTestStore(t, nil)

	a := addTask(t, s, "a", 1)
	b := addTask(t, s, "b", 1)

	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Progress().Streak, "streak must not move before the day is fully complete")

	_, err = s.ToggleCompletion(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Progress().Streak, "completing the last task of the day increments streak by exactly 1")
	require.NotNil(t, s.Progress().LastCompletedAt)
}

func TestToggleStreakOrderIndependent(t *testing.T) {
	s, _ := newTestStore(t, nil)

	a := addTask(t, s, "a", 1)
	b := addTask(t, s, "b", 1)

	_, err := s.ToggleCompletion(context.Background(), b.ID)
	require.NoError(t, err)
	_, err = s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Progress().Streak)
}

func TestUncompleteDoesNotDecrementStreak(t *testing.T) {
	s, _ := newTestStore(t, nil)

	a := addTask(t, s, "a", 1)
	b := addTask(t, s, "b", 1)
	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	_, err = s.ToggleCompletion(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, s.Progress().Streak)

	// Breaking the fully completed day leaves the streak alone.
	_, err = s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Progress().Streak)

	// Re-completing counts as a fresh transition into a complete day.
	_, err = s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Progress().Streak)
}

func TestNavigatePrevStopsAtDayOne(t *testing.T) {
	s, _ := newTestStore(t, nil)

	require.NoError(t, s.NavigateDay(context.Background(), DirPrev))
	assert.Equal(t, 1, s.Progress().CurrentDay)
}

func TestNavigateNextEmptyDayAdvancesWithoutStreakChange(t *testing.T) {
	s, _ := newTestStore(t, nil)

	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	assert.Equal(t, 2, s.Progress().CurrentDay)
	assert.Equal(t, 0, s.Progress().Streak)

	require.NoError(t, s.NavigateDay(context.Background(), DirPrev))
	assert.Equal(t, 1, s.Progress().CurrentDay)
}

func TestNavigateNextCompletedDayIncrementsStreak(t *testing.T) {
	s, _ := newTestStore(t, nil)

	a := addTask(t, s, "a", 1)
	done := true
	_, err := s.UpdateTask(context.Background(), a.ID, TaskPatch{Completed: &done})
	require.NoError(t, err)

	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	assert.Equal(t, 2, s.Progress().CurrentDay)
	assert.Equal(t, 1, s.Progress().Streak)
}

func TestNavigateNextIncompleteDeclined(t *testing.T) {
	confirm := &scriptedConfirmer{answers: []bool{false}}
	s, _ := newTestStore(t, confirm)

	addTask(t, s, "unfinished", 1)

	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	assert.Equal(t, 1, s.Progress().CurrentDay, "declined confirmation must be a full no-op")
	assert.Equal(t, 0, s.Progress().Streak)
	assert.Equal(t, 1, confirm.asked)
}

func TestNavigateNextIncompleteConfirmedResetsStreak(t *testing.T) {
	confirm := &scriptedConfirmer{answers: []bool{true}}
	s, _ := newTestStore(t, confirm)

	// Build up a streak on day 1, then leave day 2 incomplete.
	a := addTask(t, s, "a", 1)
	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, s.Progress().Streak)

	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	require.Equal(t, 2, s.Progress().CurrentDay)
	require.Equal(t, 2, s.Progress().Streak)

	addTask(t, s, "unfinished", 2)
	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	assert.Equal(t, 3, s.Progress().CurrentDay)
	assert.Equal(t, 0, s.Progress().Streak, "skipping an incomplete day resets the streak to exactly 0")
}

func TestNavigateNeverLeavesPlanRange(t *testing.T) {
	s, _ := newTestStore(t, nil)

	for i := 0; i < model.PlanDays+20; i++ {
		require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	}
	assert.Equal(t, model.PlanDays, s.Progress().CurrentDay)

	for i := 0; i < model.PlanDays+20; i++ {
		require.NoError(t, s.NavigateDay(context.Background(), DirPrev))
	}
	assert.Equal(t, 1, s.Progress().CurrentDay)
}

func TestResetProgressConfirmed(t *testing.T) {
	confirm := &scriptedConfirmer{answers: []bool{true}}
	s, _ := newTestStore(t, confirm)

	a := addTask(t, s, "a", 1)
	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)
	require.NoError(t, s.NavigateDay(context.Background(), DirNext))
	require.NotEqual(t, 1, s.Progress().CurrentDay)

	confirm.answers = append(confirm.answers, true)
	require.NoError(t, s.ResetProgress(context.Background()))

	assert.Empty(t, s.Tasks())
	assert.Equal(t, 1, s.Progress().CurrentDay)
	assert.Equal(t, 0, s.Progress().Streak)
	assert.Equal(t, 0.0, s.GetOverallStats().CompletionRate)
}

func TestResetProgressDeclined(t *testing.T) {
	confirm := &scriptedConfirmer{answers: []bool{false}}
	s, _ := newTestStore(t, confirm)

	addTask(t, s, "keep me", 1)
	require.NoError(t, s.ResetProgress(context.Background()))
	assert.Len(t, s.Tasks(), 1)
}

func TestPersistFailureLeavesStateUnchanged(t *testing.T) {
	s, adapter := newTestStore(t, nil)

	a := addTask(t, s, "a", 1)
	adapter.failWrites = true

	_, err := s.AddTask(context.Background(), TaskInput{Title: "b", Day: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsPersistence(err))
	assert.Len(t, s.Tasks(), 1, "failed write must not become visible")

	_, err = s.ToggleCompletion(context.Background(), a.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsPersistence(err))
	assert.False(t, s.Tasks()[0].Completed)
	assert.Equal(t, 0, s.Progress().Streak)
}

func TestDeleteCategoryKeepsReferencingTasks(t *testing.T) {
	s, _ := newTestStore(t, nil)

	category, err := s.AddCategory(context.Background(), CategoryInput{Name: "System Design", Color: "#0EA5E9"})
	require.NoError(t, err)

	task, err := s.AddTask(context.Background(), TaskInput{Title: "read a case study", Category: category.Name, Day: 5})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(context.Background(), category.ID))
	require.NoError(t, s.DeleteCategory(context.Background(), category.ID), "re-deleting is a no-op")

	tasks := s.GetTasksForDay(5)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "System Design", tasks[0].Category, "orphaned name reference stays intact")
}

func TestDuplicateCategoryNamesAllowed(t *testing.T) {
	s, _ := newTestStore(t, nil)

	_, err := s.AddCategory(context.Background(), CategoryInput{Name: "DSA", Color: "#111111"})
	require.NoError(t, err)

	names := 0
	for _, c := range s.Categories() {
		if c.Name == "DSA" {
			names++
		}
	}
	assert.Equal(t, 2, names, "name uniqueness is deliberately not enforced")
}

func TestUpdateNotificationSettings(t *testing.T) {
	s, _ := newTestStore(t, nil)

	require.NoError(t, s.UpdateNotificationSettings(context.Background(), false, true))
	assert.False(t, s.Settings().EmailNotifications)
	assert.True(t, s.Settings().DailyReminders)
}

func TestProgressUpdateDispatchedOnDayCompletion(t *testing.T) {
	notifier := &recordingNotifier{sent: make(chan notify.Kind, 4)}
	adapter := &flakyAdapter{Adapter: persist.NewMemoryAdapter(zap.NewNop())}
	s := New(demoSession(), adapter, notifier, &scriptedConfirmer{}, zap.NewNop())
	require.NoError(t, s.Hydrate(context.Background()))

	a := addTask(t, s, "a", 1)
	_, err := s.ToggleCompletion(context.Background(), a.ID)
	require.NoError(t, err)

	select {
	case kind := <-notifier.sent:
		assert.Equal(t, notify.KindProgressUpdate, kind)
	case <-time.After(time.Second):
		t.Fatal("expected a progress_update dispatch")
	}
}

func TestOperationsRequireHydration(t *testing.T) {
	adapter := &flakyAdapter{Adapter: persist.NewMemoryAdapter(zap.NewNop())}
	s := New(demoSession(), adapter, nil, &scriptedConfirmer{}, zap.NewNop())

	_, err := s.AddTask(context.Background(), TaskInput{Title: "too early", Day: 1})
	assert.ErrorIs(t, err, ErrNotHydrated)
}
