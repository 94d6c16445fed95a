// Package store is the single source of truth for tasks, categories, the
// day cursor, streak and notification settings of one session. All state
// lives in memory; durability is delegated to a persist.Adapter. In
// authenticated mode a durable write must succeed before the in-memory
// mutation becomes visible; demo mode has no such precondition.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"prepbuddy/internal/apperr"
	"prepbuddy/internal/model"
	"prepbuddy/internal/notify"
	"prepbuddy/internal/persist"
	"prepbuddy/pkg/metrics"
)

var ErrNotHydrated = errors.New("store not hydrated")

// Notifier is the outbound side-effect port. Calls are fire-and-forget:
// their outcome never blocks or rolls back a store mutation.
type Notifier interface {
	Send(ctx context.Context, kind notify.Kind, payload notify.Payload) bool
}

type Direction string

const (
	DirPrev Direction = "prev"
	DirNext Direction = "next"
)

type TaskInput struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Day           int    `json:"day"`
	Completed     bool   `json:"completed"`
	Notes         string `json:"notes"`
	TargetCompany string `json:"target_company"`
}

// TaskPatch carries partial updates; nil fields are left unchanged.
type TaskPatch struct {
	Title         *string `json:"title"`
	Category      *string `json:"category"`
	Day           *int    `json:"day"`
	Completed     *bool   `json:"completed"`
	Notes         *string `json:"notes"`
	TargetCompany *string `json:"target_company"`
}

type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoryPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type Store struct {
	mu sync.Mutex

	session  model.Session
	adapter  persist.Adapter
	notifier Notifier
	confirm  Confirmer
	logger   *zap.Logger

	tasks      []model.Task
	categories []model.Category
	progress   model.Progress
	settings   model.NotificationSettings
	hydrated   bool
}

func New(session model.Session, adapter persist.Adapter, notifier Notifier, confirm Confirmer, logger *zap.Logger) *Store {
	return &Store{
		session:  session,
		adapter:  adapter,
		notifier: notifier,
		confirm:  confirm,
		logger:   logger,
	}
}

// Hydrate loads the initial snapshot from the adapter. It moves the store
// from Uninitialized to Hydrated, the sole steady state.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.adapter.Hydrate(ctx, s.session)
	if err != nil {
		return err
	}

	s.tasks = snapshot.Tasks
	s.categories = snapshot.Categories
	s.progress = snapshot.Progress
	s.settings = snapshot.Settings
	s.hydrated = true

	s.logger.Info("Store hydrated",
		zap.String("user_id", s.session.UserID),
		zap.String("mode", string(s.session.Mode)),
		zap.Int("tasks", len(s.tasks)),
		zap.Int("current_day", s.progress.CurrentDay),
	)
	return nil
}

// Reset returns the store to Uninitialized. Called when the session ends.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	s.categories = nil
	s.progress = model.Progress{}
	s.settings = model.NotificationSettings{}
	s.hydrated = false
}

func (s *Store) Session() model.Session {
	return s.session
}

// AddTask validates, assigns identity and creation timestamp, appends and
// persists. Rejected input leaves the collection untouched.
func (s *Store) AddTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return nil, ErrNotHydrated
	}
	if strings.TrimSpace(input.Title) == "" {
		metrics.RecordStoreOp("add_task", "rejected", time.Since(start))
		return nil, apperr.Validation("task title must not be empty")
	}
	if input.Day < 1 || input.Day > model.PlanDays {
		metrics.RecordStoreOp("add_task", "rejected", time.Since(start))
		return nil, apperr.Validation("task day out of range")
	}

	t := model.Task{
		UserID:        s.session.UserID,
		Title:         input.Title,
		Completed:     input.Completed,
		Category:      input.Category,
		Day:           input.Day,
		CreatedAt:     time.Now(),
		Notes:         input.Notes,
		TargetCompany: input.TargetCompany,
	}

	if err := s.adapter.CreateTask(ctx, &t); err != nil {
		metrics.RecordStoreOp("add_task", "error", time.Since(start))
		return nil, err
	}

	s.tasks = append(s.tasks, t)
	metrics.RecordStoreOp("add_task", "ok", time.Since(start))
	s.logger.Info("Task added",
		zap.String("id", t.ID),
		zap.Int("day", t.Day),
	)
	return &t, nil
}

// UpdateTask applies a partial update to an existing task.
func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return nil, ErrNotHydrated
	}

	idx := s.taskIndex(id)
	if idx < 0 {
		return nil, apperr.Validation("task not found")
	}

	updated := s.tasks[idx]
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperr.Validation("task title must not be empty")
		}
		updated.Title = *patch.Title
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Day != nil {
		if *patch.Day < 1 || *patch.Day > model.PlanDays {
			return nil, apperr.Validation("task day out of range")
		}
		updated.Day = *patch.Day
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	if patch.TargetCompany != nil {
		updated.TargetCompany = *patch.TargetCompany
	}

	if err := s.adapter.UpdateTask(ctx, updated); err != nil {
		metrics.RecordStoreOp("update_task", "error", time.Since(start))
		return nil, err
	}

	s.tasks[idx] = updated
	metrics.RecordStoreOp("update_task", "ok", time.Since(start))
	return &updated, nil
}

// DeleteTask removes a task. A nonexistent id is a no-op, not an error.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}

	idx := s.taskIndex(id)
	if idx < 0 {
		return nil
	}

	if err := s.adapter.DeleteTask(ctx, s.session.UserID, id); err != nil {
		metrics.RecordStoreOp("delete_task", "error", time.Since(start))
		return err
	}

	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	metrics.RecordStoreOp("delete_task", "ok", time.Since(start))
	return nil
}

// ToggleCompletion flips a task's completed flag. When the flip makes every
// task of that day completed, the streak increments by exactly 1 and
// lastCompletedAt is stamped. Un-completing a task of a fully completed day
// never decrements the streak.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (*model.Task, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return nil, ErrNotHydrated
	}

	idx := s.taskIndex(id)
	if idx < 0 {
		return nil, apperr.Validation("task not found")
	}

	flipped := s.tasks[idx]
	flipped.Completed = !flipped.Completed

	if err := s.adapter.UpdateTask(ctx, flipped); err != nil {
		metrics.RecordStoreOp("toggle_completion", "error", time.Since(start))
		return nil, err
	}
	s.tasks[idx] = flipped

	// Streak qualifies only on the transition into a fully completed day.
	// Before the flip the toggled task was incomplete, so the set could
	// not already have been fully complete.
	if flipped.Completed && s.dayFullyCompleted(flipped.Day) {
		now := time.Now()
		updated := s.progress
		updated.Streak++
		updated.LastCompletedAt = &now

		if err := s.adapter.SaveProgress(ctx, updated); err != nil {
			metrics.RecordStoreOp("toggle_completion", "error", time.Since(start))
			return nil, err
		}
		s.progress = updated
		metrics.StreakCompletionCount.Inc()

		s.logger.Info("Day fully completed",
			zap.Int("day", flipped.Day),
			zap.Int("streak", updated.Streak),
		)
		s.notifyProgress()
	}

	metrics.RecordStoreOp("toggle_completion", "ok", time.Since(start))
	return &flipped, nil
}

func (s *Store) AddCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return nil, ErrNotHydrated
	}

	// Category name uniqueness is deliberately not enforced.
	c := model.Category{
		UserID:    s.session.UserID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: time.Now(),
	}

	if err := s.adapter.CreateCategory(ctx, &c); err != nil {
		metrics.RecordStoreOp("add_category", "error", time.Since(start))
		return nil, err
	}

	s.categories = append(s.categories, c)
	metrics.RecordStoreOp("add_category", "ok", time.Since(start))
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*model.Category, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return nil, ErrNotHydrated
	}

	idx := s.categoryIndex(id)
	if idx < 0 {
		return nil, apperr.Validation("category not found")
	}

	updated := s.categories[idx]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Color != nil {
		updated.Color = *patch.Color
	}

	if err := s.adapter.UpdateCategory(ctx, updated); err != nil {
		metrics.RecordStoreOp("update_category", "error", time.Since(start))
		return nil, err
	}

	s.categories[idx] = updated
	metrics.RecordStoreOp("update_category", "ok", time.Since(start))
	return &updated, nil
}

// DeleteCategory removes a category. Tasks referencing it by name are left
// as they are; consumers render orphaned references with a default color.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}

	idx := s.categoryIndex(id)
	if idx < 0 {
		return nil
	}

	if err := s.adapter.DeleteCategory(ctx, s.session.UserID, id); err != nil {
		metrics.RecordStoreOp("delete_category", "error", time.Since(start))
		return err
	}

	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	metrics.RecordStoreOp("delete_category", "ok", time.Since(start))
	return nil
}

// GetTasksForDay returns tasks whose day field equals the argument. It does
// not filter by creation date.
func (s *Store) GetTasksForDay(day int) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksForDayLocked(day)
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]model.Category, len(s.categories))
	copy(categories, s.categories)
	return categories
}

func (s *Store) Progress() model.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Store) Settings() model.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Store) GetDayStats(day int) model.DayStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	dayTasks := s.tasksForDayLocked(day)
	completed := 0
	for _, t := range dayTasks {
		if t.Completed {
			completed++
		}
	}

	return model.DayStats{
		TotalTasks:     len(dayTasks),
		CompletedTasks: completed,
		CompletionRate: completionRate(completed, len(dayTasks)),
	}
}

func (s *Store) GetOverallStats() model.OverallStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}

	return model.OverallStats{
		TotalTasks:     len(s.tasks),
		CompletedTasks: completed,
		CompletionRate: completionRate(completed, len(s.tasks)),
		Streak:         s.progress.Streak,
	}
}

// NavigateDay moves the day cursor. Advancing past a day with incomplete
// tasks requires confirmation and resets the streak to 0; advancing past a
// fully completed day increments it. The cursor stays within [1, PlanDays].
func (s *Store) NavigateDay(ctx context.Context, dir Direction) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}

	switch dir {
	case DirPrev:
		if s.progress.CurrentDay <= 1 {
			return nil
		}
		updated := s.progress
		updated.CurrentDay--
		if err := s.adapter.SaveProgress(ctx, updated); err != nil {
			metrics.RecordStoreOp("navigate_day", "error", time.Since(start))
			return err
		}
		s.progress = updated
		metrics.RecordStoreOp("navigate_day", "ok", time.Since(start))
		return nil

	case DirNext:
		if s.progress.CurrentDay >= model.PlanDays {
			return nil
		}

		dayTasks := s.tasksForDayLocked(s.progress.CurrentDay)
		allCompleted := len(dayTasks) > 0
		for _, t := range dayTasks {
			if !t.Completed {
				allCompleted = false
				break
			}
		}

		updated := s.progress
		switch {
		case len(dayTasks) > 0 && !allCompleted:
			confirmed, err := s.confirm.Confirm(ctx,
				"Not all tasks for today are completed. Move to the next day anyway?")
			if err != nil {
				return err
			}
			if !confirmed {
				metrics.RecordStoreOp("navigate_day", "declined", time.Since(start))
				return nil
			}
			updated.Streak = 0
		case allCompleted:
			now := time.Now()
			updated.Streak++
			updated.LastCompletedAt = &now
		}
		// An empty day advances with no streak change.
		updated.CurrentDay++

		if err := s.adapter.SaveProgress(ctx, updated); err != nil {
			metrics.RecordStoreOp("navigate_day", "error", time.Since(start))
			return err
		}
		if allCompleted {
			metrics.StreakCompletionCount.Inc()
		}
		s.progress = updated

		s.logger.Info("Advanced to next day",
			zap.Int("current_day", updated.CurrentDay),
			zap.Int("streak", updated.Streak),
		)
		if allCompleted {
			s.notifyProgress()
		}
		s.notifyReminder()

		metrics.RecordStoreOp("navigate_day", "ok", time.Since(start))
		return nil

	default:
		return apperr.Validation("unknown direction")
	}
}

// ResetProgress deletes every task and returns the progress record to day
// 1, streak 0. Destructive, so it passes through the confirmation gate.
func (s *Store) ResetProgress(ctx context.Context) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}

	confirmed, err := s.confirm.Confirm(ctx,
		"Are you sure you want to reset your progress? This will delete all tasks and reset your day count.")
	if err != nil {
		return err
	}
	if !confirmed {
		metrics.RecordStoreOp("reset_progress", "declined", time.Since(start))
		return nil
	}

	if err := s.adapter.DeleteAllTasks(ctx, s.session.UserID); err != nil {
		metrics.RecordStoreOp("reset_progress", "error", time.Since(start))
		return err
	}

	now := time.Now()
	updated := model.DefaultProgress(s.session.UserID)
	updated.LastCompletedAt = &now
	if err := s.adapter.SaveProgress(ctx, updated); err != nil {
		metrics.RecordStoreOp("reset_progress", "error", time.Since(start))
		return err
	}

	s.tasks = nil
	s.progress = updated
	metrics.RecordStoreOp("reset_progress", "ok", time.Since(start))
	s.logger.Info("Progress reset", zap.String("user_id", s.session.UserID))
	return nil
}

// UpdateNotificationSettings replaces the settings singleton.
func (s *Store) UpdateNotificationSettings(ctx context.Context, emailNotifications, dailyReminders bool) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hydrated {
		return ErrNotHydrated
	}

	updated := model.NotificationSettings{
		UserID:             s.session.UserID,
		EmailNotifications: emailNotifications,
		DailyReminders:     dailyReminders,
	}
	if err := s.adapter.SaveSettings(ctx, updated); err != nil {
		metrics.RecordStoreOp("update_settings", "error", time.Since(start))
		return err
	}

	s.settings = updated
	metrics.RecordStoreOp("update_settings", "ok", time.Since(start))
	return nil
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryIndex(id string) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) tasksForDayLocked(day int) []model.Task {
	var tasks []model.Task
	for _, t := range s.tasks {
		if t.Day == day {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func (s *Store) dayFullyCompleted(day int) bool {
	dayTasks := s.tasksForDayLocked(day)
	if len(dayTasks) == 0 {
		return false
	}
	for _, t := range dayTasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// notifyProgress fires a progress_update when email notifications are on.
// Caller holds the lock; the send runs detached so its outcome can never
// block the mutation that triggered it.
func (s *Store) notifyProgress() {
	if s.notifier == nil || !s.settings.EmailNotifications {
		return
	}

	completed := 0
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}
	rate := completionRate(completed, len(s.tasks))
	streak := s.progress.Streak
	payload := notify.Payload{
		Email:          s.session.Email,
		CurrentDay:     s.progress.CurrentDay,
		CompletionRate: &rate,
		Streak:         &streak,
	}

	go s.notifier.Send(context.Background(), notify.KindProgressUpdate, payload)
}

// notifyReminder fires a daily_reminder for the new current day when daily
// reminders are on.
func (s *Store) notifyReminder() {
	if s.notifier == nil || !s.settings.DailyReminders {
		return
	}

	payload := notify.Payload{
		Email:      s.session.Email,
		CurrentDay: s.progress.CurrentDay,
	}

	go s.notifier.Send(context.Background(), notify.KindDailyReminder, payload)
}

func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
