package model

import "time"

// Plan length is fixed: every task belongs to a day in [1, PlanDays].
const PlanDays = 100

type Mode string

const (
	ModeDemo          Mode = "demo"
	ModeAuthenticated Mode = "authenticated"
)

// Session is immutable once resolved until sign-out.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Mode   Mode   `json:"mode"`
	Token  string `json:"token,omitempty"`
}

func (s Session) IsDemo() bool {
	return s.Mode == ModeDemo
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Task struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Completed     bool      `json:"completed"`
	Category      string    `json:"category"`
	Day           int       `json:"day"`
	CreatedAt     time.Time `json:"created_at"`
	Notes         string    `json:"notes,omitempty"`
	TargetCompany string    `json:"target_company,omitempty"`
}

// Category is referenced from Task by name, not by id. A task may keep
// referencing a deleted category; consumers fall back to a default color.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress is the per-session singleton tracking the day cursor and streak.
type Progress struct {
	UserID          string     `json:"user_id"`
	CurrentDay      int        `json:"current_day"`
	Streak          int        `json:"streak"`
	LastCompletedAt *time.Time `json:"last_completed,omitempty"`
}

func DefaultProgress(userID string) Progress {
	return Progress{UserID: userID, CurrentDay: 1, Streak: 0}
}

type NotificationSettings struct {
	UserID             string `json:"user_id"`
	EmailNotifications bool   `json:"email_notifications"`
	DailyReminders     bool   `json:"daily_reminders"`
}

func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:             userID,
		EmailNotifications: true,
		DailyReminders:     true,
	}
}

type DayStats struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

type OverallStats struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	Streak         int     `json:"streak"`
}
