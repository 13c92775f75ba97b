package models

import (
	"time"

	"gorm.io/datatypes"
)

// Habit is one tracked habit owned by a single user. CompletionDates mirrors
// the set of HabitLog dates for the habit; the habit package keeps the two in
// agreement on every mutation.
type Habit struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      string `json:"userId" gorm:"index;not null"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Color       string `json:"color"`
	TargetDays  int    `json:"targetDays" gorm:"not null"`

	CompletedDays   int                         `json:"completedDays"`
	Streak          int                         `json:"streak"`
	CompletionDates datatypes.JSONSlice[string] `json:"completionDates"`

	LastCompleted *time.Time `json:"lastCompleted"`
	// LastCompletionDate and LastDecrementDate gate the once-per-day
	// completion charge and the day-decay recompute.
	LastCompletionDate *string    `json:"lastCompletionDate"`
	LastDecrementDate  *time.Time `json:"lastDecrementDate"`

	// DaysLeft counts down from TargetDays; 0 <= DaysLeft <= TargetDays.
	DaysLeft int `json:"daysLeft"`

	ReminderTime *string `json:"reminderTime"` // "HH:mm", UI metadata only

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HabitLog records one completion event. The composite unique index makes the
// insert for a given day atomic, so two racing completes cannot both land.
type HabitLog struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  string `json:"userId" gorm:"not null;index:idx_habit_log_day,unique"`
	HabitID string `json:"habitId" gorm:"not null;index:idx_habit_log_day,unique"`
	// Date is the calendar day "YYYY-MM-DD" (UTC).
	Date      string    `json:"date" gorm:"not null;index:idx_habit_log_day,unique"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// HabitRequest is the payload for creating or replacing a habit.
type HabitRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	Category     string  `json:"category"`
	Color        string  `json:"color"`
	TargetDays   int     `json:"targetDays" binding:"required,gt=0"`
	ReminderTime *string `json:"reminderTime"`
}
