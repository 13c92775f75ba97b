// Package habit implements the habit lifecycle rules: streak bookkeeping,
// the daysLeft countdown, and the completion-log mirror in completionDates.
package habit

import (
	"errors"
	"time"

	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/models"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrAlreadyCompleted = errors.New("already marked complete today")
)

// Engine runs every habit mutation and read against the store. The clock is
// a field so tests can drive the calendar without sleeping.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// dayString renders the UTC calendar day of t, the format used for
// completionDates and HabitLog.Date.
func dayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// dayNumber maps t to a whole-day ordinal so elapsed days are a subtraction.
func dayNumber(t time.Time) int {
	u := t.UTC()
	return int(time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func dayFromNumber(n int) string {
	return time.Unix(int64(n)*86400, 0).UTC().Format("2006-01-02")
}

func (e *Engine) Create(userID string, req models.HabitRequest) (*models.Habit, error) {
	now := e.now()
	h := &models.Habit{
		ID:                uuid.NewString(),
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		Icon:              req.Icon,
		Category:          req.Category,
		Color:             req.Color,
		TargetDays:        req.TargetDays,
		CompletionDates:   datatypes.JSONSlice[string]{},
		DaysLeft:          req.TargetDays,
		LastDecrementDate: &now,
		ReminderTime:      req.ReminderTime,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := store.CreateHabit(e.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

// List returns the user's habits with daysLeft reconciled against the clock;
// reconciled habits are persisted so the countdown survives the read.
func (e *Engine) List(userID string) ([]models.Habit, error) {
	habits, err := store.ListHabits(e.db, userID)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		if e.reconcileDaysLeft(&habits[i]) {
			if err := store.SaveHabit(e.db, &habits[i]); err != nil {
				return nil, err
			}
		}
	}
	return habits, nil
}

func (e *Engine) Get(habitID, userID string) (*models.Habit, error) {
	h, err := store.GetHabit(e.db, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	if e.reconcileDaysLeft(h) {
		if err := store.SaveHabit(e.db, h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Update replaces the editable fields. Historical daysLeft is not
// recomputed; a targetDays overwrite takes effect through the normal
// reconcile on the next read.
func (e *Engine) Update(habitID, userID string, req models.HabitRequest) (*models.Habit, error) {
	h, err := store.GetHabit(e.db, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	h.Name = req.Name
	h.Description = req.Description
	h.Icon = req.Icon
	h.Category = req.Category
	h.Color = req.Color
	h.TargetDays = req.TargetDays
	h.ReminderTime = req.ReminderTime
	if err := store.SaveHabit(e.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (e *Engine) Delete(habitID, userID string) error {
	return store.DeleteHabit(e.db, habitID, userID)
}

// Complete marks the habit done for today. The log insert and the habit save
// are separate store writes; a failure between them leaves the log in place
// without the mirrored completionDates entry.
func (e *Engine) Complete(habitID, userID string) (*models.Habit, error) {
	h, err := store.GetHabit(e.db, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	e.reconcileDaysLeft(h)

	now := e.now()
	today := dayString(now)

	// Log and completionDates are written separately, so check both.
	logged, err := store.FindLog(e.db, userID, habitID, today)
	if err != nil {
		return nil, err
	}
	if logged != nil || containsDate(h.CompletionDates, today) {
		return nil, ErrAlreadyCompleted
	}
	if _, err := store.CreateLog(e.db, userID, habitID, today); err != nil {
		// The unique index closes the race the pre-check leaves open.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCompleted
		}
		return nil, err
	}

	h.CompletionDates = append(h.CompletionDates, today)
	h.CompletedDays = len(h.CompletionDates)

	yesterday := dayString(now.AddDate(0, 0, -1))
	if h.LastCompleted != nil && dayString(*h.LastCompleted) == yesterday {
		h.Streak++
	} else {
		h.Streak = 1
	}
	h.LastCompleted = &now

	// Consume today from the countdown unless a completion already did.
	if h.LastCompletionDate == nil || *h.LastCompletionDate != today {
		if h.DaysLeft > 0 {
			h.DaysLeft--
		}
		h.LastDecrementDate = &now
		h.LastCompletionDate = &today
	}

	if err := store.SaveHabit(e.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Uncomplete undoes today's completion. Streak drops to a flat 1 (or 0 when
// no completions remain) rather than the true trailing run; the countdown
// charge consumed by Complete is refunded when today was the charged day.
func (e *Engine) Uncomplete(habitID, userID string) (*models.Habit, error) {
	h, err := store.GetHabit(e.db, habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	now := e.now()
	today := dayString(now)

	if err := store.DeleteLog(e.db, userID, habitID, today); err != nil {
		return nil, err
	}

	dates := h.CompletionDates[:0]
	for _, d := range h.CompletionDates {
		if d != today {
			dates = append(dates, d)
		}
	}
	h.CompletionDates = dates
	h.CompletedDays = len(h.CompletionDates)

	if h.CompletedDays > 0 {
		h.Streak = 1
	} else {
		h.Streak = 0
	}

	if h.LastCompletionDate != nil && *h.LastCompletionDate == today {
		if h.DaysLeft < h.TargetDays {
			h.DaysLeft++
		}
		h.LastCompletionDate = nil
	}

	if err := store.SaveHabit(e.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (e *Engine) Logs(habitID, userID string) ([]models.HabitLog, error) {
	return store.ListLogs(e.db, userID, habitID)
}

// reconcileDaysLeft brings daysLeft up to date with the clock and reports
// whether the habit needs persisting. Records with unset or out-of-range
// state (pre-daysLeft rows, or drift) are repaired from the creation date;
// healthy records decay one day at a time.
func (e *Engine) reconcileDaysLeft(h *models.Habit) bool {
	now := e.now()
	if h.LastDecrementDate == nil || h.DaysLeft <= 0 || h.DaysLeft > h.TargetDays {
		return e.repairDaysLeft(h, now)
	}
	return e.decayDaysLeft(h, now)
}

// repairDaysLeft resets the countdown authoritatively from createdAt.
func (e *Engine) repairDaysLeft(h *models.Habit, now time.Time) bool {
	elapsed := dayNumber(now) - dayNumber(h.CreatedAt)
	dl := h.TargetDays - elapsed
	if dl < 0 {
		dl = 0
	}
	changed := h.DaysLeft != dl || h.LastDecrementDate == nil ||
		dayNumber(*h.LastDecrementDate) != dayNumber(now)
	h.DaysLeft = dl
	h.LastDecrementDate = &now
	return changed
}

// decayDaysLeft charges one day for every whole calendar day that has passed
// since the last recompute, except the day protected by a completion. Today
// is never charged here; Complete consumes it, or a later decay does once it
// has fully elapsed.
func (e *Engine) decayDaysLeft(h *models.Habit, now time.Time) bool {
	start := dayNumber(*h.LastDecrementDate)
	end := dayNumber(now)
	before := h.DaysLeft
	for dn := start; dn < end && h.DaysLeft > 0; dn++ {
		if h.LastCompletionDate != nil && dayFromNumber(dn) == *h.LastCompletionDate {
			continue
		}
		h.DaysLeft--
	}
	changed := h.DaysLeft != before || start != end
	h.LastDecrementDate = &now
	return changed
}

func containsDate(dates []string, d string) bool {
	for _, v := range dates {
		if v == d {
			return true
		}
	}
	return false
}
