package store

import (
	"errors"

	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func InitDB(path string) (*gorm.DB, error) {
	d, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := d.AutoMigrate(&models.Habit{}, &models.HabitLog{}); err != nil {
		return nil, err
	}
	return d, nil
}

func SetDB(d *gorm.DB) { db = d }

func GetDB() *gorm.DB { return db }

// Habit operations, all scoped to the owning user.

func ListHabits(d *gorm.DB, userID string) ([]models.Habit, error) {
	var habits []models.Habit
	err := d.Where("user_id = ?", userID).Order("created_at asc").Find(&habits).Error
	return habits, err
}

func GetHabit(d *gorm.DB, habitID, userID string) (*models.Habit, error) {
	var h models.Habit
	if err := d.Where("id = ? AND user_id = ?", habitID, userID).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func CreateHabit(d *gorm.DB, h *models.Habit) error {
	return d.Create(h).Error
}

func SaveHabit(d *gorm.DB, h *models.Habit) error {
	return d.Save(h).Error
}

func DeleteHabit(d *gorm.DB, habitID, userID string) error {
	return d.Where("id = ? AND user_id = ?", habitID, userID).Delete(&models.Habit{}).Error
}

// Log operations. No transaction spans a log write and its paired habit
// save; each is a separate call, and a failure in between leaves whatever
// the last write produced.

func FindLog(d *gorm.DB, userID, habitID, date string) (*models.HabitLog, error) {
	var l models.HabitLog
	err := d.Where("user_id = ? AND habit_id = ? AND date = ?", userID, habitID, date).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func CreateLog(d *gorm.DB, userID, habitID, date string) (*models.HabitLog, error) {
	l := models.HabitLog{UserID: userID, HabitID: habitID, Date: date, Completed: true}
	if err := d.Create(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func DeleteLog(d *gorm.DB, userID, habitID, date string) error {
	return d.Where("user_id = ? AND habit_id = ? AND date = ?", userID, habitID, date).
		Delete(&models.HabitLog{}).Error
}

func ListLogs(d *gorm.DB, userID, habitID string) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := d.Where("user_id = ? AND habit_id = ?", userID, habitID).Order("date asc").Find(&logs).Error
	return logs, err
}
