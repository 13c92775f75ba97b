package handlers

import (
	"errors"
	"net/http"

	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/auth"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/habit"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/ml"
	"github.com/Sivanjalibollapalli/smart-habit-tracker/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	eng      *habit.Engine
	mlClient *ml.Client
)

func RegisterRoutes(r *gin.Engine, e *habit.Engine, m *ml.Client, v auth.Verifier) {
	eng = e
	mlClient = m

	habits := r.Group("/habits", auth.Middleware(v))
	habits.GET("", getHabits)
	habits.POST("", createHabit)
	habits.PUT("/:id", updateHabit)
	habits.DELETE("/:id", deleteHabit)
	habits.POST("/:id/complete", markHabitComplete)
	habits.POST("/:id/uncomplete", unmarkHabitComplete)
	habits.GET("/:id/logs", getHabitLogs)

	mlRoutes := r.Group("/ml", auth.Middleware(v))
	mlRoutes.POST("/predict/:id", predictHabit)
	mlRoutes.POST("/recommend", recommendHabit)
}

func getHabits(c *gin.Context) {
	habitsList, err := eng.List(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habits"})
		return
	}
	c.JSON(http.StatusOK, habitsList)
}

func createHabit(c *gin.Context) {
	var req models.HabitRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := eng.Create(auth.UserID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create habit"})
		return
	}
	c.JSON(http.StatusCreated, h)
}

func updateHabit(c *gin.Context) {
	var req models.HabitRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, err := eng.Update(c.Param("id"), auth.UserID(c), req)
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update habit"})
		return
	}
	c.JSON(http.StatusOK, h)
}

func deleteHabit(c *gin.Context) {
	if err := eng.Delete(c.Param("id"), auth.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete habit"})
		return
	}
	c.Status(http.StatusNoContent)
}

func markHabitComplete(c *gin.Context) {
	h, err := eng.Complete(c.Param("id"), auth.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, habit.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		case errors.Is(err, habit.ErrAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "already marked complete today"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark habit as complete"})
		}
		return
	}
	c.JSON(http.StatusOK, h)
}

func unmarkHabitComplete(c *gin.Context) {
	h, err := eng.Uncomplete(c.Param("id"), auth.UserID(c))
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo completion"})
		return
	}
	c.JSON(http.StatusOK, h)
}

func getHabitLogs(c *gin.Context) {
	logs, err := eng.Logs(c.Param("id"), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func predictHabit(c *gin.Context) {
	h, err := eng.Get(c.Param("id"), auth.UserID(c))
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habit"})
		return
	}
	pred, err := mlClient.Predict(c.Request.Context(), ml.PredictRequest{
		Streak:      h.Streak,
		TargetDays:  h.TargetDays,
		Completions: h.CompletedDays,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get prediction"})
		return
	}
	c.JSON(http.StatusOK, pred)
}

func recommendHabit(c *gin.Context) {
	habitsList, err := eng.List(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch habits"})
		return
	}
	names := make([]string, 0, len(habitsList))
	for _, h := range habitsList {
		names = append(names, h.Name)
	}
	suggestion, err := mlClient.Recommend(c.Request.Context(), names)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get recommendation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
