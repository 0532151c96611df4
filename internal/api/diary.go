package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// DiaryHandler serves the food diary.
type DiaryHandler struct {
	diary *service.DiaryService
}

func NewDiaryHandler(diary *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

func (h *DiaryHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/diary", h.Log)
	r.GET("/diary", h.ListDay)
	r.GET("/diary/summary", h.Summary)
	r.DELETE("/diary/:id", h.Delete)
}

func (h *DiaryHandler) Log(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.LogDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	if req.LoggedAt.IsZero() {
		req.LoggedAt = time.Now()
	}

	entry, err := h.diary.Log(c.Request.Context(), userID, req.IngredientID, req.Servings, req.MealType, req.LoggedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "ingredient not found"})
			return
		}
		log.Printf("[DiaryHandler] log failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to log entry"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// dayParam parses the optional ?date=2026-08-26 query, defaulting to today.
func dayParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

func (h *DiaryHandler) ListDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entries, err := h.diary.ListDay(c.Request.Context(), userID, day)
	if err != nil {
		log.Printf("[DiaryHandler] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *DiaryHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}

	summary, err := h.diary.Summarize(c.Request.Context(), userID, day)
	if err != nil {
		log.Printf("[DiaryHandler] summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to summarize day"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DiaryHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.diary.Delete(c.Request.Context(), userID, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "entry not found"})
			return
		}
		log.Printf("[DiaryHandler] delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to delete entry"})
		return
	}
	c.Status(http.StatusNoContent)
}
