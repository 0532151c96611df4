package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
)

// PrepSessionHandler serves batch-cooking session generation and tracking.
type PrepSessionHandler struct {
	sessions *service.PrepSessionService
}

func NewPrepSessionHandler(sessions *service.PrepSessionService) *PrepSessionHandler {
	return &PrepSessionHandler{sessions: sessions}
}

func (h *PrepSessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/plans/:id/prep-sessions/generate", h.Generate)
	r.GET("/plans/:id/prep-sessions", h.List)
	r.PUT("/prep-sessions/:id/completed", h.SetCompleted)
}

func (h *PrepSessionHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.sessions.Generate(c.Request.Context(), userID, planID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "plan not found"})
		case errors.Is(err, service.ErrNotPlanOwner):
			c.JSON(http.StatusForbidden, middleware.ErrorResponse{Error: "plan does not belong to you"})
		default:
			log.Printf("[PrepSessionHandler] generate failed: %v", err)
			c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to generate prep sessions"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *PrepSessionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.sessions.List(c.Request.Context(), userID, planID)
	if err != nil {
		log.Printf("[PrepSessionHandler] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to list prep sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type setCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (h *PrepSessionHandler) SetCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req setCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.sessions.SetCompleted(c.Request.Context(), userID, sessionID, *req.Completed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "prep session not found"})
			return
		}
		log.Printf("[PrepSessionHandler] set completed failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to update prep session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": *req.Completed})
}
