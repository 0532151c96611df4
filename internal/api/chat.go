package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// ChatHandler serves the cooking assistant conversation.
type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Send)
	r.GET("/chat/history", h.History)
	r.DELETE("/chat/history", h.Reset)
}

func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), userID, req.Message)
	if err != nil {
		log.Printf("[ChatHandler] send failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "assistant is unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messages, err := h.chat.History(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[ChatHandler] history failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.chat.Reset(c.Request.Context(), userID); err != nil {
		log.Printf("[ChatHandler] reset failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to reset history"})
		return
	}
	c.Status(http.StatusNoContent)
}
