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

// GroceryHandler serves grocery list building and check-off.
type GroceryHandler struct {
	grocery *service.GroceryService
}

func NewGroceryHandler(grocery *service.GroceryService) *GroceryHandler {
	return &GroceryHandler{grocery: grocery}
}

func (h *GroceryHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/plans/:id/grocery/build", h.Build)
	r.GET("/plans/:id/grocery", h.List)
	r.PUT("/grocery/:id/checked", h.SetChecked)
	r.DELETE("/plans/:id/grocery/checked", h.ClearChecked)
}

func (h *GroceryHandler) Build(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.grocery.BuildList(c.Request.Context(), userID, planID)
	if err != nil {
		h.respondError(c, err, "build")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *GroceryHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.grocery.List(c.Request.Context(), userID, planID)
	if err != nil {
		h.respondError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type setCheckedRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

func (h *GroceryHandler) SetChecked(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req setCheckedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.grocery.SetChecked(c.Request.Context(), userID, itemID, *req.Checked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "grocery item not found"})
			return
		}
		log.Printf("[GroceryHandler] set checked failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to update item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked": *req.Checked})
}

func (h *GroceryHandler) ClearChecked(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.grocery.ClearChecked(c.Request.Context(), userID, planID); err != nil {
		h.respondError(c, err, "clear checked")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroceryHandler) respondError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "plan not found"})
	case errors.Is(err, service.ErrNotPlanOwner):
		c.JSON(http.StatusForbidden, middleware.ErrorResponse{Error: "plan does not belong to you"})
	default:
		log.Printf("[GroceryHandler] %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal error"})
	}
}
