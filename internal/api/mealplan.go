package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// MealPlanHandler serves plan generation, confirmation and sharing.
type MealPlanHandler struct {
	plans *service.MealPlanService
	share *service.ShareService
}

func NewMealPlanHandler(plans *service.MealPlanService, share *service.ShareService) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, share: share}
}

// RegisterRoutes mounts the authenticated plan endpoints. Generate takes the
// paywall middleware separately because only that one endpoint is metered.
func (h *MealPlanHandler) RegisterRoutes(r *gin.RouterGroup, paywall gin.HandlerFunc) {
	r.POST("/plans/generate", paywall, h.Generate)
	r.POST("/plans/confirm/:draft_id", h.Confirm)
	r.GET("/plans", h.List)
	r.GET("/plans/:id", h.Get)
	r.PUT("/plans/:id/status", h.UpdateStatus)
	r.DELETE("/plans/:id", h.Delete)
	r.POST("/plans/:id/share", h.Share)
	r.POST("/plans/:id/share-card", h.UploadShareCard)
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *MealPlanHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/shared/plans/:token", h.GetShared)
	r.GET("/shared/plans", h.SearchShared)
}

func (h *MealPlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	draft, err := h.plans.GenerateDraft(c.Request.Context(), userID, req.WeekStart, req.Title, req.Prompt)
	if err != nil {
		log.Printf("[MealPlanHandler] generate failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to generate plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *MealPlanHandler) Confirm(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	draftID := c.Param("draft_id")
	if draftID == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "draft_id is required"})
		return
	}

	plan, err := h.plans.ConfirmDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "draft not found or expired"})
			return
		}
		log.Printf("[MealPlanHandler] confirm failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to confirm plan"})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := h.plans.ListPlans(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[MealPlanHandler] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *MealPlanHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.respondPlanError(c, err, "get")
		return
	}
	c.JSON(http.StatusOK, plan)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *MealPlanHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.plans.UpdateStatus(c.Request.Context(), userID, planID, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
			return
		}
		h.respondPlanError(c, err, "update status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *MealPlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.plans.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		h.respondPlanError(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	token, err := h.plans.Share(c.Request.Context(), userID, planID)
	if err != nil {
		h.respondPlanError(c, err, "share")
		return
	}
	c.JSON(http.StatusOK, gin.H{"share_token": token})
}

// UploadShareCard accepts a rendered share-card image and returns a
// presigned link to it.
func (h *MealPlanHandler) UploadShareCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if _, err := h.plans.GetPlan(c.Request.Context(), userID, planID); err != nil {
		h.respondPlanError(c, err, "share card")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "image file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "could not read image"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "could not read image"})
		return
	}

	url, err := h.share.UploadShareCard(c.Request.Context(), planID, data, file.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("[MealPlanHandler] share card upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to upload share card"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *MealPlanHandler) GetShared(c *gin.Context) {
	plan, err := h.plans.GetSharedPlan(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "plan not found"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) SearchShared(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "q is required"})
		return
	}
	plans, err := h.plans.SearchSharedPlans(c.Request.Context(), query)
	if err != nil {
		log.Printf("[MealPlanHandler] shared search failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *MealPlanHandler) respondPlanError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "plan not found"})
	case errors.Is(err, service.ErrNotPlanOwner):
		c.JSON(http.StatusForbidden, middleware.ErrorResponse{Error: "plan does not belong to you"})
	default:
		log.Printf("[MealPlanHandler] %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal error"})
	}
}
