package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// SubscriptionHandler serves subscription status and purchase-platform
// webhooks.
type SubscriptionHandler struct {
	subs *service.SubscriptionService
}

func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/subscription", h.Get)
}

// RegisterWebhookRoutes mounts the unauthenticated webhook endpoint. The
// HMAC signature header is the only authentication.
func (h *SubscriptionHandler) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/purchases", h.PurchaseWebhook)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sub, err := h.subs.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[SubscriptionHandler] get failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to load subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// PurchaseWebhook verifies the platform signature over the raw body before
// decoding. Signature failures return 401; everything downstream must stay
// idempotent because platforms retry aggressively.
func (h *SubscriptionHandler) PurchaseWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "could not read body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if err := h.subs.VerifySignature(body, c.GetHeader("X-Platform-Signature")); err != nil {
		if errors.Is(err, service.ErrBadWebhookSignature) {
			c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "invalid signature"})
			return
		}
		log.Printf("[SubscriptionHandler] signature check failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal error"})
		return
	}

	var req types.PurchaseWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "malformed event payload"})
		return
	}
	if req.Event.ID == "" || req.Event.Type == "" || req.Event.AppUserID == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "event id, type and app_user_id are required"})
		return
	}

	if err := h.subs.ApplyWebhook(c.Request.Context(), &req); err != nil {
		log.Printf("[SubscriptionHandler] apply webhook %s failed: %v", req.Event.ID, err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to process event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
