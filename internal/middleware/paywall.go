package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntitlementChecker decides whether a user may run a plan generation. The
// subscription service implements it; free-tier users get a weekly quota,
// premium users always pass.
type EntitlementChecker interface {
	CanGeneratePlan(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Paywall gates LLM-backed plan generation behind the subscription check.
func Paywall(checker EntitlementChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		userID, ok := userIDVal.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		allowed, err := checker.CanGeneratePlan(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check subscription status"})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "weekly plan generations used up, upgrade to keep planning",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
