package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/middleware"
)

// Handlers collects every route handler the router mounts.
type Handlers struct {
	Health       *api.HealthHandler
	Auth         *api.AuthHandler
	Ingredients  *api.IngredientHandler
	Plans        *api.MealPlanHandler
	PrepSessions *api.PrepSessionHandler
	Grocery      *api.GroceryHandler
	Diary        *api.DiaryHandler
	Chat         *api.ChatHandler
	Subscription *api.SubscriptionHandler
}

// Setup configures the gin engine: recovery, CORS, rate limiting, then the
// public, webhook and authenticated route groups.
func Setup(h Handlers, validator middleware.TokenValidator, entitlements middleware.EntitlementChecker, onboarding gin.HandlerFunc, redisClient *redis.Client) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	// Public surface: health, auth, shared plans, purchase webhooks.
	h.Health.RegisterRoutes(v1)
	h.Auth.RegisterRoutes(v1)
	h.Plans.RegisterPublicRoutes(v1)
	h.Subscription.RegisterWebhookRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, middleware.DefaultRateLimitConfig())
		protected.Use(limiter.RateLimitMiddleware())
	}

	h.Auth.RegisterProtectedRoutes(protected)
	h.Subscription.RegisterRoutes(protected)
	h.Ingredients.RegisterRoutes(protected)
	h.Diary.RegisterRoutes(protected)
	h.Chat.RegisterRoutes(protected)

	// Plan routes additionally require a completed onboarding profile;
	// generation is metered through the paywall.
	plans := protected.Group("")
	plans.Use(onboarding)
	h.Plans.RegisterRoutes(plans, middleware.Paywall(entitlements))
	h.PrepSessions.RegisterRoutes(plans)
	h.Grocery.RegisterRoutes(plans)

	return router
}
