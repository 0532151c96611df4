package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/platewise/backend/internal/nutrition"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Username     string `json:"username" binding:"required"`
	DietaryPrefs string `json:"dietary_prefs"`
	Allergies    string `json:"allergies"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// USDAMatchRequest carries a USDA food match chosen for an ingredient.
// Binding validation runs here before anything reaches the conversion core.
type USDAMatchRequest struct {
	FdcID       int                 `json:"fdc_id" binding:"required"`
	Description string              `json:"description"`
	Per100g     nutrition.Vector    `json:"nutrition_per_100g" binding:"required"`
	Portions    []nutrition.Portion `json:"portions"`
}

// GeneratePlanRequest asks the LLM for a weekly plan draft.
type GeneratePlanRequest struct {
	WeekStart time.Time `json:"week_start" binding:"required"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
}

// LogDiaryRequest records a consumption event.
type LogDiaryRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	Servings     float64   `json:"servings" binding:"required,gt=0"`
	MealType     string    `json:"meal_type"`
	LoggedAt     time.Time `json:"logged_at"`
}

// ChatRequest is one cooking-assistant turn.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// PurchaseWebhookRequest is the purchase-platform event payload (RevenueCat
// style: a single event object wrapping the app user id and entitlement).
type PurchaseWebhookRequest struct {
	Event struct {
		ID             string `json:"id" binding:"required"`
		Type           string `json:"type" binding:"required"`
		AppUserID      string `json:"app_user_id" binding:"required"`
		ProductID      string `json:"product_id"`
		ExpirationAtMs int64  `json:"expiration_at_ms"`
	} `json:"event" binding:"required"`
}
