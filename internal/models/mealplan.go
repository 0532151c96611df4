package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Meal plan statuses.
const (
	PlanStatusDraft     = "draft"
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusArchived  = "archived"
)

// MealPlan is a week of planned meals. The embedding is computed from the
// plan title and meal names and backs the public discovery search; it is a
// pointer so plans created without one stay NULL instead of storing an empty
// vector literal no driver can read back.
type MealPlan struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string           `gorm:"not null" json:"title"`
	WeekStart  time.Time        `gorm:"not null" json:"week_start"`
	Status     string           `gorm:"size:20;not null;default:'draft'" json:"status"`
	Notes      string           `gorm:"type:text" json:"notes"`
	ShareToken *string          `gorm:"size:64;uniqueIndex" json:"share_token,omitempty"`
	Embedding  *pgvector.Vector `gorm:"type:vector(3)" json:"-"`

	Meals []PlannedMeal `gorm:"foreignKey:PlanID" json:"meals,omitempty"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

// PlannedMeal is one slot in a plan (day x meal type).
type PlannedMeal struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	PlanID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	DayOfWeek    string         `gorm:"size:10;not null" json:"day_of_week"`
	MealType     string         `gorm:"size:20;not null" json:"meal_type"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	PrepMinutes  int            `json:"prep_minutes"`
	Servings     int            `gorm:"not null;default:1" json:"servings"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`

	Ingredients []MealIngredient `gorm:"foreignKey:MealID" json:"ingredients,omitempty"`
}

func (PlannedMeal) TableName() string {
	return "planned_meals"
}

// MealIngredient ties a planned meal to an ingredient with a quantity.
type MealIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MealID       uuid.UUID `gorm:"type:uuid;not null;index" json:"meal_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	Unit         string    `gorm:"size:30;not null" json:"unit"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (MealIngredient) TableName() string {
	return "meal_ingredients"
}
