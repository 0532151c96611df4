package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiaryEntry is one logged consumption. Macros are snapshotted at log time by
// scaling the ingredient's per-serving values, so later ingredient edits do
// not rewrite history.
type DiaryEntry struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	IngredientID uuid.UUID      `gorm:"type:uuid;not null" json:"ingredient_id"`
	LoggedAt     time.Time      `gorm:"not null;index" json:"logged_at"`
	MealType     string         `gorm:"size:20" json:"meal_type"`
	Servings     float64        `gorm:"not null;default:1" json:"servings"`

	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}
