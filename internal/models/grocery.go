package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroceryItem is one line of a plan's aggregated shopping list. Quantities
// for the same ingredient are merged when their units convert to grams;
// otherwise each unit gets its own line.
type GroceryItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	PlanID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	IngredientID *uuid.UUID     `gorm:"type:uuid" json:"ingredient_id,omitempty"`
	Name         string         `gorm:"not null" json:"name"`
	Category     string         `gorm:"size:50" json:"category"`
	Quantity     float64        `gorm:"not null" json:"quantity"`
	Unit         string         `gorm:"size:30;not null" json:"unit"`
	Checked      bool           `gorm:"not null;default:false" json:"checked"`
}

func (GroceryItem) TableName() string {
	return "grocery_items"
}
