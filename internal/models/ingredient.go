package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is the admin-curated nutrition record behind recipes, grocery
// items and diary entries. Calories through Sugar are per the declared
// serving; the USDA* fields hold the matched per-100g reference values so a
// serving change can be rescaled without another lookup.
type Ingredient struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null;index" json:"name"`
	Category    string         `gorm:"size:50" json:"category"`
	ServingSize float64        `gorm:"not null;default:1" json:"serving_size"`
	ServingUnit string         `gorm:"size:30;not null" json:"serving_unit"`

	// Per-serving macros.
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`

	// USDA per-100g reference, populated by the match endpoint.
	USDAFdcID        *int     `gorm:"column:usda_fdc_id" json:"usda_fdc_id"`
	USDADescription  string   `gorm:"column:usda_description;size:255" json:"usda_description"`
	USDACalories100g *float64 `gorm:"column:usda_calories_100g" json:"usda_calories_100g"`
	USDAProtein100g  *float64 `gorm:"column:usda_protein_100g" json:"usda_protein_100g"`
	USDACarbs100g    *float64 `gorm:"column:usda_carbs_100g" json:"usda_carbs_100g"`
	USDAFat100g      *float64 `gorm:"column:usda_fat_100g" json:"usda_fat_100g"`
	USDAFiber100g    *float64 `gorm:"column:usda_fiber_100g" json:"usda_fiber_100g"`
	USDASugar100g    *float64 `gorm:"column:usda_sugar_100g" json:"usda_sugar_100g"`

	// How the serving was converted to grams: weight, usda_portion or failed.
	ConversionMethod string   `gorm:"size:20" json:"conversion_method"`
	GramWeight       *float64 `json:"gram_weight"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
