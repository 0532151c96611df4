package database

import (
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
)

// AutoMigrate creates or updates every application table. Postgres
// deployments that need hand-written DDL run cmd/migrate instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.DietaryPreference{},
		&models.Allergen{},
		&models.Ingredient{},
		&models.MealPlan{},
		&models.PlannedMeal{},
		&models.MealIngredient{},
		&models.PrepSession{},
		&models.GroceryItem{},
		&models.DiaryEntry{},
		&models.Subscription{},
	)
}
