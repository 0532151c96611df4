// Command seed loads a demo user and a starter set of ingredients so a
// fresh environment has something to plan with.
package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/models"
)

func f(v float64) *float64 { return &v }

var starterIngredients = []models.Ingredient{
	{Name: "chicken breast", Category: "protein", ServingSize: 4, ServingUnit: "oz", Calories: 187, Protein: 35.1, Carbs: 0, Fat: 4.1},
	{Name: "brown rice", Category: "grain", ServingSize: 1, ServingUnit: "cup", Calories: 218, Protein: 4.5, Carbs: 45.8, Fat: 1.6, Fiber: f(3.5)},
	{Name: "broccoli", Category: "vegetable", ServingSize: 1, ServingUnit: "cup", Calories: 31, Protein: 2.6, Carbs: 6, Fat: 0.3, Fiber: f(2.4), Sugar: f(1.5)},
	{Name: "olive oil", Category: "fat", ServingSize: 1, ServingUnit: "tbsp", Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5},
	{Name: "black beans", Category: "legume", ServingSize: 0.5, ServingUnit: "cup", Calories: 114, Protein: 7.6, Carbs: 20.4, Fat: 0.5, Fiber: f(7.5)},
	{Name: "greek yogurt", Category: "dairy", ServingSize: 1, ServingUnit: "cup", Calories: 146, Protein: 19.9, Carbs: 7.9, Fat: 3.8, Sugar: f(7.1)},
	{Name: "whole wheat bread", Category: "grain", ServingSize: 1, ServingUnit: "slice", Calories: 81, Protein: 4, Carbs: 13.7, Fat: 1.1, Fiber: f(1.9)},
	{Name: "banana", Category: "fruit", ServingSize: 1, ServingUnit: "medium", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, Fiber: f(3.1), Sugar: f(14.4)},
	{Name: "eggs", Category: "protein", ServingSize: 1, ServingUnit: "large", Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8},
	{Name: "salmon", Category: "protein", ServingSize: 4, ServingUnit: "oz", Calories: 233, Protein: 25.2, Carbs: 0, Fat: 14.1},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	for _, ing := range starterIngredients {
		var count int64
		db.Model(&models.Ingredient{}).Where("LOWER(name) = ?", ing.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&ing).Error; err != nil {
			log.Fatalf("failed to seed ingredient %q: %v", ing.Name, err)
		}
		log.Printf("seeded ingredient %q", ing.Name)
	}

	var demoCount int64
	db.Model(&models.User{}).Where("email = ?", "demo@platewise.app").Count(&demoCount)
	if demoCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash demo password: %v", err)
		}
		user := models.User{
			Name:         "Demo User",
			Email:        "demo@platewise.app",
			PasswordHash: string(hash),
			Onboarded:    true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
		profile := models.UserProfile{
			UserID:              user.ID,
			Username:            "demo",
			HouseholdSize:       2,
			CookingAbilityLevel: "intermediate",
			CalorieTarget:       2000,
		}
		if err := db.Create(&profile).Error; err != nil {
			log.Fatalf("failed to seed demo profile: %v", err)
		}
		log.Printf("seeded demo user %s", user.Email)
	}

	log.Println("seed complete")
}
