package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// GroceryService aggregates a plan's meal ingredients into a shopping list.
type GroceryService struct {
	db *gorm.DB
}

func NewGroceryService(db *gorm.DB) *GroceryService {
	return &GroceryService{db: db}
}

type groceryKey struct {
	ingredientID uuid.UUID
	unit         string
}

// BuildList rebuilds the grocery list for a plan from its meal ingredients.
// Quantities of the same ingredient are merged into a single gram line when
// both units are plain weight units; anything else (cups, slices) keeps one
// line per unit, since portion gram weights vary per food and the list
// should show what the recipe said.
func (s *GroceryService) BuildList(ctx context.Context, userID uuid.UUID, planID uuid.UUID) ([]models.GroceryItem, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}

	var mealIngredients []models.MealIngredient
	err := s.db.WithContext(ctx).
		Joins("JOIN planned_meals ON planned_meals.id = meal_ingredients.meal_id").
		Where("planned_meals.plan_id = ?", planID).
		Preload("Ingredient").
		Find(&mealIngredients).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[groceryKey]*models.GroceryItem)
	var order []groceryKey

	for _, mi := range mealIngredients {
		if mi.Ingredient == nil {
			continue
		}

		quantity := mi.Quantity
		unit := strings.ToLower(mi.Unit)
		if grams, ok := nutrition.GramsPerUnit(unit); ok {
			quantity = mi.Quantity * grams
			unit = "g"
		}

		key := groceryKey{ingredientID: mi.IngredientID, unit: unit}
		if item, ok := totals[key]; ok {
			item.Quantity += quantity
			continue
		}
		ingredientID := mi.IngredientID
		totals[key] = &models.GroceryItem{
			PlanID:       planID,
			UserID:       userID,
			IngredientID: &ingredientID,
			Name:         mi.Ingredient.Name,
			Category:     mi.Ingredient.Category,
			Quantity:     quantity,
			Unit:         unit,
		}
		order = append(order, key)
	}

	items := make([]models.GroceryItem, 0, len(order))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&models.GroceryItem{}).Error; err != nil {
			return err
		}
		for _, key := range order {
			item := totals[key]
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			items = append(items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// List returns the stored grocery list for a plan.
func (s *GroceryService) List(ctx context.Context, userID uuid.UUID, planID uuid.UUID) ([]models.GroceryItem, error) {
	var items []models.GroceryItem
	err := s.db.WithContext(ctx).
		Where("plan_id = ? AND user_id = ?", planID, userID).
		Order("category, name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetChecked toggles the checked-off state of one item.
func (s *GroceryService) SetChecked(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, checked bool) error {
	res := s.db.WithContext(ctx).Model(&models.GroceryItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("checked", checked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearChecked removes checked-off items from a plan's list.
func (s *GroceryService) ClearChecked(ctx context.Context, userID uuid.UUID, planID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("plan_id = ? AND user_id = ? AND checked = ?", planID, userID, true).
		Delete(&models.GroceryItem{}).Error
}
