package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testhelpers"
	"gorm.io/gorm"
)

// seedPlan creates a plan with two meals sharing ingredients across weight
// and volume units.
func seedPlan(t *testing.T, db *gorm.DB, userID uuid.UUID) (uuid.UUID, map[string]uuid.UUID) {
	t.Helper()

	chicken := models.Ingredient{Name: "chicken thighs", Category: "protein", ServingSize: 4, ServingUnit: "oz"}
	broccoli := models.Ingredient{Name: "broccoli", Category: "vegetable", ServingSize: 1, ServingUnit: "cup"}
	require.NoError(t, db.Create(&chicken).Error)
	require.NoError(t, db.Create(&broccoli).Error)

	plan := models.MealPlan{UserID: userID, Title: "Test week", WeekStart: time.Now(), Status: models.PlanStatusActive}
	require.NoError(t, db.Create(&plan).Error)

	mealA := models.PlannedMeal{PlanID: plan.ID, DayOfWeek: "monday", MealType: "dinner", Name: "Sheet pan chicken", Servings: 4}
	mealB := models.PlannedMeal{PlanID: plan.ID, DayOfWeek: "tuesday", MealType: "dinner", Name: "Stir fry", Servings: 4, DisplayOrder: 1}
	require.NoError(t, db.Create(&mealA).Error)
	require.NoError(t, db.Create(&mealB).Error)

	for _, mi := range []models.MealIngredient{
		{MealID: mealA.ID, IngredientID: chicken.ID, Quantity: 1.5, Unit: "lb"},
		{MealID: mealA.ID, IngredientID: broccoli.ID, Quantity: 2, Unit: "cup"},
		{MealID: mealB.ID, IngredientID: chicken.ID, Quantity: 8, Unit: "oz"},
		{MealID: mealB.ID, IngredientID: broccoli.ID, Quantity: 1, Unit: "cup"},
	} {
		require.NoError(t, db.Create(&mi).Error)
	}

	return plan.ID, map[string]uuid.UUID{"chicken": chicken.ID, "broccoli": broccoli.ID}
}

func TestGroceryService_BuildList(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewGroceryService(db)
	ctx := context.Background()
	userID := uuid.New()

	planID, ids := seedPlan(t, db, userID)

	items, err := svc.BuildList(ctx, userID, planID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byIngredient := make(map[uuid.UUID]models.GroceryItem)
	for _, item := range items {
		require.NotNil(t, item.IngredientID)
		byIngredient[*item.IngredientID] = item
	}

	// 1.5 lb + 8 oz merge into grams.
	chicken := byIngredient[ids["chicken"]]
	assert.Equal(t, "g", chicken.Unit)
	assert.InDelta(t, 1.5*453.592+8*28.3495, chicken.Quantity, 0.001)

	// Cups merge with cups but are never converted.
	broccoli := byIngredient[ids["broccoli"]]
	assert.Equal(t, "cup", broccoli.Unit)
	assert.InDelta(t, 3, broccoli.Quantity, 0.0001)

	t.Run("should replace the list on rebuild", func(t *testing.T) {
		again, err := svc.BuildList(ctx, userID, planID)
		require.NoError(t, err)
		assert.Len(t, again, 2)

		var count int64
		db.Model(&models.GroceryItem{}).Where("plan_id = ?", planID).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("should refuse a plan owned by someone else", func(t *testing.T) {
		_, err := svc.BuildList(ctx, uuid.New(), planID)
		assert.ErrorIs(t, err, ErrNotPlanOwner)
	})
}

func TestGroceryService_CheckOff(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewGroceryService(db)
	ctx := context.Background()
	userID := uuid.New()

	planID, _ := seedPlan(t, db, userID)
	items, err := svc.BuildList(ctx, userID, planID)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	require.NoError(t, svc.SetChecked(ctx, userID, items[0].ID, true))

	stored, err := svc.List(ctx, userID, planID)
	require.NoError(t, err)
	checked := 0
	for _, item := range stored {
		if item.Checked {
			checked++
		}
	}
	assert.Equal(t, 1, checked)

	require.NoError(t, svc.ClearChecked(ctx, userID, planID))
	stored, err = svc.List(ctx, userID, planID)
	require.NoError(t, err)
	assert.Len(t, stored, len(items)-1)

	t.Run("should not check off another user's item", func(t *testing.T) {
		err := svc.SetChecked(ctx, uuid.New(), stored[0].ID, true)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
