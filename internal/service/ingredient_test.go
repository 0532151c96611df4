package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
	"github.com/platewise/backend/internal/testhelpers"
	"github.com/platewise/backend/internal/types"
)

func TestIngredientService_ApplyUSDAMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("should rescale macros when the serving unit is a weight", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		svc := NewIngredientService(db, nil)

		ingredient := &models.Ingredient{
			Name:        "chicken breast",
			ServingSize: 2,
			ServingUnit: "oz",
			Calories:    999, // stale value, should be replaced
		}
		require.NoError(t, db.Create(ingredient).Error)

		outcome, err := svc.ApplyUSDAMatch(ctx, ingredient.ID, &types.USDAMatchRequest{
			FdcID:       171077,
			Description: "Chicken, broilers or fryers, breast, meat only, raw",
			Per100g:     nutrition.Vector{Calories: 100, Protein: 10, Carbs: 20, Fat: 5},
		})
		require.NoError(t, err)

		assert.Equal(t, nutrition.MethodWeight, outcome.Conversion.Method)
		assert.InDelta(t, 56.699, outcome.Conversion.GramWeight, 0.001)
		assert.Empty(t, outcome.Warning)

		updated := outcome.Ingredient
		assert.InDelta(t, 57, updated.Calories, 0.0001)
		assert.InDelta(t, 5.7, updated.Protein, 0.0001)
		require.NotNil(t, updated.USDAFdcID)
		assert.Equal(t, 171077, *updated.USDAFdcID)
		require.NotNil(t, updated.USDACalories100g)
		assert.Equal(t, float64(100), *updated.USDACalories100g)
	})

	t.Run("should use a USDA portion for non-weight units", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		svc := NewIngredientService(db, nil)

		ingredient := &models.Ingredient{
			Name:        "brown rice",
			ServingSize: 1,
			ServingUnit: "cup",
		}
		require.NoError(t, db.Create(ingredient).Error)

		outcome, err := svc.ApplyUSDAMatch(ctx, ingredient.ID, &types.USDAMatchRequest{
			FdcID:   169704,
			Per100g: nutrition.Vector{Calories: 112, Protein: 2.3, Carbs: 23.5, Fat: 0.8},
			Portions: []nutrition.Portion{
				{Description: "1 cup, cooked", GramWeight: 195, Amount: 1, Unit: "cup"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, nutrition.MethodUSDAPortion, outcome.Conversion.Method)
		assert.InDelta(t, 195, outcome.Conversion.GramWeight, 0.001)
		assert.InDelta(t, 218, outcome.Ingredient.Calories, 0.0001)
	})

	t.Run("should preserve stored macros when conversion fails", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		svc := NewIngredientService(db, nil)

		fiber := 3.1
		ingredient := &models.Ingredient{
			Name:        "mystery spice",
			ServingSize: 1,
			ServingUnit: "pinch",
			Calories:    12,
			Protein:     0.5,
			Fiber:       &fiber,
		}
		require.NoError(t, db.Create(ingredient).Error)

		outcome, err := svc.ApplyUSDAMatch(ctx, ingredient.ID, &types.USDAMatchRequest{
			FdcID:   170931,
			Per100g: nutrition.Vector{Calories: 250, Protein: 10, Carbs: 50, Fat: 5},
		})
		require.NoError(t, err)

		assert.Equal(t, nutrition.MethodFailed, outcome.Conversion.Method)
		assert.NotEmpty(t, outcome.Warning)

		// Macros stay what the admin entered.
		updated := outcome.Ingredient
		assert.Equal(t, float64(12), updated.Calories)
		assert.Equal(t, 0.5, updated.Protein)
		require.NotNil(t, updated.Fiber)
		assert.Equal(t, 3.1, *updated.Fiber)
		assert.Nil(t, updated.GramWeight)

		// The per-100g reference is still recorded for a later retry.
		require.NotNil(t, updated.USDACalories100g)
		assert.Equal(t, float64(250), *updated.USDACalories100g)
		assert.Equal(t, nutrition.MethodFailed, updated.ConversionMethod)
	})

	t.Run("should return not found for unknown ingredient", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		svc := NewIngredientService(db, nil)

		_, err := svc.ApplyUSDAMatch(ctx, uuid.New(), &types.USDAMatchRequest{FdcID: 1})
		assert.Error(t, err)
	})
}

func TestIngredientService_ListIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewIngredientService(db, nil)
	ctx := context.Background()

	for _, name := range []string{"banana", "broccoli", "chicken breast"} {
		require.NoError(t, db.Create(&models.Ingredient{Name: name, ServingSize: 1, ServingUnit: "cup"}).Error)
	}

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListIngredients(ctx, "bro")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "broccoli", filtered[0].Name)
}
