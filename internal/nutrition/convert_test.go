package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	per100g := Vector{Calories: 100, Protein: 10, Carbs: 20, Fat: 5}

	t.Run("should convert weight units directly", func(t *testing.T) {
		got := Convert(per100g, 2, "oz", nil)

		assert.Equal(t, MethodWeight, got.Method)
		assert.Equal(t, 56.699, got.GramWeight)
		require.NotNil(t, got.Nutrition)
		assert.Equal(t, 57.0, got.Nutrition.Calories)
		assert.Equal(t, 5.7, got.Nutrition.Protein)
	})

	t.Run("should prefer weight conversion over portions", func(t *testing.T) {
		portions := []Portion{
			{Description: "100 grams", GramWeight: 100, Amount: 100, Unit: "g"},
		}

		got := Convert(per100g, 50, "g", portions)

		assert.Equal(t, MethodWeight, got.Method)
		assert.Equal(t, 50.0, got.GramWeight)
	})

	t.Run("should fall back to usda portion for volume units", func(t *testing.T) {
		portions := []Portion{
			{Description: "1 cup, cooked", GramWeight: 158, Amount: 1, Unit: "cup"},
		}

		got := Convert(per100g, 1, "cup", portions)

		assert.Equal(t, MethodUSDAPortion, got.Method)
		assert.Equal(t, 158.0, got.GramWeight)
		require.NotNil(t, got.Nutrition)
		assert.Equal(t, 158.0, got.Nutrition.Calories)
		assert.Equal(t, 15.8, got.Nutrition.Protein)
	})

	t.Run("should report failure when nothing matches", func(t *testing.T) {
		got := Convert(per100g, 1, "smidge", []Portion{
			{Description: "1 cup", GramWeight: 240, Amount: 1, Unit: "cup"},
		})

		assert.Equal(t, MethodFailed, got.Method)
		assert.Nil(t, got.Nutrition)
		assert.Zero(t, got.GramWeight)
	})

	t.Run("should support fractional kilogram servings", func(t *testing.T) {
		got := Convert(per100g, 0.25, "kg", nil)

		assert.Equal(t, MethodWeight, got.Method)
		assert.Equal(t, 250.0, got.GramWeight)
		require.NotNil(t, got.Nutrition)
		assert.Equal(t, 250.0, got.Nutrition.Calories)
	})
}
