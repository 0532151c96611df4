package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testhelpers"
)

func TestDiaryService_Log(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewDiaryService(db)
	ctx := context.Background()
	userID := uuid.New()

	fiber := 2.0
	sugar := 3.0
	ingredient := models.Ingredient{
		Name:        "greek yogurt",
		ServingSize: 1,
		ServingUnit: "cup",
		Calories:    100,
		Protein:     10,
		Carbs:       20,
		Fat:         5,
		Fiber:       &fiber,
		Sugar:       &sugar,
	}
	require.NoError(t, db.Create(&ingredient).Error)

	entry, err := svc.Log(ctx, userID, ingredient.ID, 1.25, "breakfast", time.Now())
	require.NoError(t, err)

	// Label rounding: calories to whole numbers, everything else to a tenth.
	assert.Equal(t, float64(125), entry.Calories)
	assert.Equal(t, 12.5, entry.Protein)
	assert.Equal(t, float64(25), entry.Carbs)
	assert.Equal(t, 6.3, entry.Fat)
	require.NotNil(t, entry.Fiber)
	assert.Equal(t, 2.5, *entry.Fiber)
	require.NotNil(t, entry.Sugar)
	assert.Equal(t, 3.8, *entry.Sugar)

	t.Run("should fail for unknown ingredient", func(t *testing.T) {
		_, err := svc.Log(ctx, userID, uuid.New(), 1, "lunch", time.Now())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestDiaryService_Summarize(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewDiaryService(db)
	ctx := context.Background()
	userID := uuid.New()

	ingredient := models.Ingredient{Name: "banana", ServingSize: 1, ServingUnit: "medium", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}
	require.NoError(t, db.Create(&ingredient).Error)

	day := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	_, err := svc.Log(ctx, userID, ingredient.ID, 1, "breakfast", day)
	require.NoError(t, err)
	_, err = svc.Log(ctx, userID, ingredient.ID, 2, "snack", day.Add(4*time.Hour))
	require.NoError(t, err)

	// An entry on another day stays out of the summary.
	_, err = svc.Log(ctx, userID, ingredient.ID, 1, "breakfast", day.AddDate(0, 0, 1))
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-25", summary.Date)
	assert.Equal(t, 2, summary.Entries)
	assert.Equal(t, float64(105+210), summary.Calories)

	entries, err := svc.ListDay(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].LoggedAt.Before(entries[1].LoggedAt))
}

func TestDiaryService_Delete(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewDiaryService(db)
	ctx := context.Background()
	userID := uuid.New()

	ingredient := models.Ingredient{Name: "eggs", ServingSize: 1, ServingUnit: "large", Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}
	require.NoError(t, db.Create(&ingredient).Error)

	entry, err := svc.Log(ctx, userID, ingredient.ID, 1, "breakfast", time.Now())
	require.NoError(t, err)

	t.Run("should not delete another user's entry", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.New(), entry.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	require.NoError(t, svc.Delete(ctx, userID, entry.ID))
	entries, err := svc.ListDay(ctx, userID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
