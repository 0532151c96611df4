package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testhelpers"
)

// llmStub returns a messages-API server that always answers with the given
// text block.
func llmStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": text}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func seedPrepPlan(t *testing.T, db *gorm.DB, userID uuid.UUID) uuid.UUID {
	t.Helper()
	plan := models.MealPlan{UserID: userID, Title: "Batch week", WeekStart: time.Now(), Status: models.PlanStatusActive}
	require.NoError(t, db.Create(&plan).Error)
	meal := models.PlannedMeal{PlanID: plan.ID, DayOfWeek: "monday", MealType: "dinner", Name: "Chili", PrepMinutes: 40, Servings: 4}
	require.NoError(t, db.Create(&meal).Error)
	return plan.ID
}

func TestPrepSessionService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("should store sessions from a clean response", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		userID := uuid.New()
		planID := seedPrepPlan(t, db, userID)

		server := llmStub(t, `[
			{"title": "Sunday big batch", "description": "Cook the chili base", "day_of_week": "sunday",
			 "duration_minutes": 90, "tasks": ["Brown the beef", "Simmer the chili"],
			 "equipment": ["dutch oven"], "storage_tips": "Refrigerate up to 4 days", "notes": "", "display_order": 1},
			{"title": "Wednesday top-up", "description": "Refresh sides", "day_of_week": "wednesday",
			 "duration_minutes": 30, "tasks": ["Cook rice"], "equipment": ["pot"],
			 "storage_tips": "", "notes": "", "display_order": 2}
		]`)
		defer server.Close()

		llm, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)
		svc := NewPrepSessionService(db, llm)

		sessions, err := svc.Generate(ctx, userID, planID)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Sunday big batch", sessions[0].Title)
		assert.Equal(t, "Brown the beef\nSimmer the chili", sessions[0].Tasks)
		assert.Equal(t, "dutch oven", sessions[0].Equipment)
		assert.Equal(t, 1, sessions[0].DisplayOrder)

		stored, err := svc.List(ctx, userID, planID)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("should recover sessions from a truncated response", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		userID := uuid.New()
		planID := seedPrepPlan(t, db, userID)

		// The array is cut off mid-way through the second session.
		server := llmStub(t, `[
			{"title": "Sunday big batch", "description": "Cook the chili base", "day_of_week": "sunday",
			 "duration_minutes": 90, "tasks": ["Brown the beef"], "equipment": ["dutch oven"],
			 "storage_tips": "", "notes": "", "display_order": 1},
			{"title": "Wednesday top-up", "description": "Refre`)
		defer server.Close()

		llm, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)
		svc := NewPrepSessionService(db, llm)

		sessions, err := svc.Generate(ctx, userID, planID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "Sunday big batch", sessions[0].Title)
	})

	t.Run("should replace previous sessions on regeneration", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		userID := uuid.New()
		planID := seedPrepPlan(t, db, userID)

		server := llmStub(t, `[{"title": "Only session", "description": "", "day_of_week": "sunday",
			"duration_minutes": 60, "tasks": [], "equipment": [], "storage_tips": "", "notes": "", "display_order": 1}]`)
		defer server.Close()

		llm, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)
		svc := NewPrepSessionService(db, llm)

		_, err = svc.Generate(ctx, userID, planID)
		require.NoError(t, err)
		_, err = svc.Generate(ctx, userID, planID)
		require.NoError(t, err)

		var count int64
		db.Model(&models.PrepSession{}).Where("plan_id = ?", planID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("should fail on unrecoverable output without writing rows", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		userID := uuid.New()
		planID := seedPrepPlan(t, db, userID)

		server := llmStub(t, "I'm sorry, I cannot produce JSON today.")
		defer server.Close()

		llm, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)
		svc := NewPrepSessionService(db, llm)

		_, err = svc.Generate(ctx, userID, planID)
		require.Error(t, err)

		var count int64
		db.Model(&models.PrepSession{}).Where("plan_id = ?", planID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("should refuse another user's plan", func(t *testing.T) {
		db := testhelpers.SetupSQLiteDatabase(t)
		planID := seedPrepPlan(t, db, uuid.New())

		llm, err := NewLLMService("test-key", "http://127.0.0.1:1", "test-model", nil)
		require.NoError(t, err)
		svc := NewPrepSessionService(db, llm)

		_, err = svc.Generate(ctx, uuid.New(), planID)
		assert.ErrorIs(t, err, ErrNotPlanOwner)
	})
}

func TestPrepSessionService_SetCompleted(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	ctx := context.Background()
	userID := uuid.New()
	planID := seedPrepPlan(t, db, userID)

	session := models.PrepSession{PlanID: planID, Title: "Sunday big batch", DisplayOrder: 1}
	require.NoError(t, db.Create(&session).Error)

	svc := NewPrepSessionService(db, nil)

	require.NoError(t, svc.SetCompleted(ctx, userID, session.ID, true))
	sessions, err := svc.List(ctx, userID, planID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Completed)

	t.Run("should refuse another user's session", func(t *testing.T) {
		err := svc.SetCompleted(ctx, uuid.New(), session.ID, false)
		assert.ErrorIs(t, err, ErrNotPlanOwner)
	})
}
