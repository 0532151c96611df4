package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// DiaryService records consumption events. Macros are snapshotted at log
// time with the same rounding the nutrition labels use, so diary totals
// match what the user saw on the ingredient.
type DiaryService struct {
	db *gorm.DB
}

func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{db: db}
}

// Log creates a diary entry for servings of an ingredient.
func (s *DiaryService) Log(ctx context.Context, userID uuid.UUID, ingredientID uuid.UUID, servings float64, mealType string, loggedAt time.Time) (*models.DiaryEntry, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", ingredientID).Error; err != nil {
		return nil, err
	}

	perServing := nutrition.Vector{
		Calories: ingredient.Calories,
		Protein:  ingredient.Protein,
		Carbs:    ingredient.Carbs,
		Fat:      ingredient.Fat,
		Fiber:    ingredient.Fiber,
		Sugar:    ingredient.Sugar,
	}
	scaled := nutrition.Scale(perServing, servings)

	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	entry := &models.DiaryEntry{
		UserID:       userID,
		IngredientID: ingredientID,
		LoggedAt:     loggedAt,
		MealType:     mealType,
		Servings:     servings,
		Calories:     scaled.Calories,
		Protein:      scaled.Protein,
		Carbs:        scaled.Carbs,
		Fat:          scaled.Fat,
		Fiber:        scaled.Fiber,
		Sugar:        scaled.Sugar,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListDay returns a user's entries for the day containing t, oldest first.
func (s *DiaryService) ListDay(ctx context.Context, userID uuid.UUID, t time.Time) ([]models.DiaryEntry, error) {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var entries []models.DiaryEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, dayStart, dayEnd).
		Order("logged_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DaySummary is a day's macro totals.
type DaySummary struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Entries  int     `json:"entries"`
}

// Summarize totals a day's entries.
func (s *DiaryService) Summarize(ctx context.Context, userID uuid.UUID, t time.Time) (*DaySummary, error) {
	entries, err := s.ListDay(ctx, userID, t)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{Date: t.Format("2006-01-02"), Entries: len(entries)}
	for _, e := range entries {
		summary.Calories += e.Calories
		summary.Protein += e.Protein
		summary.Carbs += e.Carbs
		summary.Fat += e.Fat
	}
	return summary, nil
}

// Delete removes one of the user's own entries.
func (s *DiaryService) Delete(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.DiaryEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
