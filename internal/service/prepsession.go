package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/llmjson"
	"github.com/platewise/backend/internal/models"
)

const prepSystemPrompt = `You are a batch-cooking coach. Given a week of planned meals, group the prep work into 2-4 sessions. Respond only with a JSON array of session objects, ordered by when they should happen:
[
    {
        "title": "Sunday big batch",
        "description": "One sentence",
        "day_of_week": "sunday",
        "duration_minutes": 90,
        "tasks": ["Roast the chicken thighs", "Cook a pot of rice"],
        "equipment": ["sheet pan", "large pot"],
        "storage_tips": "Refrigerate in airtight containers",
        "notes": "",
        "display_order": 1
    }
]

display_order must be the last key of each object. Do not wrap the array in markdown fences.`

// PrepSessionService generates and stores batch-cooking sessions for a plan.
// Model output goes through the llmjson repair pipeline before any row is
// written, since session arrays are the response most often truncated.
type PrepSessionService struct {
	db  *gorm.DB
	llm *LLMService
}

func NewPrepSessionService(db *gorm.DB, llm *LLMService) *PrepSessionService {
	return &PrepSessionService{db: db, llm: llm}
}

// Generate replaces a plan's prep sessions with a fresh LLM-generated set.
func (s *PrepSessionService) Generate(ctx context.Context, userID uuid.UUID, planID uuid.UUID) ([]models.PrepSession, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		First(&plan, "id = ?", planID).Error
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}

	content, err := s.llm.Complete(ctx, prepSystemPrompt, []Message{{Role: "user", Content: prepPrompt(&plan)}})
	if err != nil {
		return nil, fmt.Errorf("failed to generate prep sessions: %w", err)
	}

	drafts, err := llmjson.Repair(llmjson.StripFences(content))
	if err != nil {
		var exhausted *llmjson.ExhaustedError
		if errors.As(err, &exhausted) {
			// Raw payload goes to server logs only, never to the client.
			log.Printf("[PrepSessionService] unrecoverable session payload for plan %s: %s", planID, exhausted.Raw)
		}
		return nil, fmt.Errorf("failed to parse prep sessions: %w", err)
	}

	sessions := make([]models.PrepSession, 0, len(drafts))
	for _, d := range drafts {
		sessions = append(sessions, models.PrepSession{
			PlanID:          planID,
			Title:           d.Title,
			Description:     d.Description,
			DayOfWeek:       d.DayOfWeek,
			DurationMinutes: d.DurationMinutes,
			Tasks:           strings.Join(d.Tasks, "\n"),
			Equipment:       strings.Join(d.Equipment, "\n"),
			StorageTips:     d.StorageTips,
			Notes:           d.Notes,
			DisplayOrder:    d.DisplayOrder,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&models.PrepSession{}).Error; err != nil {
			return err
		}
		for i := range sessions {
			if err := tx.Create(&sessions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func prepPrompt(plan *models.MealPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %s\nMeals this week:\n", plan.Title)
	for _, m := range plan.Meals {
		fmt.Fprintf(&b, "- %s %s: %s (%d min, serves %d)\n", m.DayOfWeek, m.MealType, m.Name, m.PrepMinutes, m.Servings)
	}
	return b.String()
}

// List returns a plan's sessions in display order.
func (s *PrepSessionService) List(ctx context.Context, userID uuid.UUID, planID uuid.UUID) ([]models.PrepSession, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}

	var sessions []models.PrepSession
	err := s.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("display_order").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// SetCompleted marks one session done or not done.
func (s *PrepSessionService) SetCompleted(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, completed bool) error {
	var session models.PrepSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		return err
	}
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", session.PlanID).Error; err != nil {
		return err
	}
	if plan.UserID != userID {
		return ErrNotPlanOwner
	}
	return s.db.WithContext(ctx).Model(&models.PrepSession{}).
		Where("id = ?", sessionID).
		Update("completed", completed).Error
}
