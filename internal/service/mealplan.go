package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/llmjson"
	"github.com/platewise/backend/internal/models"
)

var (
	ErrNotPlanOwner  = errors.New("meal plan does not belong to user")
	ErrInvalidStatus = errors.New("invalid plan status")
)

const planSystemPrompt = `You are a meal planning assistant for busy households. Respond only with JSON matching this structure:
{
    "title": "Plan title",
    "meals": [
        {
            "day_of_week": "monday",
            "meal_type": "dinner",
            "name": "Sheet pan chicken and vegetables",
            "description": "One sentence",
            "prep_minutes": 35,
            "servings": 4,
            "ingredients": [
                {"name": "chicken thighs", "quantity": 1.5, "unit": "lb"},
                {"name": "broccoli", "quantity": 2, "unit": "cup"}
            ]
        }
    ]
}

day_of_week must be a lowercase English weekday. meal_type must be one of breakfast, lunch, dinner, snack. quantity must be a number.`

// MealPlanService owns weekly plans: LLM-backed draft generation,
// confirmation into Postgres, CRUD with ownership checks, sharing and
// discovery search.
type MealPlanService struct {
	db  *gorm.DB
	llm *LLMService
}

func NewMealPlanService(db *gorm.DB, llm *LLMService) *MealPlanService {
	return &MealPlanService{db: db, llm: llm}
}

// GenerateDraft asks the model for a week of meals shaped by the user's
// onboarding profile and stores the result as a Redis draft.
func (s *MealPlanService) GenerateDraft(ctx context.Context, userID uuid.UUID, weekStart time.Time, title, extraPrompt string) (*PlanDraft, error) {
	prompt, err := s.buildPlanPrompt(ctx, userID, extraPrompt)
	if err != nil {
		return nil, err
	}

	content, err := s.llm.Complete(ctx, planSystemPrompt, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	var generated struct {
		Title string          `json:"title"`
		Meals []PlanDraftMeal `json:"meals"`
	}
	if err := json.Unmarshal([]byte(llmjson.StripFences(content)), &generated); err != nil {
		return nil, fmt.Errorf("failed to parse generated plan: %w", err)
	}

	if title == "" {
		title = generated.Title
	}
	draft := &PlanDraft{
		UserID:    userID.String(),
		Title:     title,
		WeekStart: weekStart,
		Meals:     generated.Meals,
	}
	if err := s.llm.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// buildPlanPrompt assembles the user request from profile, dietary
// preferences and allergens.
func (s *MealPlanService) buildPlanPrompt(ctx context.Context, userID uuid.UUID, extra string) (string, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	var prefs []models.DietaryPreference
	s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs)
	dietary := make([]string, 0, len(prefs))
	for _, p := range prefs {
		if p.PreferenceType == "custom" {
			dietary = append(dietary, p.CustomName)
		} else {
			dietary = append(dietary, p.PreferenceType)
		}
	}

	var alls []models.Allergen
	s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&alls)
	allergens := make([]string, 0, len(alls))
	for _, a := range alls {
		allergens = append(allergens, a.AllergenName)
	}

	prompt := fmt.Sprintf("Plan a week of dinners for a household of %d. Cooking ability: %s.",
		profile.HouseholdSize, profile.CookingAbilityLevel)
	if profile.CalorieTarget > 0 {
		prompt += fmt.Sprintf(" Target roughly %d calories per person per day.", profile.CalorieTarget)
	}
	if len(dietary) > 0 {
		prompt += " The meals should be suitable for: " + strings.Join(dietary, ", ") + "."
	}
	if len(allergens) > 0 {
		prompt += " Avoid using: " + strings.Join(allergens, ", ") + "."
	}
	if extra != "" {
		prompt += " " + extra
	}
	return prompt, nil
}

// ConfirmDraft turns a Redis draft into persisted plan, meal and ingredient
// rows. Draft ingredients are matched to the curated ingredient table by
// name; unknown ones are created as bare records for the admin to fill in.
func (s *MealPlanService) ConfirmDraft(ctx context.Context, userID uuid.UUID, draftID string) (*models.MealPlan, error) {
	draft, err := s.llm.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID.String() {
		return nil, ErrNotPlanOwner
	}

	embedding := PlanEmbedding(draft.Title + " " + mealNames(draft.Meals))
	plan := &models.MealPlan{
		UserID:    userID,
		Title:     draft.Title,
		WeekStart: draft.WeekStart,
		Status:    models.PlanStatusActive,
		Embedding: &embedding,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		for i, m := range draft.Meals {
			meal := models.PlannedMeal{
				PlanID:       plan.ID,
				DayOfWeek:    m.DayOfWeek,
				MealType:     m.MealType,
				Name:         m.Name,
				Description:  m.Description,
				PrepMinutes:  m.PrepMinutes,
				Servings:     m.Servings,
				DisplayOrder: i,
			}
			if err := tx.Create(&meal).Error; err != nil {
				return err
			}
			for _, ing := range m.Ingredients {
				ingredient, err := findOrCreateIngredient(tx, ing.Name, ing.Unit)
				if err != nil {
					return err
				}
				mi := models.MealIngredient{
					MealID:       meal.ID,
					IngredientID: ingredient.ID,
					Quantity:     ing.Quantity,
					Unit:         ing.Unit,
				}
				if err := tx.Create(&mi).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.llm.DeleteDraft(ctx, draftID)
	return s.GetPlan(ctx, userID, plan.ID)
}

func mealNames(meals []PlanDraftMeal) string {
	names := make([]string, 0, len(meals))
	for _, m := range meals {
		names = append(names, m.Name)
	}
	return strings.Join(names, " ")
}

func findOrCreateIngredient(tx *gorm.DB, name, unit string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	ingredient = models.Ingredient{Name: name, ServingSize: 1, ServingUnit: unit}
	if err := tx.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetPlan loads a plan with meals and ingredients, enforcing ownership
// unless the plan has been shared.
func (s *MealPlanService) GetPlan(ctx context.Context, userID uuid.UUID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		Preload("Meals.Ingredients.Ingredient").
		First(&plan, "id = ?", planID).Error
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	return &plan, nil
}

// GetSharedPlan loads a plan by its share token, no authentication required.
func (s *MealPlanService) GetSharedPlan(ctx context.Context, token string) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("display_order") }).
		Preload("Meals.Ingredients.Ingredient").
		First(&plan, "share_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans lists a user's plans, newest week first.
func (s *MealPlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("week_start DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdateStatus moves a plan through draft/active/completed/archived.
func (s *MealPlanService) UpdateStatus(ctx context.Context, userID uuid.UUID, planID uuid.UUID, status string) error {
	switch status {
	case models.PlanStatusDraft, models.PlanStatusActive, models.PlanStatusCompleted, models.PlanStatusArchived:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	res := s.db.WithContext(ctx).Model(&models.MealPlan{}).
		Where("id = ? AND user_id = ?", planID, userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePlan removes a plan and its dependents.
func (s *MealPlanService) DeletePlan(ctx context.Context, userID uuid.UUID, planID uuid.UUID) error {
	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PrepSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.GroceryItem{}).Error; err != nil {
			return err
		}
		for _, meal := range plan.Meals {
			if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealIngredient{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlannedMeal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MealPlan{}, "id = ?", plan.ID).Error
	})
}

// Share issues (or reuses) a share token for a plan.
func (s *MealPlanService) Share(ctx context.Context, userID uuid.UUID, planID uuid.UUID) (string, error) {
	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return "", err
	}
	if plan.ShareToken != nil && *plan.ShareToken != "" {
		return *plan.ShareToken, nil
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	err = s.db.WithContext(ctx).Model(&models.MealPlan{}).
		Where("id = ?", plan.ID).
		Update("share_token", token).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// SearchSharedPlans searches shared plans by keyword, ordered by embedding
// similarity on Postgres and by plain keyword match elsewhere.
func (s *MealPlanService) SearchSharedPlans(ctx context.Context, query string) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	dbQuery := s.db.WithContext(ctx).Where("share_token IS NOT NULL")

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := PlanEmbedding(query)
			dbQuery = dbQuery.
				Select("meal_plans.*, embedding <-> ? AS similarity", vec).
				Where("LOWER(title) LIKE ? OR LOWER(notes) LIKE ?", like, like).
				Order("similarity ASC")
		} else {
			dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(notes) LIKE ?", like, like)
		}
	}

	if err := dbQuery.Limit(50).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
