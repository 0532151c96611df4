package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
	"github.com/platewise/backend/internal/types"
)

// IngredientService owns the curated ingredient table and its USDA
// cross-matching.
type IngredientService struct {
	db   *gorm.DB
	usda *USDAService
}

func NewIngredientService(db *gorm.DB, usda *USDAService) *IngredientService {
	return &IngredientService{db: db, usda: usda}
}

func (s *IngredientService) ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *IngredientService) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *IngredientService) UpdateIngredient(ctx context.Context, id uuid.UUID, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Updates(ingredient).Error; err != nil {
		return nil, err
	}
	return s.GetIngredient(ctx, id)
}

// SearchUSDACandidates proxies a FoodData Central search for the admin UI.
func (s *IngredientService) SearchUSDACandidates(ctx context.Context, query string, limit int) ([]FoodMatch, error) {
	return s.usda.SearchFoods(ctx, query, limit)
}

// MatchOutcome reports what ApplyUSDAMatch did, including the user-facing
// warning when the serving could not be converted.
type MatchOutcome struct {
	Ingredient *models.Ingredient         `json:"ingredient"`
	Conversion nutrition.ConversionResult `json:"conversion"`
	Warning    string                     `json:"warning,omitempty"`
}

// ApplyUSDAMatch stores a chosen USDA match on an ingredient. The per-100g
// reference values are always persisted; per-serving macros are only
// overwritten when the serving could be converted to grams. On a failed
// conversion the stored macros stay untouched and the outcome carries a
// warning instead of an error.
func (s *IngredientService) ApplyUSDAMatch(ctx context.Context, id uuid.UUID, match *types.USDAMatchRequest) (*MatchOutcome, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}

	result := nutrition.Convert(match.Per100g, ingredient.ServingSize, ingredient.ServingUnit, match.Portions)

	updates := map[string]interface{}{
		"usda_fdc_id":        match.FdcID,
		"usda_description":   match.Description,
		"usda_calories_100g": match.Per100g.Calories,
		"usda_protein_100g":  match.Per100g.Protein,
		"usda_carbs_100g":    match.Per100g.Carbs,
		"usda_fat_100g":      match.Per100g.Fat,
		"usda_fiber_100g":    match.Per100g.Fiber,
		"usda_sugar_100g":    match.Per100g.Sugar,
		"conversion_method":  result.Method,
	}

	outcome := &MatchOutcome{Conversion: result}

	if result.Method == nutrition.MethodFailed {
		log.Printf("[IngredientService] could not convert %g %s of %q to grams, macros unchanged",
			ingredient.ServingSize, ingredient.ServingUnit, ingredient.Name)
		outcome.Warning = fmt.Sprintf("could not convert %g %s to grams; macros unchanged",
			ingredient.ServingSize, ingredient.ServingUnit)
	} else {
		updates["calories"] = result.Nutrition.Calories
		updates["protein"] = result.Nutrition.Protein
		updates["carbs"] = result.Nutrition.Carbs
		updates["fat"] = result.Nutrition.Fat
		updates["fiber"] = result.Nutrition.Fiber
		updates["sugar"] = result.Nutrition.Sugar
		updates["gram_weight"] = result.GramWeight
	}

	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	outcome.Ingredient, err = s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
