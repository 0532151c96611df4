package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/platewise/backend/internal/nutrition"
)

// USDA FoodData Central nutrient numbers for the fields we store.
const (
	nutrientCalories = 1008
	nutrientProtein  = 1003
	nutrientFat      = 1004
	nutrientCarbs    = 1005
	nutrientFiber    = 1079
	nutrientSugar    = 2000
)

// FoodMatch is a candidate food returned by a FoodData Central search,
// flattened to the pieces the matching UI and the conversion core need.
type FoodMatch struct {
	FdcID       int                 `json:"fdc_id"`
	Description string              `json:"description"`
	DataType    string              `json:"data_type"`
	Per100g     nutrition.Vector    `json:"nutrition_per_100g"`
	Portions    []nutrition.Portion `json:"portions"`
}

// USDAService is a thin client for the FoodData Central API. It does no
// conversion of its own; results feed the nutrition package.
type USDAService struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewUSDAService(apiKey, apiURL string) *USDAService {
	return &USDAService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type fdcNutrient struct {
	Nutrient struct {
		ID int `json:"id"`
	} `json:"nutrient"`
	Amount float64 `json:"amount"`
}

type fdcPortion struct {
	PortionDescription string  `json:"portionDescription"`
	Modifier           string  `json:"modifier"`
	GramWeight         float64 `json:"gramWeight"`
	Amount             float64 `json:"amount"`
	MeasureUnit        struct {
		Name string `json:"name"`
	} `json:"measureUnit"`
}

type fdcFood struct {
	FdcID         int           `json:"fdcId"`
	Description   string        `json:"description"`
	DataType      string        `json:"dataType"`
	FoodNutrients []fdcNutrient `json:"foodNutrients"`
	FoodPortions  []fdcPortion  `json:"foodPortions"`
}

// SearchFoods queries FoodData Central and returns up to limit candidates.
func (s *USDAService) SearchFoods(ctx context.Context, query string, limit int) ([]FoodMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("dataType", "Foundation,SR Legacy,Survey (FNDDS)")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("USDA search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Foods []fdcFood `json:"foods"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	matches := make([]FoodMatch, 0, len(result.Foods))
	for _, f := range result.Foods {
		matches = append(matches, flattenFood(f))
	}
	return matches, nil
}

// GetFood fetches the full record for one food, including its portions.
func (s *USDAService) GetFood(ctx context.Context, fdcID int) (*FoodMatch, error) {
	reqURL := fmt.Sprintf("%s/food/%d?api_key=%s", s.apiURL, fdcID, url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("USDA lookup failed with status %d: %s", resp.StatusCode, string(body))
	}

	var food fdcFood
	if err := json.Unmarshal(body, &food); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	match := flattenFood(food)
	return &match, nil
}

func flattenFood(f fdcFood) FoodMatch {
	match := FoodMatch{
		FdcID:       f.FdcID,
		Description: f.Description,
		DataType:    f.DataType,
	}

	for _, n := range f.FoodNutrients {
		switch n.Nutrient.ID {
		case nutrientCalories:
			match.Per100g.Calories = n.Amount
		case nutrientProtein:
			match.Per100g.Protein = n.Amount
		case nutrientCarbs:
			match.Per100g.Carbs = n.Amount
		case nutrientFat:
			match.Per100g.Fat = n.Amount
		case nutrientFiber:
			v := n.Amount
			match.Per100g.Fiber = &v
		case nutrientSugar:
			v := n.Amount
			match.Per100g.Sugar = &v
		}
	}

	for _, p := range f.FoodPortions {
		desc := p.PortionDescription
		if desc == "" {
			desc = p.Modifier
		}
		amount := p.Amount
		if amount == 0 {
			amount = 1
		}
		match.Portions = append(match.Portions, nutrition.Portion{
			Description: desc,
			GramWeight:  p.GramWeight,
			Amount:      amount,
			Unit:        p.MeasureUnit.Name,
		})
	}

	return match
}
