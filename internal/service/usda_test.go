package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fdcFoodJSON = `{
	"fdcId": 171705,
	"description": "Bananas, raw",
	"dataType": "SR Legacy",
	"foodNutrients": [
		{"nutrient": {"id": 1008}, "amount": 89},
		{"nutrient": {"id": 1003}, "amount": 1.09},
		{"nutrient": {"id": 1005}, "amount": 22.8},
		{"nutrient": {"id": 1004}, "amount": 0.33},
		{"nutrient": {"id": 1079}, "amount": 2.6},
		{"nutrient": {"id": 2000}, "amount": 12.2},
		{"nutrient": {"id": 1093}, "amount": 1}
	],
	"foodPortions": [
		{"portionDescription": "1 medium", "gramWeight": 118, "amount": 1, "measureUnit": {"name": "medium"}},
		{"modifier": "cup, sliced", "gramWeight": 150, "measureUnit": {"name": "cup"}}
	]
}`

func TestUSDAService_GetFood(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/food/171705", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fdcFoodJSON))
	}))
	defer server.Close()

	svc := NewUSDAService("test-key", server.URL)
	match, err := svc.GetFood(context.Background(), 171705)
	require.NoError(t, err)

	assert.Equal(t, 171705, match.FdcID)
	assert.Equal(t, "Bananas, raw", match.Description)
	assert.Equal(t, float64(89), match.Per100g.Calories)
	assert.Equal(t, 1.09, match.Per100g.Protein)
	assert.Equal(t, 22.8, match.Per100g.Carbs)
	assert.Equal(t, 0.33, match.Per100g.Fat)
	require.NotNil(t, match.Per100g.Fiber)
	assert.Equal(t, 2.6, *match.Per100g.Fiber)
	require.NotNil(t, match.Per100g.Sugar)
	assert.Equal(t, 12.2, *match.Per100g.Sugar)

	require.Len(t, match.Portions, 2)
	assert.Equal(t, "1 medium", match.Portions[0].Description)
	assert.Equal(t, float64(118), match.Portions[0].GramWeight)
	assert.Equal(t, float64(1), match.Portions[0].Amount)

	// Modifier fills in when the portion description is empty, and a zero
	// amount defaults to one.
	assert.Equal(t, "cup, sliced", match.Portions[1].Description)
	assert.Equal(t, float64(1), match.Portions[1].Amount)
}

func TestUSDAService_SearchFoods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foods/search", r.URL.Path)
		assert.Equal(t, "banana", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": [` + fdcFoodJSON + `]}`))
	}))
	defer server.Close()

	svc := NewUSDAService("test-key", server.URL)
	matches, err := svc.SearchFoods(context.Background(), "banana", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Bananas, raw", matches[0].Description)
}

func TestUSDAService_SearchFoodsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewUSDAService("test-key", server.URL)
	_, err := svc.SearchFoods(context.Background(), "banana", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
