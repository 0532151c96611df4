package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned when a plan draft has expired or never existed.
var ErrDraftNotFound = errors.New("plan draft not found")

// Message represents one turn in a model conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// llmRequest is the Anthropic messages API request body.
type llmRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
}

// LLMService wraps the Anthropic messages API and the Redis caches built on
// top of it (plan drafts, chat history).
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	redis  *redis.Client
}

func NewLLMService(apiKey, apiURL, model string, redisClient *redis.Client) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key must be set")
	}
	if apiURL == "" {
		apiURL = "https://api.anthropic.com/v1/messages"
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
		redis:  redisClient,
	}, nil
}

// Complete sends one request to the messages API and returns the
// concatenated text blocks of the response.
func (s *LLMService) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	reqBody := llmRequest{
		Model:     s.model,
		MaxTokens: 4096,
		System:    system,
		Messages:  messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var text string
	for _, block := range result.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}
	return text, nil
}

// PlanDraft is an LLM-generated weekly plan waiting for user confirmation.
// Drafts live in Redis for a day and never touch Postgres.
type PlanDraft struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Title     string          `json:"title"`
	WeekStart time.Time       `json:"week_start"`
	Meals     []PlanDraftMeal `json:"meals"`
}

// PlanDraftMeal is one meal slot of a drafted plan.
type PlanDraftMeal struct {
	DayOfWeek   string                `json:"day_of_week"`
	MealType    string                `json:"meal_type"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	PrepMinutes int                   `json:"prep_minutes"`
	Servings    int                   `json:"servings"`
	Ingredients []PlanDraftIngredient `json:"ingredients"`
}

// PlanDraftIngredient is a quantity of a named ingredient in a drafted meal.
type PlanDraftIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// SaveDraft saves a plan draft to Redis.
func (s *LLMService) SaveDraft(ctx context.Context, draft *PlanDraft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := fmt.Sprintf("plan:draft:%s", draft.ID)
	if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a plan draft from Redis.
func (s *LLMService) GetDraft(ctx context.Context, id string) (*PlanDraft, error) {
	key := fmt.Sprintf("plan:draft:%s", id)
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft PlanDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes a plan draft from Redis.
func (s *LLMService) DeleteDraft(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, fmt.Sprintf("plan:draft:%s", id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
