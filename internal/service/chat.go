package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const chatSystemPrompt = `You are a friendly cooking assistant inside a meal planning app. Answer questions about the user's current recipe or cooking technique in at most three short paragraphs. Never invent nutrition numbers; point the user at the ingredient page instead.`

// chatHistoryLimit caps how many prior turns are replayed to the model.
const chatHistoryLimit = 20

// ChatService is the cooking assistant: a thin conversation layer over the
// LLM with per-user history in Redis.
type ChatService struct {
	llm   *LLMService
	redis *redis.Client
}

func NewChatService(llm *LLMService, redisClient *redis.Client) *ChatService {
	return &ChatService{llm: llm, redis: redisClient}
}

func chatKey(userID uuid.UUID) string {
	return fmt.Sprintf("chat:history:%s", userID)
}

// Send appends the user message to the conversation, asks the model, stores
// the reply and returns it.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		return "", err
	}

	messages := append(history, Message{Role: "user", Content: message})
	reply, err := s.llm.Complete(ctx, chatSystemPrompt, messages)
	if err != nil {
		return "", fmt.Errorf("failed to get assistant reply: %w", err)
	}

	if err := s.append(ctx, userID, Message{Role: "user", Content: message}, Message{Role: "assistant", Content: reply}); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the stored conversation, oldest first.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	raw, err := s.redis.LRange(ctx, chatKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Reset clears the conversation.
func (s *ChatService) Reset(ctx context.Context, userID uuid.UUID) error {
	return s.redis.Del(ctx, chatKey(userID)).Err()
}

func (s *ChatService) append(ctx context.Context, userID uuid.UUID, messages ...Message) error {
	key := chatKey(userID)
	pipe := s.redis.Pipeline()
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.LTrim(ctx, key, -int64(chatHistoryLimit), -1)
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
