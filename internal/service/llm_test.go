package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMService_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req llmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "system prompt", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "Hello"}, {"type": "text", "text": " world"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService("test-key", server.URL, "test-model", nil)
	require.NoError(t, err)

	text, err := svc.Complete(context.Background(), "system prompt", []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestLLMService_CompleteErrors(t *testing.T) {
	t.Run("should surface API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
		}))
		defer server.Close()

		svc, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("should fail on empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"content": []}`))
		}))
		defer server.Close()

		svc, err := NewLLMService("test-key", server.URL, "test-model", nil)
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
		assert.Error(t, err)
	})
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService("", "", "", nil)
	assert.Error(t, err)

	svc, err := NewLLMService("key", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", svc.apiURL)
}
