package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/pkg/config"
)

type completionRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newService(baseURL string) Service {
	cfg := config.APIConfig{
		OpenAIAPIKey:       "sk-test",
		OpenAIBaseURL:      baseURL,
		ChatTimeoutSeconds: 5,
	}
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReplyNotConfigured(t *testing.T) {
	svc := New(config.APIConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.False(t, svc.Available())
	_, err := svc.Reply(context.Background(), "hola")
	require.Error(t, err)
	assert.True(t, apperr.IsServiceUnavailable(err))
}

func TestReplyBlankMessage(t *testing.T) {
	svc := newService("http://127.0.0.1:1")
	_, err := svc.Reply(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestReplyRelaysCompletion(t *testing.T) {
	var got completionRequest
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"¡Hola! Soy TechnoBotX."},"finish_reason":"stop"}],"usage":{"total_tokens":12}}`)
	})

	reply, err := newService(srv.URL).Reply(context.Background(), " ¿Qué GPU compro? ")
	require.NoError(t, err)
	assert.Equal(t, "¡Hola! Soy TechnoBotX.", reply)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "¿Qué GPU compro?", got.Messages[1].Content)
}

func TestReplyUpstreamFailure(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit"}}`)
	})

	_, err := newService(srv.URL).Reply(context.Background(), "hola")
	require.Error(t, err)
	assert.True(t, apperr.IsService(err))
	e, _ := apperr.As(err)
	assert.NotContains(t, e.Message, "rate limited")
}

func TestReplyEmptyChoices(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c2","object":"chat.completion","choices":[]}`)
	})

	_, err := newService(srv.URL).Reply(context.Background(), "hola")
	require.Error(t, err)
	assert.True(t, apperr.IsService(err))
}

func TestReplyHonoursTimeout(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	svc := newService(srv.URL)
	svc.timeout = 50 * time.Millisecond
	_, err := svc.Reply(context.Background(), "hola")
	require.Error(t, err)
	assert.True(t, apperr.IsService(err))
}
