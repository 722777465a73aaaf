package chat

import (
	"context"
	"strings"
	"time"

	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/pkg/config"
)

const (
	defaultModel   = openai.GPT3Dot5Turbo
	defaultTimeout = 30 * time.Second
	temperature    = 0.7

	systemPrompt = "Eres TechnoBotX, un asistente amigable y experto en tecnología, hardware y desarrollo de software. Muestra entusiasmo por el canal TechnoByteX."
)

// Service relays user messages to the configured chat completion API.
type Service struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New constructs a Service. Without an API key the service reports itself
// unavailable and Reply fails fast.
func New(cfg config.APIConfig, logger *slog.Logger) Service {
	s := Service{
		model:   strings.TrimSpace(cfg.OpenAIModel),
		timeout: cfg.ChatTimeout(),
		logger:  logger,
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	key := strings.TrimSpace(cfg.OpenAIAPIKey)
	if key == "" {
		return s
	}
	clientCfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(cfg.OpenAIBaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	return s
}

// Available reports whether an upstream client is configured.
func (s Service) Available() bool {
	return s.client != nil
}

// Reply sends message to the model and returns the first answer.
func (s Service) Reply(ctx context.Context, message string) (string, error) {
	if s.client == nil {
		return "", apperr.ServiceUnavailable("chat assistant is not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.Validation("message is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		s.logger.Error("chat completion failed", "model", s.model, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", apperr.Service("could not reach the chat assistant", err)
	}
	if len(resp.Choices) == 0 {
		s.logger.Error("chat completion returned no choices", "model", s.model)
		return "", apperr.Service("chat assistant returned no answer", nil)
	}
	s.logger.Debug("chat completion", "model", s.model, "tokens", resp.Usage.TotalTokens, "duration_ms", time.Since(start).Milliseconds())
	return resp.Choices[0].Message.Content, nil
}
