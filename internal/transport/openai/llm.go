package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	"github.com/ragdesk-cloud/ragdesk/internal/metrics"
)

// LLM is a generative-language provider using an OpenAI-compatible chat API.
type LLM struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// LLMConfig holds the chat provider settings.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewLLM creates an OpenAI-compatible chat completion provider.
func NewLLM(cfg *LLMConfig) *LLM {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &LLM{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Generate produces a completion for a system instruction and user text.
func (l *LLM) Generate(ctx context.Context, system, user string, temperature float32) (string, error) {
	return l.complete(ctx, "generate", []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, temperature)
}

// Classify runs a single-prompt completion at temperature zero, used for
// structured-output classification.
func (l *LLM) Classify(ctx context.Context, prompt string) (string, error) {
	return l.complete(ctx, "classify", []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, 0)
}

func (l *LLM) complete(
	ctx context.Context, op string,
	messages []openai.ChatCompletionMessage, temperature float32,
) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       l.model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", parseLLMError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(op, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}

// parseLLMError wraps API failures with domain.ErrLLMProviderError.
func parseLLMError(err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("llm API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llm API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("llm request failed: %w", wrap)
}
