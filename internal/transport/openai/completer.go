// Package openai adapts the OpenAI-compatible chat completion API to the
// answering pipeline's Completer contract.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/jbritton/cvchat/internal/domain"
	"github.com/jbritton/cvchat/internal/metrics"
)

// Completer issues chat completions against the OpenAI-compatible API.
type Completer struct {
	client          *openai.Client
	model           string
	maxOutputTokens int
	temperature     float32
	logger          *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Temperature     float32
	Logger          *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Completer{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		logger:          log,
	}
}

// Model returns the resolved model identifier in use.
func (c *Completer) Model() string { return c.model }

// Complete implements answer.Completer. Returns the extracted answer text
// with transport-level metrics.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxOutputTokens,
		Temperature: c.temperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError(err)
	}

	text := extractText(resp)
	if text == "" {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrEmptyCompletion)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	c.logger.Debug("completion finished",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return text, nil
}

// extractText pulls the answer text out of the first choice. Providers may
// return plain Content or structured MultiContent parts; the first
// non-empty text wins.
func extractText(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	msg := resp.Choices[0].Message
	if msg.Content != "" {
		return msg.Content
	}
	for _, part := range msg.MultiContent {
		if part.Type == openai.ChatMessagePartTypeText && part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// parseAPIError classifies API failures. Quota exhaustion (HTTP 429 or an
// insufficient_quota code) maps to domain.ErrCompletionQuota so the caller
// can serve a degraded answer; everything else maps to
// domain.ErrCompletionProvider.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isQuotaError(apiErr) {
			return fmt.Errorf("completion API error %d: %s: %w",
				apiErr.HTTPStatusCode, apiErr.Message, domain.ErrCompletionQuota)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrCompletionProvider)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("completion API error %d: %w",
				reqErr.HTTPStatusCode, domain.ErrCompletionQuota)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrCompletionProvider)
	}

	return fmt.Errorf("completion request failed: %w", domain.ErrCompletionProvider)
}

func isQuotaError(apiErr *openai.APIError) bool {
	if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		return true
	}
	return strings.Contains(apiErr.Message, "quota")
}
