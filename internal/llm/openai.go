package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/studynotes/internal/apierr"
)

// DeepSeek exposes an OpenAI-compatible chat completion endpoint.
const deepSeekBaseURL = "https://api.deepseek.com/v1"

// Output token limits.
const (
	openAIMaxCompletionTokens = 20000
	deepSeekMaxTokens         = 8192
)

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Invoker       = (*ChatInvoker)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// ChatInvoker sends prompts through an OpenAI-compatible chat completion API.
// It serves both OpenAI and DeepSeek.
type ChatInvoker struct {
	client   chatCompleter
	name     string
	model    string
	limitReq func(*openai.ChatCompletionRequest)
}

// NewOpenAIInvoker creates an invoker for OpenAI.
func NewOpenAIInvoker(client *openai.Client, model string) *ChatInvoker {
	return newChatInvoker(client, ProviderOpenAI, model)
}

// NewDeepSeekInvoker creates an invoker for DeepSeek.
func NewDeepSeekInvoker(client *openai.Client, model string) *ChatInvoker {
	return newChatInvoker(client, ProviderDeepSeek, model)
}

func newChatInvoker(client chatCompleter, provider, model string) *ChatInvoker {
	if model == "" {
		model = providers[provider].model
	}
	c := &ChatInvoker{client: client, name: provider, model: model}
	// Reasoning models accept max_completion_tokens only; DeepSeek reads max_tokens.
	if provider == ProviderDeepSeek {
		c.limitReq = func(r *openai.ChatCompletionRequest) { r.MaxTokens = deepSeekMaxTokens }
	} else {
		c.limitReq = func(r *openai.ChatCompletionRequest) { r.MaxCompletionTokens = openAIMaxCompletionTokens }
	}
	return c
}

// Model returns the configured model id.
func (c *ChatInvoker) Model() string {
	return c.model
}

// Invoke sends prompt as a single user message in JSON mode.
// Exactly one request is made.
func (c *ChatInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	c.limitReq(&req)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyChatError(c.name, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s %s: %w", c.name, c.model, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyChatError maps go-openai errors to apierr sentinels.
// Uses errors.As for robust error type checking instead of string matching.
func classifyChatError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := provider + ": " + apiErr.Message
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			if strings.Contains(apiErr.Message, "quota") || strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w", msg, apierr.ErrBadRequest)
		}
		return fmt.Errorf("%s (status %d): %w", msg, apiErr.HTTPStatusCode, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request timed out: %w", provider, apierr.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", provider, err)
}
