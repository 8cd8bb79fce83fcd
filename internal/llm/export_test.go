package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Test-only exports.
var (
	WithContentGenerator = withContentGenerator
	ClassifyGeminiError  = classifyGeminiError
	ClassifyChatError    = classifyChatError
)

// ContentGeneratorFunc adapts a function to the contentGenerator interface.
type ContentGeneratorFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f ContentGeneratorFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, cfg)
}

// ChatCompleterFunc adapts a function to the chatCompleter interface.
type ChatCompleterFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f ChatCompleterFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

// NewChatInvokerForTest builds a ChatInvoker around a mock completer.
func NewChatInvokerForTest(c ChatCompleterFunc, provider Provider, model string) *ChatInvoker {
	return newChatInvoker(c, provider.String(), model)
}
