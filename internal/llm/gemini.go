package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/alnah/studynotes/internal/apierr"
)

// geminiMaxOutputTokens keeps long notes from being cut mid-object.
const geminiMaxOutputTokens = 20000

// contentGenerator is the subset of *genai.Models used here.
// It allows injecting mocks in tests.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Invoker          = (*GeminiInvoker)(nil)
	_ contentGenerator = (*genai.Models)(nil)
)

// GeminiInvoker sends prompts to Google's Gemini API.
type GeminiInvoker struct {
	models          contentGenerator
	model           string
	maxOutputTokens int32
}

// GeminiOption configures a GeminiInvoker.
type GeminiOption func(*GeminiInvoker)

// WithGeminiModel sets the model id.
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiInvoker) {
		if model != "" {
			g.model = model
		}
	}
}

// withContentGenerator sets a custom generator (for testing).
func withContentGenerator(cg contentGenerator) GeminiOption {
	return func(g *GeminiInvoker) {
		g.models = cg
	}
}

// NewGeminiInvoker creates a Gemini client for apiKey.
// Returns ErrCredentialsMissing for an empty key without contacting the API.
func NewGeminiInvoker(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrCredentialsMissing)
	}
	g := &GeminiInvoker{
		model:           GeminiFlash,
		maxOutputTokens: geminiMaxOutputTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.models == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		g.models = client.Models
	}
	return g, nil
}

// Model returns the configured model id.
func (g *GeminiInvoker) Model() string {
	return g.model
}

// Invoke sends prompt as a single user turn and returns the concatenated
// text parts of the first candidate. Exactly one request is made.
func (g *GeminiInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  g.maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, ErrEmptyResponse)
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("gemini %s: %w", g.model, ErrEmptyResponse)
	}
	return b.String(), nil
}

// classifyGeminiError maps Gemini errors to apierr sentinels.
// Typed genai.APIError values are classified by HTTP code and RPC status;
// other errors only by an "Error <code>" prefix or an RPC status name.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini request timed out: %w", apierr.ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("gemini request canceled: %w", err)
	}

	msg := err.Error()
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if sentinel := geminiSentinel(apiErr.Code, apiErr.Status, apiErr.Message); sentinel != nil {
			return fmt.Errorf("gemini: %s: %w", msg, sentinel)
		}
		return fmt.Errorf("gemini: %w", err)
	}

	code := 0
	if m := geminiCodePrefix.FindStringSubmatch(msg); m != nil {
		code, _ = strconv.Atoi(m[1])
	}
	status := geminiStatusName.FindString(msg)
	if sentinel := geminiSentinel(code, status, msg); sentinel != nil {
		return fmt.Errorf("gemini: %s: %w", msg, sentinel)
	}
	return fmt.Errorf("gemini: %w", err)
}

var (
	geminiCodePrefix = regexp.MustCompile(`^Error (\d{3})\b`)
	geminiStatusName = regexp.MustCompile(`\b(RESOURCE_EXHAUSTED|UNAUTHENTICATED|PERMISSION_DENIED|DEADLINE_EXCEEDED|INVALID_ARGUMENT|NOT_FOUND|FAILED_PRECONDITION)\b`)
)

// geminiSentinel picks the sentinel for an HTTP code, an RPC status name
// and the server message. It returns nil when none applies.
func geminiSentinel(code int, status, message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "quota") || strings.Contains(lower, "billing"):
		return apierr.ErrQuotaExceeded
	case code == 429 || status == "RESOURCE_EXHAUSTED":
		return apierr.ErrRateLimit
	case code == 401 || code == 403 || status == "UNAUTHENTICATED" ||
		status == "PERMISSION_DENIED" || strings.Contains(message, "API key not valid"):
		return apierr.ErrAuthFailed
	case code == 504 || status == "DEADLINE_EXCEEDED":
		return apierr.ErrTimeout
	case code == 400 || code == 404 || status == "INVALID_ARGUMENT" ||
		status == "NOT_FOUND" || status == "FAILED_PRECONDITION":
		return apierr.ErrBadRequest
	}
	return nil
}
