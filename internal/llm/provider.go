package llm

import "fmt"

// Provider names.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Default models per provider.
const (
	GeminiFlash     = "gemini-2.5-flash"
	GeminiPro       = "gemini-2.5-pro"
	defaultOpenAI   = "o4-mini"
	defaultDeepSeek = "deepseek-chat"
)

// Provider represents a validated model provider.
// Zero value means "not set"; use OrDefault before constructing an Invoker.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// Pre-parsed providers.
var (
	GeminiProvider   = Provider{name: ProviderGemini}
	OpenAIProvider   = Provider{name: ProviderOpenAI}
	DeepSeekProvider = Provider{name: ProviderDeepSeek}
)

type providerInfo struct {
	model  string
	envKey string
}

var providers = map[string]providerInfo{
	ProviderGemini:   {model: GeminiFlash, envKey: "GEMINI_API_KEY"},
	ProviderOpenAI:   {model: defaultOpenAI, envKey: "OPENAI_API_KEY"},
	ProviderDeepSeek: {model: defaultDeepSeek, envKey: "DEEPSEEK_API_KEY"},
}

// ParseProvider validates a provider name. Empty string returns the zero Provider.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, nil
	}
	if _, ok := providers[s]; !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'gemini', 'openai' or 'deepseek'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name. Empty for the zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero reports whether no provider was set.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// OrDefault returns p, or GeminiProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return GeminiProvider
	}
	return p
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	return providers[p.OrDefault().name].model
}

// EnvKey returns the environment variable holding the provider's API key.
func (p Provider) EnvKey() string {
	return providers[p.OrDefault().name].envKey
}
