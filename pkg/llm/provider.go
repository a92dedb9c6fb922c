package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider is the outbound text-generation collaborator. One logical
// call per document slot; the caller bounds the call with a context
// deadline and treats expiry as a per-slot failure.
type Provider interface {
	// Generate produces text for a single prompt
	Generate(ctx context.Context, request Request) (*Response, error)

	// Name returns the provider name
	Name() string
}

// Request contains the parameters for one generation call
type Request struct {
	Model       string
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int
}

// Response contains the generated text
type Response struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Profile represents authentication credentials for a provider
type Profile struct {
	ID       string `json:"id"`
	Provider string `json:"provider"` // "anthropic", "openai", "gemini"
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	Priority int    `json:"priority"`
}

// NewProvider creates a provider from an auth profile
func NewProvider(profile Profile) (Provider, error) {
	switch profile.Provider {
	case "anthropic":
		return NewAnthropicProvider(profile.APIKey), nil
	case "openai":
		return NewOpenAIProvider(profile.APIKey), nil
	case "gemini":
		return NewGeminiProvider(profile.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", profile.Provider)
	}
}

// IsRetryableError checks if an error is worth one more attempt
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// Network errors
	if strings.Contains(msg, "ECONNRESET") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}

	// Rate limits
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return true
	}

	// Server errors
	for _, code := range []string{"500", "502", "503", "504"} {
		if strings.Contains(msg, code) {
			return true
		}
	}

	return false
}
