package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		wantName  string
		shouldErr bool
	}{
		{"anthropic", "anthropic", "anthropic", false},
		{"openai", "openai", "openai", false},
		{"gemini", "gemini", "gemini", false},
		{"unknown", "cohere", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(Profile{ID: "test", Provider: tt.provider, APIKey: "key"})
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("429 rate limit exceeded"), true},
		{"server error", errors.New("upstream returned 503"), true},
		{"conn reset", errors.New("read: ECONNRESET"), true},
		{"bad request", errors.New("400 invalid request"), false},
		{"auth", errors.New("401 unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err))
		})
	}
}
