package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{
			"server": {"host": "127.0.0.1", "port": 8080},
			"ai": {"profiles": [{"id": "main", "provider": "anthropic", "api_key": "sk-ant-x"}]}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		assert.NoError(t, ValidateFile(path))
	})

	t.Run("wrong type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"server": {"port": "not-a-number"}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		err := ValidateFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port")
	})

	t.Run("unknown provider", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"ai": {"profiles": [{"id": "main", "provider": "mystery", "api_key": "x"}]}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		assert.Error(t, ValidateFile(path))
	})

	t.Run("profile missing required fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"ai": {"profiles": [{"id": "main"}]}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		assert.Error(t, ValidateFile(path))
	})
}

func TestValidateAPIKey(t *testing.T) {
	v := NewValidator()

	t.Run("valid anthropic key", func(t *testing.T) {
		err := v.ValidateAPIKey("sk-ant-test123", "anthropic")
		assert.NoError(t, err)
	})

	t.Run("invalid anthropic key", func(t *testing.T) {
		err := v.ValidateAPIKey("invalid-key", "anthropic")
		assert.Error(t, err)
	})

	t.Run("valid openai key", func(t *testing.T) {
		err := v.ValidateAPIKey("sk-test123", "openai")
		assert.NoError(t, err)
	})

	t.Run("invalid openai key", func(t *testing.T) {
		err := v.ValidateAPIKey("invalid-key", "openai")
		assert.Error(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		err := v.ValidateAPIKey("", "anthropic")
		assert.Error(t, err)
	})
}

func TestValidateModel(t *testing.T) {
	v := NewValidator()

	t.Run("known model", func(t *testing.T) {
		err := v.ValidateModel("claude-sonnet-4")
		assert.NoError(t, err)
	})

	t.Run("custom model", func(t *testing.T) {
		err := v.ValidateModel("custom-model")
		assert.NoError(t, err)
	})

	t.Run("empty model", func(t *testing.T) {
		err := v.ValidateModel("")
		assert.Error(t, err)
	})
}

func TestValidateTemperature(t *testing.T) {
	v := NewValidator()

	t.Run("valid temperature", func(t *testing.T) {
		err := v.ValidateTemperature(0.7)
		assert.NoError(t, err)
	})

	t.Run("too low", func(t *testing.T) {
		err := v.ValidateTemperature(-0.1)
		assert.Error(t, err)
	})

	t.Run("too high", func(t *testing.T) {
		err := v.ValidateTemperature(1.1)
		assert.Error(t, err)
	})
}

func TestValidateMaxTokens(t *testing.T) {
	v := NewValidator()

	t.Run("valid tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(4096)
		assert.NoError(t, err)
	})

	t.Run("zero tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(0)
		assert.Error(t, err)
	})

	t.Run("negative tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(-100)
		assert.Error(t, err)
	})

	t.Run("too many tokens", func(t *testing.T) {
		err := v.ValidateMaxTokens(300000)
		assert.Error(t, err)
	})
}

func TestValidateLogLevel(t *testing.T) {
	v := NewValidator()

	t.Run("valid levels", func(t *testing.T) {
		levels := []string{"debug", "info", "warn", "error"}
		for _, level := range levels {
			err := v.ValidateLogLevel(level)
			assert.NoError(t, err, "level %s should be valid", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := v.ValidateLogLevel("invalid")
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	v := NewValidator()

	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AI.Profiles = []AIProfile{testProfile()}

		errors := v.ValidateConfig(cfg)
		assert.Empty(t, errors)
	})

	t.Run("multiple errors", func(t *testing.T) {
		cfg := DefaultConfig()
		p := testProfile()
		p.APIKey = "invalid-key"
		cfg.AI.Profiles = []AIProfile{p}
		cfg.Generation.Temperature = 2.0
		cfg.Logging.Level = "invalid"

		errors := v.ValidateConfig(cfg)
		assert.NotEmpty(t, errors)
		assert.GreaterOrEqual(t, len(errors), 3)
	})
}
