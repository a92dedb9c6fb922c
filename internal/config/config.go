package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main Blueprint configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// AI configuration
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Generation configuration
	Generation GenerationConfig `json:"generation" mapstructure:"generation"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds gateway server configuration
type ServerConfig struct {
	Host  string `json:"host" mapstructure:"host"`
	Port  int    `json:"port" mapstructure:"port"`
	Token string `json:"token" mapstructure:"token"`
}

// AIConfig holds AI provider configuration
type AIConfig struct {
	Profiles []AIProfile `json:"profiles" mapstructure:"profiles"`
}

// AIProfile represents an AI provider profile. The lowest priority
// value wins when several profiles are configured.
type AIProfile struct {
	ID       string `json:"id" mapstructure:"id"`
	Provider string `json:"provider" mapstructure:"provider"` // anthropic, openai, gemini
	APIKey   string `json:"api_key" mapstructure:"api_key"`
	Model    string `json:"model" mapstructure:"model"`
	Priority int    `json:"priority" mapstructure:"priority"`
}

// GenerationConfig holds generation run tunables
type GenerationConfig struct {
	Model                string  `json:"model" mapstructure:"model"`
	Temperature          float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens            int     `json:"max_tokens" mapstructure:"max_tokens"`
	SlotTimeoutSeconds   int     `json:"slot_timeout_seconds" mapstructure:"slot_timeout_seconds"`
	RetentionMinutes     int     `json:"retention_minutes" mapstructure:"retention_minutes"`
	SweepIntervalSeconds int     `json:"sweep_interval_seconds" mapstructure:"sweep_interval_seconds"`
	PollIntervalSeconds  int     `json:"poll_interval_seconds" mapstructure:"poll_interval_seconds"`
	PromptDir            string  `json:"prompt_dir" mapstructure:"prompt_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	MaxSize   int    `json:"max_size" mapstructure:"max_size"` // MB
	MaxAge    int    `json:"max_age" mapstructure:"max_age"`   // days
	Compress  bool   `json:"compress" mapstructure:"compress"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  "0.0.0.0",
			Port:  8080,
			Token: "",
		},
		AI: AIConfig{
			Profiles: []AIProfile{},
		},
		Generation: GenerationConfig{
			Model:                "claude-sonnet-4",
			Temperature:          0.7,
			MaxTokens:            8192,
			SlotTimeoutSeconds:   120,
			RetentionMinutes:     60,
			SweepIntervalSeconds: 60,
			PollIntervalSeconds:  2,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSize:   100,
			MaxAge:    7,
			Compress:  true,
			Redaction: true,
		},
		DataDir: "",
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Require at least one AI profile
	if len(c.AI.Profiles) == 0 {
		return fmt.Errorf("no AI credentials configured: at least one AI profile is required")
	}

	// Validate AI profiles
	for i, profile := range c.AI.Profiles {
		if profile.ID == "" {
			return fmt.Errorf("AI profile %d: ID is required", i)
		}
		if profile.Provider == "" {
			return fmt.Errorf("AI profile %s: provider is required", profile.ID)
		}
		if profile.APIKey == "" {
			return fmt.Errorf("AI profile %s: api_key is required", profile.ID)
		}
		validProviders := []string{"anthropic", "openai", "gemini"}
		valid := false
		for _, vp := range validProviders {
			if profile.Provider == vp {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("AI profile %s: invalid provider %s (must be: anthropic, openai, gemini)", profile.ID, profile.Provider)
		}
	}

	// Validate server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	// Validate generation
	if c.Generation.Model == "" {
		return fmt.Errorf("generation model is required")
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 1 {
		return fmt.Errorf("generation temperature must be between 0 and 1, got %f", c.Generation.Temperature)
	}
	if c.Generation.SlotTimeoutSeconds <= 0 {
		return fmt.Errorf("slot_timeout_seconds must be positive, got %d", c.Generation.SlotTimeoutSeconds)
	}
	if c.Generation.RetentionMinutes <= 0 {
		return fmt.Errorf("retention_minutes must be positive, got %d", c.Generation.RetentionMinutes)
	}

	return nil
}
