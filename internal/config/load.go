package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load,
// e.g. FLASHCARDS_SERVER_PORT or FLASHCARDS_LLM_API_KEY.
const EnvPrefix = "FLASHCARDS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal, even when the default itself is empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.provider", ProviderOpenRouter)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.allowed_models", []string{})
	v.SetDefault("llm.timeout_seconds", 30)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_backoff_ms", 1000)
	v.SetDefault("llm.generation_timeout_seconds", 30)
	v.SetDefault("llm.max_input_characters", 0)
	v.SetDefault("llm.site_url", "")
	v.SetDefault("llm.app_name", "10xDevs Flashcards")
	v.SetDefault("llm.stream", false)
	v.SetDefault("llm.mock_mode", false)
	v.SetDefault("llm.mock_delay_ms", 1000)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
}

// Validate checks struct constraints and the provider-specific settings.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.LLM.EffectiveProvider() {
	case ProviderOpenRouter:
		if c.LLM.APIKey == "" {
			return errors.New("config validation failed: llm.api_key is required for the openrouter provider")
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return errors.New("config validation failed: llm.gemini_api_key is required for the gemini provider")
		}
		if c.LLM.GeminiModel == "" {
			return errors.New("config validation failed: llm.gemini_model is required for the gemini provider")
		}
	}

	return nil
}
