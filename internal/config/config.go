package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLM provider names accepted by LLMConfig.Provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderSandbox    = "sandbox"
)

// LLMConfig contains the flashcard generation settings.
//
// The API key of the selected provider is checked by Validate rather than
// by struct tags, since only one of them is needed.
type LLMConfig struct {
	Provider      string   `mapstructure:"provider" validate:"required,oneof=openrouter gemini sandbox"`
	APIKey        string   `mapstructure:"api_key"`
	BaseURL       string   `mapstructure:"base_url" validate:"required,url"`
	Model         string   `mapstructure:"model" validate:"required"`
	AllowedModels []string `mapstructure:"allowed_models"`

	// Per-attempt HTTP timeout of the provider client.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryBackoffMs int `mapstructure:"retry_backoff_ms" validate:"required,gt=0"`

	// Overall deadline of one generation, across every retry.
	GenerationTimeoutSeconds int `mapstructure:"generation_timeout_seconds" validate:"required,gt=0"`

	MaxInputCharacters int    `mapstructure:"max_input_characters" validate:"gte=0"`
	SiteURL            string `mapstructure:"site_url" validate:"omitempty,url"`
	AppName            string `mapstructure:"app_name"`
	Stream             bool   `mapstructure:"stream"`

	// MockMode replaces the configured provider with canned candidates.
	MockMode     bool   `mapstructure:"mock_mode"`
	MockDelayMs  int    `mapstructure:"mock_delay_ms" validate:"gte=0"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

// EffectiveProvider returns the provider that should serve generations,
// taking MockMode into account.
func (c LLMConfig) EffectiveProvider() string {
	if c.MockMode {
		return ProviderSandbox
	}
	return c.Provider
}
