package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	GuildID     string `env:"GUILD_ID"`
	AdminRoleID string `env:"ADMIN_ROLE_ID"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"bolt"`
	DataDir      string `env:"DATA_DIR" envDefault:"."`
	RedisURL     string `env:"REDIS_URL"`
	DatabaseURL  string `env:"DATABASE_URL"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	PromptTimeout time.Duration `env:"PROMPT_TIMEOUT" envDefault:"180s"`

	AIProvider      string `env:"AI_PROVIDER" envDefault:"none"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	AIRatePerMinute int    `env:"AI_RATE_PER_MINUTE" envDefault:"5"`
	EmojiFile       string `env:"EMOJI_FILE"`

	Port string `env:"PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	// .env is optional; production sets real env vars
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "memory", "bolt":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_URL")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AIProvider {
	case "none":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("AI_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("AI_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	if c.AIRatePerMinute <= 0 {
		return fmt.Errorf("AI_RATE_PER_MINUTE must be positive, got %d", c.AIRatePerMinute)
	}
	if c.SessionTTL <= 0 || c.PromptTimeout <= 0 {
		return fmt.Errorf("SESSION_TTL and PROMPT_TIMEOUT must be positive")
	}
	return nil
}
