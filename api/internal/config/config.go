package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8000"`

	NvidiaAPIKey string  `envconfig:"NVIDIA_API_KEY"`
	NvidiaModel  string  `envconfig:"NVIDIA_MODEL" default:"meta/llama3-70b-instruct"`
	GeminiAPIKey string  `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string  `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	Temperature  float32 `envconfig:"LLM_TEMPERATURE" default:"0.1"`

	WikiLang      string `envconfig:"WIKI_LANG" default:"en"`
	WikiUserAgent string `envconfig:"WIKI_USER_AGENT" default:"wiki-bot/1.0"`

	MaxTurns int `envconfig:"MAX_TURNS" default:"50"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	WebhookURL       string `envconfig:"WEBHOOK_URL"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const nvidiaKeyPrefix = "nvapi-"

// ValidateNvidiaKey enforces the key format before any paid call is made.
// A malformed key is fatal at startup; the bot never prompts for it.
func (c *Config) ValidateNvidiaKey() error {
	if strings.TrimSpace(c.NvidiaAPIKey) == "" {
		return errors.New("NVIDIA_API_KEY is not set")
	}
	if !strings.HasPrefix(c.NvidiaAPIKey, nvidiaKeyPrefix) {
		head := c.NvidiaAPIKey
		if len(head) > 5 {
			head = head[:5]
		}
		return fmt.Errorf("%s... is not a valid NVIDIA API key", head)
	}
	return nil
}
