// Package config loads the process-wide settings once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/AVVKavvk/sahay-call-agent/models"
	"github.com/AVVKavvk/sahay-call-agent/rabbitmq"
)

type Config struct {
	Port          int    `koanf:"port"`
	PublicBaseURL string `koanf:"public_base_url"`
	StaticDir     string `koanf:"static_dir"`

	TwilioAccountSID string `koanf:"twilio_account_sid"`
	TwilioAuthToken  string `koanf:"twilio_auth_token"`
	TwilioNumber     string `koanf:"twilio_number"`

	GroqAPIKey        string        `koanf:"groq_api_key"`
	CompletionBaseURL string        `koanf:"completion_base_url"`
	CompletionModel   string        `koanf:"completion_model"`
	CompletionTimeout time.Duration `koanf:"completion_timeout"`

	InternalAPIKey   string `koanf:"internal_api_key"`
	HumanAgentNumber string `koanf:"human_agent_number"`
	CallMode         string `koanf:"call_mode"`
	DefaultLanguage  string `koanf:"default_language"`

	SheetWebhookURL string        `koanf:"sheet_webhook_url"`
	LogQueueSize    int           `koanf:"log_queue_size"`
	AMQPURL         string        `koanf:"amqp_url"`
	LogExchange     string        `koanf:"log_exchange"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPassword   string        `koanf:"redis_password"`
	RedisDB         int           `koanf:"redis_db"`
	StateTTL        time.Duration `koanf:"state_ttl"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

var defaults = map[string]any{
	"port":                3000,
	"static_dir":          "public",
	"completion_base_url": "https://api.groq.com/openai/v1",
	"completion_model":    "llama-3.1-8b-instant",
	"completion_timeout":  "15s",
	"call_mode":           "script",
	"default_language":    "en",
	"log_queue_size":      256,
	"log_exchange":        rabbitmq.DefaultExchange,
	"state_ttl":           "30m",
	"log_level":           "info",
	"log_format":          "text",
}

// Load reads an optional .env file and then the process environment.
func Load(dotenvFiles ...string) (Config, error) {
	// .env is a convenience for local runs; its absence is fine
	_ = godotenv.Load(dotenvFiles...)
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return Config{}, err
		}
	}

	known := make(map[string]bool)
	for _, key := range Keys() {
		known[key] = true
	}
	if err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key := strings.ToLower(name)
		if !known[key] || value == "" {
			return "", nil
		}
		return key, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Keys lists the lower-cased environment variable names Config reads.
func Keys() []string {
	return []string{
		"port", "public_base_url", "static_dir",
		"twilio_account_sid", "twilio_auth_token", "twilio_number",
		"groq_api_key", "completion_base_url", "completion_model", "completion_timeout",
		"internal_api_key", "human_agent_number", "call_mode", "default_language",
		"sheet_webhook_url", "log_queue_size", "amqp_url", "log_exchange",
		"redis_addr", "redis_password", "redis_db", "state_ttl",
		"log_level", "log_format",
	}
}

func (c Config) Validate() error {
	switch c.CallMode {
	case "script", "assistant":
	default:
		return fmt.Errorf("CALL_MODE must be script or assistant, got %q", c.CallMode)
	}
	if _, err := models.ParseLanguage(c.DefaultLanguage); err != nil {
		return fmt.Errorf("DEFAULT_LANGUAGE: %w", err)
	}
	if c.StateTTL <= 0 {
		return fmt.Errorf("STATE_TTL must be positive, got %s", c.StateTTL)
	}
	if c.Port <= 0 {
		return fmt.Errorf("PORT must be positive, got %d", c.Port)
	}
	return nil
}

func (c Config) Language() models.Language {
	return models.Language(c.DefaultLanguage)
}

// Missing names the provider settings that are not set. The service still
// starts without them; the affected endpoints degrade.
func (c Config) Missing() []string {
	var missing []string
	required := []struct {
		name string
		val  string
	}{
		{"TWILIO_ACCOUNT_SID", c.TwilioAccountSID},
		{"TWILIO_AUTH_TOKEN", c.TwilioAuthToken},
		{"TWILIO_NUMBER", c.TwilioNumber},
		{"PUBLIC_BASE_URL", c.PublicBaseURL},
		{"GROQ_API_KEY", c.GroqAPIKey},
		{"INTERNAL_API_KEY", c.InternalAPIKey},
	}
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

func (c Config) String() string {
	return fmt.Sprintf("port=%d mode=%s language=%s public_base_url=%q redis=%t amqp=%t sheet_log=%t human_line=%t twilio_sid=%s groq_key=%s internal_key=%s",
		c.Port, c.CallMode, c.DefaultLanguage, c.PublicBaseURL,
		c.RedisAddr != "", c.AMQPURL != "", c.SheetWebhookURL != "", c.HumanAgentNumber != "",
		redact(c.TwilioAccountSID), redact(c.GroqAPIKey), redact(c.InternalAPIKey))
}

func redact(secret string) string {
	if secret == "" {
		return "unset"
	}
	return "set"
}
