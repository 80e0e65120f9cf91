package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	LLMProvider       string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey         string `env:"LLM_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"gpt-5.1"`
	LLMEmbeddingModel string `env:"LLM_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	GeminiModel       string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	SyntheticDefaultPersonas      int `env:"SYNTHETIC_DEFAULT_PERSONAS" envDefault:"100"`
	SyntheticMaxPersonas          int `env:"SYNTHETIC_MAX_PERSONAS" envDefault:"150"`
	SyntheticMaxConcurrency       int `env:"SYNTHETIC_MAX_CONCURRENCY" envDefault:"0"`
	SyntheticRunsPerHour          int `env:"SYNTHETIC_RUNS_PER_HOUR" envDefault:"5"`
	SyntheticRequestTimeoutSecond int `env:"SYNTHETIC_REQUEST_TIMEOUT_SECONDS" envDefault:"300"`

	// PaywallBypass mantiene abiertas las features pagas hasta integrar cobros.
	PaywallBypass bool `env:"PAYWALL_BYPASS" envDefault:"true"`
}

// SyntheticRequestTimeout es el techo total de una corrida sintetica.
func (c *Config) SyntheticRequestTimeout() time.Duration {
	if c.SyntheticRequestTimeoutSecond <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SyntheticRequestTimeoutSecond) * time.Second
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
