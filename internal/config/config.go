package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32    `env:"DB_MAX_CONNS" envDefault:"10"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Sin LLM_API_KEY el enriquecimiento, la generacion de preguntas y la
	// busqueda semantica quedan deshabilitados.
	LLMAPIKey         string `env:"LLM_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMEmbeddingModel string `env:"LLM_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	CatalogDir         string `env:"CATALOG_DIR"`
	TopRecommendations int    `env:"TOP_RECOMMENDATIONS" envDefault:"5"`
	SessionTTLMinutes  int    `env:"SESSION_TTL_MINUTES" envDefault:"1440"`
	QuestionGenPerHour int    `env:"QUESTION_GEN_PER_HOUR" envDefault:"10"`
	RandomSeed         int64  `env:"RANDOM_SEED" envDefault:"0"`
	ReindexOnStart     bool   `env:"REINDEX_ON_START" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) AccessTTL() time.Duration  { return minutes(c.JWTAccessTTLMinutes) }
func (c *Config) RefreshTTL() time.Duration { return minutes(c.JWTRefreshTTLMinutes) }
func (c *Config) SessionTTL() time.Duration { return minutes(c.SessionTTLMinutes) }

// LLMEnabled indica si hay credenciales para el proveedor LLM.
func (c *Config) LLMEnabled() bool { return c.LLMAPIKey != "" }

func minutes(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
}
