package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Session   SessionConfig
	Editor    EditorConfig
	ROI       ROIConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUOTEDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"QUOTEDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QUOTEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUOTEDESK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"QUOTEDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type BackendConfig struct {
	BaseURL        string        `envconfig:"QUOTEDESK_BACKEND_BASE_URL" default:"http://localhost:8000"`
	RequestTimeout time.Duration `envconfig:"QUOTEDESK_BACKEND_REQUEST_TIMEOUT" default:"30s"`
	UploadTimeout  time.Duration `envconfig:"QUOTEDESK_BACKEND_UPLOAD_TIMEOUT" default:"2m"`
}

func (b BackendConfig) NormalizedBaseURL() string {
	return strings.TrimRight(b.BaseURL, "/")
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTEDESK_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"QUOTEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUOTEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUOTEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUOTEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"QUOTEDESK_SESSION_TTL" default:"720h"`
}

type EditorConfig struct {
	StateTTL        time.Duration `envconfig:"QUOTEDESK_EDITOR_STATE_TTL" default:"24h"`
	CostRatio       float64       `envconfig:"QUOTEDESK_EDITOR_COST_RATIO" default:"0.6"`
	DefaultPageSize int           `envconfig:"QUOTEDESK_EDITOR_DEFAULT_PAGE_SIZE" default:"10"`
}

type ROIConfig struct {
	LegacyWattageMultiplier float64 `envconfig:"QUOTEDESK_ROI_LEGACY_WATTAGE_MULTIPLIER" default:"2.5"`
	CO2FactorKgPerKWh       float64 `envconfig:"QUOTEDESK_ROI_CO2_FACTOR" default:"0.4"`
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"QUOTEDESK_MAX_UPLOAD_MB" default:"25"`
}

type RateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"QUOTEDESK_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"QUOTEDESK_RATE_LIMIT_LOGIN_IP_LIMIT" default:"10"`
}
