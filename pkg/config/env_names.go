package config

const EnvPrefix = "QUOTEDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv         = "QUOTEDESK_APP_ENV"
	EnvPort           = "QUOTEDESK_APP_PORT"
	EnvLogLevel       = "QUOTEDESK_LOG_LEVEL"
	EnvBackendBaseURL = "QUOTEDESK_BACKEND_BASE_URL"
	EnvRedisURL       = "QUOTEDESK_REDIS_URL"
	EnvSessionTTL     = "QUOTEDESK_SESSION_TTL"
)
