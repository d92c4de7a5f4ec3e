package config

const (
	EnvPrefix = "STUDIO"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv            = "STUDIO_APP_ENV"
	EnvPort              = "STUDIO_APP_PORT"
	EnvDBDSN             = "STUDIO_DB_DSN"
	EnvDBDriver          = "STUDIO_DB_DRIVER"
	EnvRedisURL          = "STUDIO_REDIS_URL"
	EnvGCSBucket         = "STUDIO_GCS_BUCKET"
	EnvAdminPasswordHash = "STUDIO_ADMIN_PASSWORD_HASH"
	EnvAdminJWTSecret    = "STUDIO_ADMIN_JWT_SECRET"
)
