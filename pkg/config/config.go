package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Mail         MailConfig
	PayPal       PayPalConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STUDIO_APP_ENV" required:"true"`
	Port         string `envconfig:"STUDIO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STUDIO_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STUDIO_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STUDIO_LOG_WARN_STACK" default:"false"`

	// CORSOrigins is a comma-separated list of extra allowed origins,
	// e.g. the deployed site and its preview URLs.
	CORSOrigins []string `envconfig:"STUDIO_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STUDIO_DB_DSN" required:"true"`
	Driver string `envconfig:"STUDIO_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STUDIO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STUDIO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STUDIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STUDIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STUDIO_REDIS_URL" required:"true"`
	KeyPrefix    string        `envconfig:"STUDIO_REDIS_KEY_PREFIX" default:"studio"`
	PoolSize     int           `envconfig:"STUDIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STUDIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STUDIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STUDIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STUDIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"STUDIO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"STUDIO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"STUDIO_GCS_BUCKET" required:"true"`
}

// MailConfig drives the inquiry-notification mailer (Resend-style HTTP API).
type MailConfig struct {
	APIKey  string `envconfig:"STUDIO_MAIL_API_KEY"`
	BaseURL string `envconfig:"STUDIO_MAIL_BASE_URL" default:"https://api.resend.com"`
	From    string `envconfig:"STUDIO_MAIL_FROM"`
	To      string `envconfig:"STUDIO_MAIL_TO"`
}

type PayPalConfig struct {
	BaseURL  string `envconfig:"STUDIO_PAYPAL_BASE_URL" default:"https://api-m.sandbox.paypal.com"`
	ClientID string `envconfig:"STUDIO_PAYPAL_CLIENT_ID"`
	Secret   string `envconfig:"STUDIO_PAYPAL_SECRET"`
	Currency string `envconfig:"STUDIO_PAYPAL_CURRENCY" default:"USD"`
}

type AdminConfig struct {
	PasswordHash      string `envconfig:"STUDIO_ADMIN_PASSWORD_HASH" required:"true"`
	JWTSecret         string `envconfig:"STUDIO_ADMIN_JWT_SECRET" required:"true"`
	JWTIssuer         string `envconfig:"STUDIO_ADMIN_JWT_ISSUER" default:"studio-backend"`
	SessionTTLMinutes int    `envconfig:"STUDIO_ADMIN_SESSION_TTL_MINUTES" default:"720"`

	ArgonMemoryKB    int `envconfig:"STUDIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STUDIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STUDIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STUDIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STUDIO_ARGON_KEY_LEN" default:"32"`
}

// SessionTTL returns the admin session lifetime.
func (a AdminConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STUDIO_FEATURE_AUTO_MIGRATE" default:"true"`
}
