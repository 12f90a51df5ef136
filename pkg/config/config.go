package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the service.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	GCS      GCSConfig
	Registry RegistryConfig
	Webhook  WebhookConfig
	Delivery DeliveryConfig
	Policy   PolicyConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BROKERLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"BROKERLANE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BROKERLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BROKERLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BROKERLANE_DB_DSN"`

	Host     string `envconfig:"BROKERLANE_DB_HOST"`
	Port     int    `envconfig:"BROKERLANE_DB_PORT" default:"5432"`
	User     string `envconfig:"BROKERLANE_DB_USER"`
	Password string `envconfig:"BROKERLANE_DB_PASSWORD"`
	Name     string `envconfig:"BROKERLANE_DB_NAME"`
	SSLMode  string `envconfig:"BROKERLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BROKERLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BROKERLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BROKERLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BROKERLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	if db.Host == "" {
		missing = append(missing, "BROKERLANE_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "BROKERLANE_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "BROKERLANE_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("either BROKERLANE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BROKERLANE_REDIS_URL"`
	Address      string        `envconfig:"BROKERLANE_REDIS_ADDR"`
	Password     string        `envconfig:"BROKERLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BROKERLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BROKERLANE_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"BROKERLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BROKERLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BROKERLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"BROKERLANE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"BROKERLANE_JWT_ISSUER" required:"true"`
}

type GCSConfig struct {
	BucketName string `envconfig:"BROKERLANE_GCS_BUCKET_NAME" required:"true"`
}

// RegistryConfig points at the external company-registry lookup service.
type RegistryConfig struct {
	BaseURL  string        `envconfig:"BROKERLANE_REGISTRY_BASE_URL"`
	APIKey   string        `envconfig:"BROKERLANE_REGISTRY_API_KEY"`
	Timeout  time.Duration `envconfig:"BROKERLANE_REGISTRY_TIMEOUT" default:"5s"`
	CacheTTL time.Duration `envconfig:"BROKERLANE_REGISTRY_CACHE_TTL" default:"15m"`
}

// WebhookConfig points at the workflow-automation service that receives
// fire-and-forget lifecycle notifications.
type WebhookConfig struct {
	AutomationURL string        `envconfig:"BROKERLANE_AUTOMATION_WEBHOOK_URL"`
	Timeout       time.Duration `envconfig:"BROKERLANE_AUTOMATION_WEBHOOK_TIMEOUT" default:"10s"`
}

// DeliveryConfig configures outbound lender delivery.
type DeliveryConfig struct {
	MailRelayURL string        `envconfig:"BROKERLANE_MAIL_RELAY_URL"`
	FromAddress  string        `envconfig:"BROKERLANE_MAIL_FROM" default:"deals@brokerlane.co.uk"`
	Timeout      time.Duration `envconfig:"BROKERLANE_DELIVERY_TIMEOUT" default:"15s"`
}

// PolicyConfig holds workflow policy toggles.
type PolicyConfig struct {
	// AllowTerminalSubmissions permits the batch send action on applications
	// already in a terminal stage. Off by default.
	AllowTerminalSubmissions bool `envconfig:"BROKERLANE_ALLOW_TERMINAL_SUBMISSIONS" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BROKERLANE_AUTO_MIGRATE" default:"false"`
}
