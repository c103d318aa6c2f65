package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all order-service configuration. Empty connection settings
// switch the matching collaborator to its in-process fallback.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoConfig
	Redis     RedisConfig
	Twilio    TwilioConfig
	Minio     MinioConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Port           string   `env:"SERVER_PORT" envDefault:"8001"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type MongoConfig struct {
	URI    string `env:"MONGO_URI"`
	DBName string `env:"MONGO_DBNAME" envDefault:"cleaning_service"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `env:"TWILIO_FROM_NUMBER"`
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"order-evidence"`
	PublicURL string `env:"MINIO_PUBLIC_URL" envDefault:"http://localhost:9000"`
	Secure    bool   `env:"MINIO_SECURE" envDefault:"false"`
}

type LifecycleConfig struct {
	TimeZone            string        `env:"TIMEZONE" envDefault:"Asia/Tehran"`
	AllowCancelOverride bool          `env:"ALLOW_CANCEL_OVERRIDE" envDefault:"true"`
	PaymentGatewayURL   string        `env:"PAYMENT_GATEWAY_URL" envDefault:"https://payment.gateway.com"`
	MessageTimeout      time.Duration `env:"MESSAGE_TIMEOUT" envDefault:"5s"`
	ReminderInterval    time.Duration `env:"PENDING_REMINDER_INTERVAL" envDefault:"5m"`
	ReminderAfter       time.Duration `env:"PENDING_REMINDER_AFTER" envDefault:"15m"`
}

// Location resolves TimeZone; "today" is computed in this zone.
func (l LifecycleConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", l.TimeZone, err)
	}
	return loc, nil
}

// NewConfig creates a new Config
func NewConfig() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Lifecycle.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l LifecycleConfig) validate() error {
	if l.MessageTimeout <= 0 {
		return fmt.Errorf("MESSAGE_TIMEOUT must be positive, got %s", l.MessageTimeout)
	}
	if l.ReminderInterval <= 0 {
		return fmt.Errorf("PENDING_REMINDER_INTERVAL must be positive, got %s", l.ReminderInterval)
	}
	if l.ReminderAfter < 0 {
		return fmt.Errorf("PENDING_REMINDER_AFTER must not be negative, got %s", l.ReminderAfter)
	}
	if _, err := l.Location(); err != nil {
		return err
	}
	return nil
}
