package config

import (
	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server   ServerConfig
	MongoDB  MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Firebase FirebaseConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8002"`
}

type MongoConfig struct {
	URI    string `env:"MONGO_URI"`
	DBName string `env:"MONGO_DBNAME" envDefault:"cleaning_service"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" envDefault:"587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM"`
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" }

type FirebaseConfig struct {
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

// NewConfig creates a new Config
func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
