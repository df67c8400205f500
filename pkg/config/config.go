package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`

	Catalog struct {
		BaseURL string        `envconfig:"CATALOG_BASE_URL"`
		APIKey  string        `envconfig:"CATALOG_API_KEY"`
		Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"5s"`
	}
	DB struct {
		Driver    string `envconfig:"DB_DRIVER" default:"postgres"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	DynamoDB struct {
		Region         string `envconfig:"DDB_REGION"`
		Endpoint       string `envconfig:"DDB_ENDPOINT"`
		AccessKey      string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey      string `envconfig:"DDB_SECRET_KEY"`
		SessionToken   string `envconfig:"DDB_SESSION_TOKEN"`
		BookmarksTable string `envconfig:"DDB_BOOKMARKS_TABLE" default:"bookmarked_movies"`
		MaxAttempts    int    `envconfig:"DDB_MAX_ATTEMPTS" default:"3"`
	}
	Redis struct {
		URL     string `envconfig:"REDIS_URL"`
		Channel string `envconfig:"REDIS_CHANNEL" default:"bookmarks"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverDynamoDB, DriverMemory:
	default:
		return nil, fmt.Errorf("load config error: unknown DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}
