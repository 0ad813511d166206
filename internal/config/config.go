package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds every runtime setting of the recipe API.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DatabaseDSN     string        `mapstructure:"DATABASE_DSN"`
	DBLogLevel      string        `mapstructure:"DB_LOG_LEVEL"`
	AdminSecret     string        `mapstructure:"ADMIN_SECRET"`
	AdminSessionTTL time.Duration `mapstructure:"ADMIN_SESSION_TTL"`
	StorageBackend  string        `mapstructure:"STORAGE_BACKEND"`
	MediaRoot       string        `mapstructure:"MEDIA_ROOT"`
	MediaURL        string        `mapstructure:"MEDIA_URL"`
	MaxUploadBytes  int           `mapstructure:"MAX_UPLOAD_BYTES"`
	S3Bucket        string        `mapstructure:"S3_BUCKET"`
	S3Region        string        `mapstructure:"S3_REGION"`
	S3Endpoint      string        `mapstructure:"S3_ENDPOINT"`
	S3AccessKey     string        `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string        `mapstructure:"S3_SECRET_KEY"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL"`
}

var defaults = map[string]any{
	"APP_PORT":          ":8080",
	"LOG_LEVEL":         "info",
	"DB_DRIVER":         DriverPostgres,
	"DATABASE_DSN":      "host=127.0.0.1 user=postgres password=postgres dbname=recipe port=5432 sslmode=disable",
	"DB_LOG_LEVEL":      "warn",
	"ADMIN_SECRET":      "change-me",
	"ADMIN_SESSION_TTL": 12 * time.Hour,
	"STORAGE_BACKEND":   StorageLocal,
	"MEDIA_ROOT":        "./media",
	"MEDIA_URL":         "/media/",
	"MAX_UPLOAD_BYTES":  10 * 1024 * 1024,
	"S3_BUCKET":         "",
	"S3_REGION":         "us-east-1",
	"S3_ENDPOINT":       "",
	"S3_ACCESS_KEY":     "",
	"S3_SECRET_KEY":     "",
	"RABBITMQ_URL":      "",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()
	return FromViper(viper.New())
}

// FromViper fills a Config from v after registering defaults and env bindings.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB driver is invalid: %s", cfg.DBDriver)
	}

	switch cfg.StorageBackend {
	case StorageLocal:
		if cfg.MediaRoot == "" {
			return fmt.Errorf("MEDIA_ROOT is required for local storage")
		}
	case StorageS3:
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("storage backend is invalid: %s", cfg.StorageBackend)
	}

	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.AdminSessionTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL must be positive, got %s", cfg.AdminSessionTTL)
	}
	return nil
}
