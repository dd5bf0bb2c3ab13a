// Package config loads the API configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverSupabase = "supabase"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

type Config struct {
	Port          string `env:"PORT"           envDefault:"8080"`
	Environment   string `env:"ENVIRONMENT"    envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE"   envDefault:"false"`

	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_URL_ANON_KEY"`

	MongoDBURI      string `env:"MONGODB_URI"`
	MongoDBPassword string `env:"MONGODB_PASSWORD"`
	MongoDBName     string `env:"MONGODB_DATABASE" envDefault:"events"`

	JWTSecret string `env:"JWT_SECRET"`
	JWKSURL   string `env:"JWKS_URL"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the variables required by the selected storage driver
// and authentication mode are present.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.StorageDriver)
		}
	case DriverSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
		}
	case DriverMongoDB:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("JWT_SECRET or JWKS_URL is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SupabaseEnabled reports whether a Supabase client can be built, either as
// the storage backend or for token refresh.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
