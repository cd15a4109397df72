package config

import (
	"errors"
	"fmt"
	"time"

	"crudefi_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const devJWTSecret = "crudefi-development-secret-change-me"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Payroll  PayrollConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Env                string
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// DatabaseConfig holds PostgreSQL connection values.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ApplySchema     bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	AdminUsername string
	AdminPassword string
}

// PayrollConfig holds the business calendar settings.
type PayrollConfig struct {
	Location *time.Location
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Load reads configuration from environment variables, applying defaults where possible.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env:                utils.Getenv("APP_ENV", "development"),
			Port:               utils.Getenv("PORT", "8080"),
			LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
			CORSAllowedOrigins: utils.SplitCSV(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
			RequestTimeout:     time.Duration(utils.GetenvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.Getenv("DB_PORT", "5432"),
			User:            utils.Getenv("DB_USER", "crudefi"),
			Password:        utils.Getenv("DB_PASSWORD", "crudefi"),
			Name:            utils.Getenv("DB_NAME", "crudefi"),
			SSLMode:         utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetenvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(utils.GetenvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
			ApplySchema:     utils.GetenvBool("DB_APPLY_SCHEMA", true),
		},
		Auth: AuthConfig{
			JWTSecret:     utils.Getenv("JWT_SECRET", ""),
			JWTExpiration: time.Duration(utils.GetenvInt("JWT_EXPIRATION_HOURS", 12)) * time.Hour,
			AdminUsername: utils.Getenv("ADMIN_USERNAME", "admin"),
			AdminPassword: utils.Getenv("ADMIN_PASSWORD", ""),
		},
	}

	tz := utils.Getenv("PAYROLL_TIMEZONE", "Africa/Nairobi")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TIMEZONE %q: %w", tz, err)
	}
	cfg.Payroll.Location = loc

	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET must be set outside development")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if cfg.App.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if cfg.Auth.JWTExpiration <= 0 {
		return nil, errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	return cfg, nil
}
