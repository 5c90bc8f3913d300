package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Redis    RedisConfig
	Paystack PaystackConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver      string // postgres or sqlite
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// AppConfig holds betting and wallet settings
type AppConfig struct {
	JWTSecret     string
	MinWithdrawal decimal.Decimal
	// OddsTolerance is the relative divergence allowed between client-supplied
	// and server-computed odds.
	OddsTolerance decimal.Decimal
}

// RedisConfig holds the ledger event stream settings
type RedisConfig struct {
	URL    string
	Stream string
}

// PaystackConfig holds payment provider settings
type PaystackConfig struct {
	SecretKey string
	BaseURL   string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // json or console
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"https://protectionpools.com",
	"https://www.protectionpools.com",
	"https://admin.protectionpools.com",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("DB_AUTO_MIGRATE must be a boolean: %w", err)
	}

	minWithdrawal, err := decimal.NewFromString(getEnv("MIN_WITHDRAWAL", "100"))
	if err != nil {
		return nil, fmt.Errorf("MIN_WITHDRAWAL must be a number: %w", err)
	}

	oddsTolerance, err := decimal.NewFromString(getEnv("ODDS_TOLERANCE", "0.01"))
	if err != nil {
		return nil, fmt.Errorf("ODDS_TOLERANCE must be a number: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			DBName:      getEnv("DB_NAME", "sportsbook"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SQLitePath:  getEnv("DB_SQLITE_PATH", "sportsbook.db"),
			AutoMigrate: autoMigrate,
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", strings.Join(defaultOrigins, ","))),
		},
		App: AppConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			MinWithdrawal: minWithdrawal,
			OddsTolerance: oddsTolerance,
		},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", ""),
			Stream: getEnv("REDIS_LEDGER_STREAM", "ledger.events"),
		},
		Paystack: PaystackConfig{
			SecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
			BaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", config.Database.Driver)
	}

	if !config.App.MinWithdrawal.IsPositive() {
		return nil, fmt.Errorf("MIN_WITHDRAWAL must be greater than zero")
	}

	if config.App.OddsTolerance.IsNegative() {
		return nil, fmt.Errorf("ODDS_TOLERANCE must not be negative")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
