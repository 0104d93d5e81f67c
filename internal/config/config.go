package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Email     EmailConfig
	Recipes   RecipesConfig
	AI        AIConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Redis     RedisConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatabaseConfig describes the MySQL connection and pool.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the go-sql-driver connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

// EmailConfig contains credentials for the transactional email REST API.
type EmailConfig struct {
	BaseURL     string
	ServiceID   string
	TemplateID  string
	PublicKey   string
	PrivateKey  string
	PantryInbox string
	FromName    string
}

// Enabled reports whether outbound email is configured.
func (e EmailConfig) Enabled() bool {
	return e.ServiceID != "" && e.TemplateID != "" && e.PublicKey != ""
}

// RecipesConfig configures the TheMealDB-compatible recipe content API.
type RecipesConfig struct {
	BaseURL string
	APIKey  string
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule     string
	Timezone         string
	ExpiryWindowDays int
}

// MongoDBConfig holds settings for the report archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the finance sheet export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// RedisConfig points at the lock server used by the scheduler.
type RedisConfig struct {
	Address  string
	Password string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "3001"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Host:            getenvWithDefault("DB_HOST", "127.0.0.1"),
			Port:            getenvWithDefault("DB_PORT", "3306"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            os.Getenv("DB_NAME"),
			MaxOpenConns:    getenvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getenvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(getenvInt("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
			ConnMaxIdleTime: time.Duration(getenvInt("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second,
		},
		Auth: AuthConfig{
			TokenSecret: os.Getenv("AUTH_TOKEN_SECRET"),
			TokenTTL:    time.Duration(getenvInt("AUTH_TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Email: EmailConfig{
			BaseURL:     getenvWithDefault("EMAIL_API_BASE_URL", "https://api.emailjs.com/api/v1.0"),
			ServiceID:   os.Getenv("EMAIL_SERVICE_ID"),
			TemplateID:  os.Getenv("EMAIL_TEMPLATE_ID"),
			PublicKey:   os.Getenv("EMAIL_PUBLIC_KEY"),
			PrivateKey:  os.Getenv("EMAIL_PRIVATE_KEY"),
			PantryInbox: os.Getenv("EMAIL_PANTRY_INBOX"),
			FromName:    getenvWithDefault("EMAIL_FROM_NAME", "Pantry Helper"),
		},
		Recipes: RecipesConfig{
			BaseURL: getenvWithDefault("RECIPES_API_BASE_URL", "https://www.themealdb.com/api/json/v1"),
			APIKey:  getenvWithDefault("RECIPES_API_KEY", "1"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		Reporting: ReportingConfig{
			CronSchedule:     getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:         getenvWithDefault("TIMEZONE", "America/Los_Angeles"),
			ExpiryWindowDays: getenvInt("EXPIRY_WINDOW_DAYS", 7),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "pantry_helper"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_FINANCE_ID"),
		},
		Redis: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Database.User == "":
		return errors.New("DB_USER must be provided")
	case c.Database.Name == "":
		return errors.New("DB_NAME must be provided")
	case c.Database.Host == "":
		return errors.New("DB_HOST must not be empty")
	}

	if len(c.Auth.TokenSecret) < 16 {
		return errors.New("AUTH_TOKEN_SECRET must be at least 16 characters")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL_HOURS must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.Reporting.ExpiryWindowDays < 0 {
		return errors.New("EXPIRY_WINDOW_DAYS must not be negative")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_FINANCE_ID must be provided together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
