package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Log level constants
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log type constants
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	ConnectTimeout     time.Duration
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// AuthConfig holds session token and password policy settings.
type AuthConfig struct {
	JWTSecret             string
	Issuer                string
	TokenTTL              time.Duration
	MinPasswordLength     int
	DefaultImportPassword string
}

// LoggerConfig holds settings for the structured application logger.
type LoggerConfig struct {
	Level      string `validate:"required,oneof=debug info warning error"`
	Type       string `validate:"required,oneof=console file"`
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ImportConfig controls throttling of bulk user imports.
type ImportConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	MaxUsers   int
}

// CronConfig holds the shared secret expected by maintenance endpoints.
type CronConfig struct {
	Secret string
}

// RateLimitConfig holds per-minute request ceilings for sensitive admin operations.
type RateLimitConfig struct {
	CreateUserPerMinute int
	DeleteUserPerMinute int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	Logger    LoggerConfig
	Import    ImportConfig
	Cron      CronConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "gymapi"),
			ConnectTimeout:     getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "documents"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", ""),
			Issuer:                getEnv("AUTH_ISSUER", "gymapi"),
			TokenTTL:              getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			MinPasswordLength:     getEnvInt("AUTH_MIN_PASSWORD_LENGTH", 6),
			DefaultImportPassword: getEnv("IMPORT_DEFAULT_PASSWORD", "Password123!"),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", LogLevelInfo),
			Type:       getEnv("LOG_TYPE", LogTypeConsole),
			FilePath:   getEnv("LOG_FILE_PATH", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		},
		Import: ImportConfig{
			BatchSize:  getEnvInt("IMPORT_BATCH_SIZE", 5),
			BatchDelay: getEnvDuration("IMPORT_BATCH_DELAY", 200*time.Millisecond),
			MaxUsers:   getEnvInt("IMPORT_MAX_USERS", 100),
		},
		Cron: CronConfig{
			Secret: getEnv("CRON_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			CreateUserPerMinute: getEnvInt("RATE_LIMIT_CREATE_USER", 10),
			DeleteUserPerMinute: getEnvInt("RATE_LIMIT_DELETE_USER", 5),
		},
	}
}

// Validate checks the logger settings. File output needs a path and sane rotation bounds.
func (c LoggerConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for LoggerConfig: %w", err)
	}

	if c.Type == LogTypeFile {
		if c.FilePath == "" {
			return fmt.Errorf("file path is required for file logger")
		}
		if c.MaxSizeMB < 1 || c.MaxSizeMB > 1024 {
			return fmt.Errorf("max size must be between 1 and 1024 MB")
		}
		if c.MaxBackups < 0 || c.MaxBackups > 50 {
			return fmt.Errorf("max backups must be between 0 and 50")
		}
		if c.MaxAgeDays < 0 || c.MaxAgeDays > 365 {
			return fmt.Errorf("max age must be between 0 and 365 days")
		}
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
