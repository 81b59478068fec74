package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	MaxRetries  uint64
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	// LoginRatePerMinute caps login attempts per client address; 0 disables it.
	LoginRatePerMinute int
	LoginBurst         int
}

type StorageConfig struct {
	// BasePath is the directory rendered salary slips are written to.
	BasePath string
}

type PayrollConfig struct {
	// WorkingDaysMode is "fixed" (StandardWorkingDays) or "calendar".
	WorkingDaysMode string
	BatchSize       int
	Workers         int
	// CompanyName heads every salary slip.
	CompanyName string
	// SlipRenderInterval paces the background slip PDF job; 0 disables it.
	SlipRenderInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	config := &Config{}

	database, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	config.Database = database

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}
	loginBurst, err := strconv.Atoi(getEnv("LOGIN_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_BURST: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:     getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		LoginRatePerMinute: loginRate,
		LoginBurst:         loginBurst,
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
	}

	// Payroll configuration
	batchSize, err := strconv.Atoi(getEnv("PAYROLL_BATCH_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_BATCH_SIZE: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}
	slipInterval, err := time.ParseDuration(getEnv("PAYROLL_SLIP_RENDER_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SLIP_RENDER_INTERVAL: %w", err)
	}
	config.Payroll = PayrollConfig{
		WorkingDaysMode: getEnv("PAYROLL_WORKING_DAYS_MODE", "fixed"),
		BatchSize:       batchSize,
		Workers:         workers,
		CompanyName:     getEnv("PAYROLL_COMPANY_NAME", "Gate Garments"),

		SlipRenderInterval: slipInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadDatabase reads only the database settings, for tools that never
// serve HTTP.
func LoadDatabase() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	database, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	if database.Password == "" {
		return nil, fmt.Errorf("configuration validation failed: DB_PASSWORD is required")
	}
	return &Config{Database: database}, nil
}

func loadDatabase() (DatabaseConfig, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	maxRetries, err := strconv.ParseUint(getEnv("DB_TX_MAX_RETRIES", "3"), 10, 64)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_TX_MAX_RETRIES: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	return DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "gate_hrms"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		MinConns:    int32(minConns),
		MaxRetries:  maxRetries,
		AutoMigrate: autoMigrate,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	switch c.Payroll.WorkingDaysMode {
	case "fixed", "calendar":
	default:
		return fmt.Errorf("PAYROLL_WORKING_DAYS_MODE must be fixed or calendar, got %q", c.Payroll.WorkingDaysMode)
	}
	if c.Payroll.BatchSize < 1 {
		return fmt.Errorf("PAYROLL_BATCH_SIZE must be at least 1")
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
