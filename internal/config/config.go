package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Storage   StorageConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Payroll   PayrollConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Ingestion IngestionConfig
}

// StorageConfig picks the repository backend. "memory" keeps everything in
// process and is meant for demos.
type StorageConfig struct {
	Driver string
	// ImportArchiveDir keeps a copy of every uploaded device workbook.
	// Empty disables archiving.
	ImportArchiveDir string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AccessTTL parses AccessExpiration. Validate guarantees it is well formed.
func (j JWTConfig) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(j.AccessExpiration)
	return d
}

func (j JWTConfig) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(j.RefreshExpiration)
	return d
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// PayrollConfig selects the named pay policies and the sweep schedules.
type PayrollConfig struct {
	CompanyName         string
	PeriodPolicy        string
	OvertimeTotalPolicy string

	SalaryCron        string
	PayrollCron       string
	PayslipCron       string
	OvertimeCron      string
	SweepLockTTL      time.Duration
	TaskStatusTTL     time.Duration
	SweepRunOnStartup bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers      []string
	PayslipTopic string
}

// Enabled reports whether any broker was configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// IngestionConfig throttles the biometric device feed per client.
type IngestionConfig struct {
	RatePerSecond float64
	Burst         int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	config.Storage = StorageConfig{
		Driver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		ImportArchiveDir: getEnv("IMPORT_ARCHIVE_DIR", ""),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fresco_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Manila"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	lockTTL, err := time.ParseDuration(getEnv("SWEEP_LOCK_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_LOCK_TTL: %w", err)
	}
	statusTTL, err := time.ParseDuration(getEnv("TASK_STATUS_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TASK_STATUS_TTL: %w", err)
	}
	runOnStartup, err := strconv.ParseBool(getEnv("SWEEP_RUN_ON_STARTUP", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_RUN_ON_STARTUP: %w", err)
	}

	config.Payroll = PayrollConfig{
		CompanyName:         getEnv("PAYSLIP_COMPANY_NAME", "Fresco"),
		PeriodPolicy:        getEnv("PAY_PERIOD_POLICY", "calendar_halves"),
		OvertimeTotalPolicy: getEnv("OVERTIME_TOTAL_POLICY", "premiums_only"),
		SalaryCron:          getEnv("CRON_SALARY", "0 1 * * *"),
		PayrollCron:         getEnv("CRON_PAYROLL", "15 1 * * *"),
		PayslipCron:         getEnv("CRON_PAYSLIP", "30 1 * * *"),
		OvertimeCron:        getEnv("CRON_OVERTIME", "0 0 * * *"),
		SweepLockTTL:        lockTTL,
		TaskStatusTTL:       statusTTL,
		SweepRunOnStartup:   runOnStartup,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Kafka configuration
	config.Kafka = KafkaConfig{
		Brokers:      getEnvSlice("KAFKA_BROKERS"),
		PayslipTopic: getEnv("KAFKA_PAYSLIP_TOPIC", "payroll.payslip.issued"),
	}

	// Device feed throttling
	rps, err := strconv.ParseFloat(getEnv("PUNCH_RATE_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_PER_SECOND: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("PUNCH_RATE_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_BURST: %w", err)
	}
	config.Ingestion = IngestionConfig{RatePerSecond: rps, Burst: burst}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: postgres, memory")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if d, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil || d <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be a positive duration")
	}
	if d, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil || d <= 0 {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_TIME must be a positive duration")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	switch c.Payroll.PeriodPolicy {
	case "calendar_halves", "schedule_explicit":
	default:
		return fmt.Errorf("PAY_PERIOD_POLICY must be one of: calendar_halves, schedule_explicit")
	}
	switch c.Payroll.OvertimeTotalPolicy {
	case "premiums_only", "premiums_and_deductions":
	default:
		return fmt.Errorf("OVERTIME_TOTAL_POLICY must be one of: premiums_only, premiums_and_deductions")
	}
	if c.Ingestion.RatePerSecond <= 0 || c.Ingestion.Burst <= 0 {
		return fmt.Errorf("PUNCH_RATE_PER_SECOND and PUNCH_RATE_BURST must be positive")
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

// IsProduction enables secure cookies.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location returns the timezone punches are converted into.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
