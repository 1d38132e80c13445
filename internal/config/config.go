package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Dataset  DatasetConfig
	Redis    RedisConfig
	AI       AIConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatasetConfig points at the CSV trade-record export loaded into memory
type DatasetConfig struct {
	Path string
}

// RedisConfig holds the optional search-result cache connection
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// AIConfig holds the report-generation gateway settings
type AIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	ReportCost decimal.Decimal
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from environment variables, applying development
// defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Database: DatabaseConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Username: getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_NAME", "tradescope"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: []string{getenv("CORS_ORIGIN", "http://localhost:5173")},
		},
		Dataset: DatasetConfig{
			Path: getenv("DATASET_PATH", "data/trade_records.csv"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"), // empty disables the result cache
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		AI: AIConfig{
			BaseURL: getenv("AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("AI_API_KEY"),
			Model:   getenv("AI_MODEL", "gpt-4o-mini"),
		},
	}

	cfg.Redis.Enabled = cfg.Redis.Addr != ""
	if dbNum := os.Getenv("REDIS_DB"); dbNum != "" {
		n, err := strconv.Atoi(dbNum)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}

	cost := getenv("REPORT_CREDIT_COST", "10")
	parsed, err := decimal.NewFromString(cost)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("invalid REPORT_CREDIT_COST %q", cost)
	}
	cfg.AI.ReportCost = parsed

	return cfg, nil
}

// DSN assembles the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return "postgres://" + c.Username + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}
