package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	API         APIConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Staff       StaffConfig
	LogLevel    string
}

// APIConfig points at the bar backend that owns beers, events, orders and reservations
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the durable slot that backs the cart
type StorageConfig struct {
	Driver string // memory, file, postgres, redis
	Dir    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StaffConfig struct {
	PinHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("API_BASE_URL", "http://localhost:8081")
	viper.SetDefault("STORAGE_DRIVER", "file")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper("API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrViper("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		API: APIConfig{
			BaseURL: strings.TrimSuffix(getEnvOrViper("API_BASE_URL", "http://localhost:8081"), "/"),
			Timeout: timeout,
		},
		Storage: StorageConfig{
			Driver: getEnvOrViper("STORAGE_DRIVER", "file"),
			Dir:    getEnvOrViper("STORAGE_DIR", ".barclient"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "barclient"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Prefix:   getEnvOrViper("REDIS_PREFIX", "barclient"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnvOrViper("KAFKA_BROKERS", "")),
			Topic:   getEnvOrViper("KAFKA_TOPIC", "barclient-audit"),
		},
		Staff: StaffConfig{
			PinHash: getEnvOrViper("STAFF_PIN_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	switch cfg.Storage.Driver {
	case "memory", "file", "postgres", "redis":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
