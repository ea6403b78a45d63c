package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the bot service
type Config struct {
	Telegram TelegramConfig
	Resolver ResolverConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Download DownloadConfig
	Cache    CacheConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

// ResolverConfig holds upstream resolver API configuration
type ResolverConfig struct {
	APIKey  string
	APIHost string
	APIURL  string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables the
// download event stream.
type KafkaConfig struct {
	Brokers []string
}

// DownloadConfig holds delivery pipeline configuration
type DownloadConfig struct {
	MaxFileSizeMB      int
	MaxVariants        int
	MaxConcurrent      int
	PerUserLimit       int
	DirectSendDenylist []string
}

// CacheConfig holds resolution cache configuration
type CacheConfig struct {
	MaxSize    int
	TTLSeconds int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Resolver *ResolverConfig
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Download *DownloadConfig
	Cache    *CacheConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Resolver: &cfg.Resolver,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Download: &cfg.Download,
		Cache:    &cfg.Cache,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminChatID: getEnvInt64("ADMIN_CHAT_ID", 0),
		},
		Resolver: ResolverConfig{
			APIKey:  getEnv("RAPIDAPI_KEY", ""),
			APIHost: getEnv("RAPIDAPI_HOST", ""),
			APIURL:  getEnv("RAPIDAPI_URL", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "media_saver"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
		},
		Download: DownloadConfig{
			MaxFileSizeMB:      getEnvInt("MAX_FILE_SIZE_MB", 50),
			MaxVariants:        getEnvInt("MAX_VARIANTS", 3),
			MaxConcurrent:      getEnvInt("DOWNLOAD_MAX_CONCURRENT", 3),
			PerUserLimit:       getEnvInt("DOWNLOAD_PER_USER_LIMIT", 5),
			DirectSendDenylist: splitNonEmpty(getEnv("DIRECT_SEND_DENYLIST", "googlevideo.com")),
		},
		Cache: CacheConfig{
			MaxSize:    getEnvInt("CACHE_MAX_SIZE", 100),
			TTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 1800),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "media-saver-bot"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Resolver.APIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}

	if c.Resolver.APIHost == "" {
		return fmt.Errorf("RAPIDAPI_HOST is required")
	}

	if c.Resolver.APIURL == "" {
		return fmt.Errorf("RAPIDAPI_URL is required")
	}

	if c.Download.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}

	if c.Download.MaxConcurrent <= 0 {
		return fmt.Errorf("DOWNLOAD_MAX_CONCURRENT must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt64 gets an int64 environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
