// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Rabbit      RabbitConfig
	Catalog     CatalogConfig
	Log         LogConfig
	I18n        I18nConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
	SeedDemoData bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	SnapshotKey string
	SnapshotTTL int // in seconds
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	Endpoint        string
}

type RabbitConfig struct {
	URL            string
	ExchangePrefix string
}

type CatalogConfig struct {
	Source         string // postgres or s3
	FeedKey        string
	Locale         string
	PriceFloor     float64
	DefaultSort    string
	SessionTTL     int // in minutes
	MaxSessions    int // 0 disables the limit
	ReloadInterval int // in seconds, 0 disables polling
	ExportMaxRows  int
	RequestTimeout int // in seconds
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "solar_catalog"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			SeedDemoData: getEnvAsBool("DB_SEED_DEMO", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", ""),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			SnapshotKey: getEnv("REDIS_SNAPSHOT_KEY", "catalog:snapshot"),
			SnapshotTTL: getEnvAsInt("REDIS_SNAPSHOT_TTL", 600),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-west-3"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "solar-catalog-feeds"),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
		Rabbit: RabbitConfig{
			URL:            getEnv("RABBIT_URL", ""),
			ExchangePrefix: getEnv("RABBIT_EXCHANGE_PREFIX", "storefront"),
		},
		Catalog: CatalogConfig{
			Source:         getEnv("CATALOG_SOURCE", "postgres"),
			FeedKey:        getEnv("CATALOG_FEED_KEY", "feeds/catalog.json"),
			Locale:         getEnv("CATALOG_LOCALE", "fr"),
			PriceFloor:     getEnvAsFloat("CATALOG_PRICE_FLOOR", 10000),
			DefaultSort:    getEnv("CATALOG_DEFAULT_SORT", "name"),
			SessionTTL:     getEnvAsInt("CATALOG_SESSION_TTL", 30),
			MaxSessions:    getEnvAsInt("CATALOG_MAX_SESSIONS", 10000),
			ReloadInterval: getEnvAsInt("CATALOG_RELOAD_INTERVAL", 0),
			ExportMaxRows:  getEnvAsInt("CATALOG_EXPORT_MAX_ROWS", 5000),
			RequestTimeout: getEnvAsInt("CATALOG_REQUEST_TIMEOUT", 10),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			File:       getEnv("LOG_FILE", ""),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "fr"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Catalog.Source {
	case "postgres":
	case "s3":
		if c.AWS.S3Bucket == "" || c.Catalog.FeedKey == "" {
			return fmt.Errorf("s3 catalog source requires AWS_S3_BUCKET and CATALOG_FEED_KEY")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	if c.Catalog.MaxSessions < 0 {
		return fmt.Errorf("catalog max sessions must not be negative")
	}

	if c.Catalog.PriceFloor < 0 {
		return fmt.Errorf("catalog price floor must not be negative")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
