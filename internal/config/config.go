// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `validate:"required"`
	Version     string
	Environment string `validate:"required,oneof=development staging production test"`
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string `validate:"required"`
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver   string `validate:"required,oneof=postgres mongo memory"`
	SeedDemo bool
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int `validate:"gte=1"`
	MaxIdleConns int `validate:"gte=0"`
	MaxLifetime  time.Duration
	LogLevel     string `validate:"oneof=silent error warn info"`
}

// MongoConfig contains document store configuration
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// CatalogConfig contains catalog browsing configuration
type CatalogConfig struct {
	FallbackOnError bool
	CacheTTL        time.Duration
	QueryTimeout    time.Duration
}

// CartConfig contains cart session configuration
type CartConfig struct {
	CookieName   string `validate:"required"`
	CookieMaxAge time.Duration
	CookieSecure bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int `validate:"gte=0"`
	RateLimitBurst     int `validate:"gte=0"`
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json text"`
	File   string
}

var validate = validator.New()

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:   getEnv("STORE_DRIVER", StoreDriverPostgres),
			SeedDemo: getEnvAsBool("STORE_SEED_DEMO", false),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront"),
			User:         getEnv("DB_USER", "storefront"),
			Password:     getEnv("DB_PASSWORD", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database:       getEnv("MONGO_DATABASE", "storefront"),
			ConnectTimeout: getEnvAsDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Catalog: CatalogConfig{
			FallbackOnError: getEnvAsBool("CATALOG_FALLBACK_ON_ERROR", true),
			CacheTTL:        getEnvAsDuration("CATALOG_CACHE_TTL", 30*time.Second),
			QueryTimeout:    getEnvAsDuration("CATALOG_QUERY_TIMEOUT", 5*time.Second),
		},
		Cart: CartConfig{
			CookieName:   getEnv("CART_COOKIE_NAME", "cartId"),
			CookieMaxAge: getEnvAsDuration("CART_COOKIE_MAX_AGE", 30*24*time.Hour),
			CookieSecure: getEnvAsBool("CART_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 50),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required")
		}
	}

	// Validate Redis configuration
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Cart.CookieMaxAge <= 0 {
		return fmt.Errorf("CART_COOKIE_MAX_AGE must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
