package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the single event this storefront sells
const (
	DefaultAPIBaseURL = "https://expoflora-orders-api.azurewebsites.net"
	DefaultEventID    = "1f116a2b-69b2-41e7-a362-55eb8ce5a2f4"
	DefaultCustomerID = "d4e5f6a7-b8c9-4123-9def-456789012345"
)

type Config struct {
	Server     ServerConfig
	API        APIConfig
	Storefront StorefrontConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Broker     BrokerConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	AllowedOrigins []string
	// Demo serves an in-memory orders API instead of the remote one
	Demo bool
}

// APIConfig points at the remote orders API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorefrontConfig struct {
	Brand             string
	EventName         string
	EventID           string
	DefaultCustomerID string
	CurrencySymbol    string
	CustomerParam     string
	// FingerprintSalt keys card fingerprints in the checkout audit log
	FingerprintSalt string
}

type SessionConfig struct {
	Secret string
	MaxAge int
	Secure bool
}

// RateLimitConfig bounds order submissions per visitor
type RateLimitConfig struct {
	Submissions int
	Window      time.Duration
}

// RedisConfig enables the Redis cart repository when URL is set
type RedisConfig struct {
	URL     string
	CartTTL time.Duration
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether checkout attempts should be persisted
func (c DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// BrokerConfig enables order event publishing when URL is set
type BrokerConfig struct {
	URL   string
	Queue string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	env := getEnv("ENV", "development")

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "localhost"),
			Env:            env,
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
			Demo:           getEnvAsBool("DEMO_MODE", false),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("ORDERS_API_URL", DefaultAPIBaseURL), "/"),
			Timeout: getEnvAsDuration("ORDERS_API_TIMEOUT", 15*time.Second),
		},
		Storefront: StorefrontConfig{
			Brand:             getEnv("STORE_BRAND", "ExpoFlora"),
			EventName:         getEnv("EVENT_NAME", "ExpoFlora"),
			EventID:           getEnv("EVENT_ID", DefaultEventID),
			DefaultCustomerID: getEnv("DEFAULT_CUSTOMER_ID", DefaultCustomerID),
			CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "R$"),
			CustomerParam:     getEnv("CUSTOMER_PARAM", "usuario"),
			FingerprintSalt:   getEnv("CARD_FINGERPRINT_SALT", "change-this-fingerprint-salt"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 86400),
			Secure: env == "production",
		},
		RateLimit: RateLimitConfig{
			Submissions: getEnvAsInt("CHECKOUT_RATE_LIMIT", 5),
			Window:      getEnvAsDuration("CHECKOUT_RATE_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			CartTTL: getEnvAsDuration("CART_TTL", 24*time.Hour),
		},
		Database: parseDatabaseConfig(),
		Broker: BrokerConfig{
			URL:   getEnv("RABBITMQ_URL", getEnv("AMQP_URL", "")),
			Queue: getEnv("ORDER_EVENTS_QUEUE", "order.submitted"),
		},
	}

	return config, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// Individual variables are opt-in; without DB_HOST the audit log is off
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "storefront"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	// Parse the URL
	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	// Extract components
	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432 // Default PostgreSQL port
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
