package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for TrackDeck
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// MongoDB configuration
	MongoDB MongoDBConfig

	// Queue configuration for async webhook processing
	Queue QueueConfig

	// Redis configuration (optional, per-issue processing locks)
	Redis RedisConfig

	// Authentication configuration
	Auth AuthConfig

	// Webhook ingestion configuration
	Webhooks WebhookConfig

	// Notification sink configuration
	Notifications NotificationConfig

	// Data directory for embedded services
	DataDir string

	// Development mode
	DevMode bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port        int
	CORSOrigins []string
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// QueueConfig holds queue configuration
type QueueConfig struct {
	Type string // "embedded" or "nats"

	NATS NATSConfig
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string
	DataDir string
}

// RedisConfig holds redis configuration. Leave Addr empty to disable.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWT JWTConfig

	Session SessionConfig
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Issuer             string
	PrivateKeyPath     string
	PublicKeyPath      string
	SessionTokenExpiry time.Duration
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName string
	Secure     bool
	SameSite   string // "Strict", "Lax", "None"
}

// WebhookConfig holds webhook ingestion configuration
type WebhookConfig struct {
	// RatePerSecond limits inbound deliveries per integration
	RatePerSecond float64

	// RateBurst is the burst allowance for the limiter
	RateBurst int
}

// NotificationConfig holds the activity sink configuration.
// An empty URL disables the sink.
type NotificationConfig struct {
	URL       string
	AuthToken string
	Timeout   time.Duration
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        getEnvInt("HTTP_PORT", 8080),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:4200"}),
		},

		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0&directConnection=true"),
			Database: getEnv("MONGODB_DATABASE", "trackdeck"),
		},

		Queue: QueueConfig{
			Type: getEnv("QUEUE_TYPE", "embedded"),
			NATS: NATSConfig{
				URL:     getEnv("NATS_URL", "nats://localhost:4222"),
				DataDir: getEnv("NATS_DATA_DIR", "./data/nats"),
			},
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		Auth: AuthConfig{
			JWT: JWTConfig{
				Issuer:             getEnv("JWT_ISSUER", "trackdeck"),
				PrivateKeyPath:     getEnv("JWT_PRIVATE_KEY_PATH", ""),
				PublicKeyPath:      getEnv("JWT_PUBLIC_KEY_PATH", ""),
				SessionTokenExpiry: getEnvDuration("JWT_SESSION_TOKEN_EXPIRY", 8*time.Hour),
			},

			Session: SessionConfig{
				CookieName: getEnv("SESSION_COOKIE_NAME", "TRACKDECK_SESSION"),
				Secure:     getEnvBool("SESSION_SECURE", true),
				SameSite:   getEnv("SESSION_SAME_SITE", "Strict"),
			},
		},

		Webhooks: WebhookConfig{
			RatePerSecond: getEnvFloat("WEBHOOK_RATE_PER_SECOND", 10),
			RateBurst:     getEnvInt("WEBHOOK_RATE_BURST", 30),
		},

		Notifications: NotificationConfig{
			URL:       getEnv("NOTIFICATION_SINK_URL", ""),
			AuthToken: getEnv("NOTIFICATION_SINK_TOKEN", ""),
			Timeout:   getEnvDuration("NOTIFICATION_SINK_TIMEOUT", 5*time.Second),
		},

		DataDir: getEnv("DATA_DIR", "./data"),
		DevMode: getEnvBool("TRACKDECK_DEV", false),
	}

	return cfg, nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return defaultValue
}
