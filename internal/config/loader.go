package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// TOMLConfig represents the TOML configuration file structure
type TOMLConfig struct {
	HTTP          TOMLHTTPConfig         `toml:"http"`
	MongoDB       TOMLMongoDBConfig      `toml:"mongodb"`
	Queue         TOMLQueueConfig        `toml:"queue"`
	Redis         TOMLRedisConfig        `toml:"redis"`
	Auth          TOMLAuthConfig         `toml:"auth"`
	Webhooks      TOMLWebhookConfig      `toml:"webhooks"`
	Notifications TOMLNotificationConfig `toml:"notifications"`
	DataDir       string                 `toml:"data_dir"`
	DevMode       bool                   `toml:"dev_mode"`
}

// TOMLHTTPConfig represents HTTP configuration in TOML
type TOMLHTTPConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// TOMLMongoDBConfig represents MongoDB configuration in TOML
type TOMLMongoDBConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// TOMLQueueConfig represents queue configuration in TOML
type TOMLQueueConfig struct {
	Type string         `toml:"type"`
	NATS TOMLNATSConfig `toml:"nats"`
}

// TOMLNATSConfig represents NATS configuration in TOML
type TOMLNATSConfig struct {
	URL     string `toml:"url"`
	DataDir string `toml:"data_dir"`
}

// TOMLRedisConfig represents redis configuration in TOML
type TOMLRedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TOMLAuthConfig represents auth configuration in TOML
type TOMLAuthConfig struct {
	JWT     TOMLJWTConfig     `toml:"jwt"`
	Session TOMLSessionConfig `toml:"session"`
}

// TOMLJWTConfig represents JWT configuration in TOML
type TOMLJWTConfig struct {
	Issuer             string `toml:"issuer"`
	PrivateKeyPath     string `toml:"private_key_path"`
	PublicKeyPath      string `toml:"public_key_path"`
	SessionTokenExpiry string `toml:"session_token_expiry"`
}

// TOMLSessionConfig represents session configuration in TOML
type TOMLSessionConfig struct {
	CookieName string `toml:"cookie_name"`
	Secure     bool   `toml:"secure"`
	SameSite   string `toml:"same_site"`
}

// TOMLWebhookConfig represents webhook ingestion configuration in TOML
type TOMLWebhookConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
	RateBurst     int     `toml:"rate_burst"`
}

// TOMLNotificationConfig represents the notification sink configuration in TOML
type TOMLNotificationConfig struct {
	URL       string `toml:"url"`
	AuthToken string `toml:"auth_token"`
	Timeout   string `toml:"timeout"`
}

// ConfigPaths lists the paths to search for config files
var ConfigPaths = []string{
	"config.toml",
	"trackdeck.toml",
	"./config/config.toml",
	"/etc/trackdeck/config.toml",
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	var tomlCfg TOMLConfig

	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return tomlConfigToConfig(&tomlCfg)
}

// LoadWithFile loads configuration from a TOML file, then applies environment
// variable overrides on top. Without a config file it falls back to Load().
func LoadWithFile() (*Config, error) {
	configPath := os.Getenv("TRACKDECK_CONFIG")
	if configPath == "" {
		for _, path := range ConfigPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	// If no config file found, just use env vars with defaults
	if configPath == "" {
		return Load()
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	applyEnvOverrides(cfg)
	fillDefaults(cfg)
	return cfg, nil
}

// tomlConfigToConfig converts TOML config to the internal Config struct
func tomlConfigToConfig(tc *TOMLConfig) (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        tc.HTTP.Port,
			CORSOrigins: tc.HTTP.CORSOrigins,
		},
		MongoDB: MongoDBConfig{
			URI:      tc.MongoDB.URI,
			Database: tc.MongoDB.Database,
		},
		Queue: QueueConfig{
			Type: tc.Queue.Type,
			NATS: NATSConfig{
				URL:     tc.Queue.NATS.URL,
				DataDir: tc.Queue.NATS.DataDir,
			},
		},
		Redis: RedisConfig{
			Addr:     tc.Redis.Addr,
			Password: tc.Redis.Password,
			DB:       tc.Redis.DB,
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				Issuer:         tc.Auth.JWT.Issuer,
				PrivateKeyPath: tc.Auth.JWT.PrivateKeyPath,
				PublicKeyPath:  tc.Auth.JWT.PublicKeyPath,
			},
			Session: SessionConfig{
				CookieName: tc.Auth.Session.CookieName,
				Secure:     tc.Auth.Session.Secure,
				SameSite:   tc.Auth.Session.SameSite,
			},
		},
		Webhooks: WebhookConfig{
			RatePerSecond: tc.Webhooks.RatePerSecond,
			RateBurst:     tc.Webhooks.RateBurst,
		},
		Notifications: NotificationConfig{
			URL:       tc.Notifications.URL,
			AuthToken: tc.Notifications.AuthToken,
		},
		DataDir: tc.DataDir,
		DevMode: tc.DevMode,
	}

	if tc.Auth.JWT.SessionTokenExpiry != "" {
		d, err := time.ParseDuration(tc.Auth.JWT.SessionTokenExpiry)
		if err != nil {
			return nil, fmt.Errorf("invalid session_token_expiry: %w", err)
		}
		cfg.Auth.JWT.SessionTokenExpiry = d
	}

	if tc.Notifications.Timeout != "" {
		d, err := time.ParseDuration(tc.Notifications.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid notifications timeout: %w", err)
		}
		cfg.Notifications.Timeout = d
	}

	return cfg, nil
}

// applyEnvOverrides replaces file values with explicitly set env variables.
func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.HTTP.Port, "HTTP_PORT")
	overrideSlice(&cfg.HTTP.CORSOrigins, "CORS_ORIGINS")

	overrideString(&cfg.MongoDB.URI, "MONGODB_URI")
	overrideString(&cfg.MongoDB.Database, "MONGODB_DATABASE")

	overrideString(&cfg.Queue.Type, "QUEUE_TYPE")
	overrideString(&cfg.Queue.NATS.URL, "NATS_URL")
	overrideString(&cfg.Queue.NATS.DataDir, "NATS_DATA_DIR")

	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")

	overrideString(&cfg.Auth.JWT.Issuer, "JWT_ISSUER")
	overrideString(&cfg.Auth.JWT.PrivateKeyPath, "JWT_PRIVATE_KEY_PATH")
	overrideString(&cfg.Auth.JWT.PublicKeyPath, "JWT_PUBLIC_KEY_PATH")
	overrideDuration(&cfg.Auth.JWT.SessionTokenExpiry, "JWT_SESSION_TOKEN_EXPIRY")
	overrideString(&cfg.Auth.Session.CookieName, "SESSION_COOKIE_NAME")
	overrideBool(&cfg.Auth.Session.Secure, "SESSION_SECURE")
	overrideString(&cfg.Auth.Session.SameSite, "SESSION_SAME_SITE")

	overrideFloat(&cfg.Webhooks.RatePerSecond, "WEBHOOK_RATE_PER_SECOND")
	overrideInt(&cfg.Webhooks.RateBurst, "WEBHOOK_RATE_BURST")

	overrideString(&cfg.Notifications.URL, "NOTIFICATION_SINK_URL")
	overrideString(&cfg.Notifications.AuthToken, "NOTIFICATION_SINK_TOKEN")
	overrideDuration(&cfg.Notifications.Timeout, "NOTIFICATION_SINK_TIMEOUT")

	overrideString(&cfg.DataDir, "DATA_DIR")
	overrideBool(&cfg.DevMode, "TRACKDECK_DEV")
}

// fillDefaults backfills zero values left by a sparse config file.
func fillDefaults(cfg *Config) {
	defaults, _ := Load()

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaults.HTTP.Port
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = defaults.HTTP.CORSOrigins
	}
	if cfg.MongoDB.URI == "" {
		cfg.MongoDB.URI = defaults.MongoDB.URI
	}
	if cfg.MongoDB.Database == "" {
		cfg.MongoDB.Database = defaults.MongoDB.Database
	}
	if cfg.Queue.Type == "" {
		cfg.Queue.Type = defaults.Queue.Type
	}
	if cfg.Queue.NATS.URL == "" {
		cfg.Queue.NATS.URL = defaults.Queue.NATS.URL
	}
	if cfg.Queue.NATS.DataDir == "" {
		cfg.Queue.NATS.DataDir = defaults.Queue.NATS.DataDir
	}
	if cfg.Auth.JWT.Issuer == "" {
		cfg.Auth.JWT.Issuer = defaults.Auth.JWT.Issuer
	}
	if cfg.Auth.JWT.SessionTokenExpiry == 0 {
		cfg.Auth.JWT.SessionTokenExpiry = defaults.Auth.JWT.SessionTokenExpiry
	}
	if cfg.Auth.Session.CookieName == "" {
		cfg.Auth.Session.CookieName = defaults.Auth.Session.CookieName
	}
	if cfg.Auth.Session.SameSite == "" {
		cfg.Auth.Session.SameSite = defaults.Auth.Session.SameSite
	}
	if cfg.Webhooks.RatePerSecond == 0 {
		cfg.Webhooks.RatePerSecond = defaults.Webhooks.RatePerSecond
	}
	if cfg.Webhooks.RateBurst == 0 {
		cfg.Webhooks.RateBurst = defaults.Webhooks.RateBurst
	}
	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = defaults.Notifications.Timeout
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
}

func overrideString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func overrideFloat(target *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

func overrideBool(target *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func overrideDuration(target *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

func overrideSlice(target *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = strings.Split(v, ",")
	}
}
