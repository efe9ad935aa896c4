package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

var (
	ErrUnknownDBDriver = errors.New("unknown database driver")
	ErrInsecureSecret  = errors.New("default secret used in release mode")
)

type Config struct {
	AppEnv   string `koanf:"app_env"`
	HTTPAddr string `koanf:"http_addr"`
	GinMode  string `koanf:"gin_mode"`

	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBPath     string `koanf:"db_path"`
	DBLogLevel string `koanf:"db_log_level"`

	RedisHost     string `koanf:"redis_host"`
	RedisPort     string `koanf:"redis_port"`
	RedisPassword string `koanf:"redis_password"`

	SessionSecret string        `koanf:"session_secret"`
	JWTSecret     string        `koanf:"jwt_secret"`
	JWTTTL        time.Duration `koanf:"jwt_ttl"`
	JWTIssuer     string        `koanf:"jwt_issuer"`

	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
	RateLimitRequests  int           `koanf:"rate_limit_requests"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	OpenAIAPIKey string `koanf:"openai_api_key"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv:   "development",
		HTTPAddr: ":8080",
		GinMode:  "debug",

		DBDriver:   "mysql",
		DBHost:     "localhost",
		DBPort:     "3306",
		DBUser:     "taskuser",
		DBPassword: "taskpassword",
		DBName:     "task_management",
		DBPath:     "project_tasks.db",
		DBLogLevel: "warn",

		RedisHost: "",
		RedisPort: "6379",

		SessionSecret: defaultSessionSecret,
		JWTSecret:     defaultJWTSecret,
		JWTTTL:        60 * time.Minute,
		JWTIssuer:     "project-task-api",

		CORSAllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		RateLimitRequests:  60,
		RateLimitWindow:    time.Minute,

		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file and the process environment, in increasing order of priority.
func Load() (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := configFilePath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDBDriver, c.DBDriver)
	}

	if c.IsRelease() {
		if c.SessionSecret == defaultSessionSecret || c.JWTSecret == defaultJWTSecret {
			return ErrInsecureSecret
		}
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt_ttl must be positive, got %s", c.JWTTTL)
	}

	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// RedisAddr returns host:port, or an empty string when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func configFilePath() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, candidate := range []string{"config.yaml", "config.yml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// envValue maps DB_HOST to db_host and splits comma separated lists.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(key)
	if key == "cors_allowed_origins" {
		parts := strings.Split(value, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		return key, origins
	}
	return key, value
}
