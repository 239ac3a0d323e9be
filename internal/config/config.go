package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// InvalidTokenMode controls what the identity filter does with a token that
// fails verification.
type InvalidTokenMode string

const (
	// InvalidTokenAnonymous continues the request without an identity.
	InvalidTokenAnonymous InvalidTokenMode = "anonymous"
	// InvalidTokenReject answers 401 immediately.
	InvalidTokenReject InvalidTokenMode = "reject"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	CORS      CORSConfig
	AdminSeed AdminSeedConfig
	Webhook   WebhookConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	InvalidTokenMode      InvalidTokenMode
	LoginMaxAttempts      int
	LoginWindowSeconds    int
}

// CORSConfig restricts cross-origin access to a single configured origin.
type CORSConfig struct {
	AllowOrigin string
}

// AdminSeedConfig describes the one-time privileged account provisioning.
type AdminSeedConfig struct {
	Enabled  bool
	Username string
	Email    string
	Password string
}

// WebhookConfig holds the stub notification endpoint.
type WebhookConfig struct {
	URL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	invalidTokenMode := InvalidTokenMode(getEnv("AUTH_INVALID_TOKEN_MODE", string(InvalidTokenAnonymous)))
	if invalidTokenMode != InvalidTokenAnonymous && invalidTokenMode != InvalidTokenReject {
		return nil, fmt.Errorf("invalid AUTH_INVALID_TOKEN_MODE: %q", invalidTokenMode)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "expense-tracker"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			InvalidTokenMode:      invalidTokenMode,
			LoginMaxAttempts:      getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 10),
			LoginWindowSeconds:    getEnvAsInt("AUTH_LOGIN_WINDOW_SECONDS", 300),
		},
		CORS: CORSConfig{
			AllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "http://localhost:3000"),
		},
		AdminSeed: AdminSeedConfig{
			Enabled:  getEnvAsBool("ADMIN_SEED_ENABLED", false),
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Webhook: WebhookConfig{
			URL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// LoginWindow returns the throttle window duration.
func (a AuthConfig) LoginWindow() time.Duration {
	if a.LoginWindowSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
