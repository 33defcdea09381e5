package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LLM      LLMConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Queue    QueueConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrateOnStart bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	LockTTL  time.Duration
}

// LLMConfig selects the completion backend. Provider is "gemini" or "vertexai".
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Project     string
	Location    string
	Temperature float32
	RateLimit   float64
	RateBurst   int
}

// AuthConfig enables bearer-token checks on the API when AccessSecret is set.
type AuthConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

// StorageConfig points at the bucket holding uploaded résumé files. An empty
// Bucket disables object storage lookups.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type QueueConfig struct {
	URL     string
	Queue   string
	Workers int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                optDefault("DB_PORT", "5432"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        parseDuration(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(parseInt(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(parseInt(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   parseDuration(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   parseDuration(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: parseDuration(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),
		MigrateOnStart:        parseBool(opt("DB_MIGRATE_ON_START"), true),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		LockTTL:  parseDuration(opt("REDIS_LOCK_TTL"), 2*time.Minute),
	}

	cfg.LLM = LLMConfig{
		Provider:    strings.ToLower(optDefault("LLM_PROVIDER", "gemini")),
		Model:       optDefault("LLM_MODEL", "gemini-2.5-flash"),
		APIKey:      opt("LLM_API_KEY"),
		Project:     opt("LLM_PROJECT"),
		Location:    optDefault("LLM_LOCATION", "us-central1"),
		Temperature: float32(parseFloat(opt("LLM_TEMPERATURE"), 0.2)),
		RateLimit:   parseFloat(opt("LLM_RATE_LIMIT"), 0),
		RateBurst:   parseInt(opt("LLM_RATE_BURST"), 1),
	}
	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.APIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
	case "vertexai":
		if cfg.LLM.Project == "" {
			missing = append(missing, "LLM_PROJECT")
		}
	default:
		return Config{}, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	cfg.Auth = AuthConfig{
		AccessSecret:    opt("JWT_ACCESS_SECRET"),
		AccessExpiresIn: parseDuration(opt("JWT_ACCESS_EXPIRES_IN"), time.Hour),
	}

	cfg.Storage = StorageConfig{
		Endpoint:  opt("STORAGE_ENDPOINT"),
		Region:    optDefault("STORAGE_REGION", "auto"),
		Bucket:    opt("STORAGE_BUCKET"),
		AccessKey: opt("STORAGE_ACCESS_KEY"),
		SecretKey: opt("STORAGE_SECRET_KEY"),
	}

	cfg.Queue = QueueConfig{
		URL:     opt("AMQP_URL"),
		Queue:   optDefault("AMQP_QUEUE", "insight.requests"),
		Workers: parseInt(opt("AMQP_WORKERS"), 3),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// parseDuration accepts Go durations ("30s") or a bare number of seconds.
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
