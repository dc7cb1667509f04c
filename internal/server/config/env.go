package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables understood by the server.
// Unset variables leave the current value alone.
type EnvConfig struct {
	HTTPAddr        string        `env:"PROFILE_HTTP_ADDR"`
	AllowedOrigins  []string      `env:"PROFILE_ALLOWED_ORIGINS" env-separator:","`
	DatabaseDSN     string        `env:"PROFILE_DATABASE_DSN"`
	SecretKey       string        `env:"PROFILE_SECRET_KEY"`
	ShutdownTimeout time.Duration `env:"PROFILE_SHUTDOWN_TIMEOUT"`
	RedisAddr       string        `env:"PROFILE_REDIS_ADDR"`
	RedisPassword   string        `env:"PROFILE_REDIS_PASSWORD"`
	CacheTTL        time.Duration `env:"PROFILE_CACHE_TTL"`
	S3RootUser      string        `env:"PROFILE_S3_ROOT_USER"`
	S3RootPassword  string        `env:"PROFILE_S3_ROOT_PASSWORD"`
	S3Bucket        string        `env:"PROFILE_S3_BUCKET"`
	S3Region        string        `env:"PROFILE_S3_REGION"`
	S3BaseEndpoint  string        `env:"PROFILE_S3_BASE_ENDPOINT"`
	KafkaBrokers    []string      `env:"PROFILE_KAFKA_BROKERS" env-separator:","`
	KafkaTopic      string        `env:"PROFILE_KAFKA_TOPIC"`
	LogBackend      string        `env:"PROFILE_LOG_BACKEND"`
	LogLevel        string        `env:"PROFILE_LOG_LEVEL"`
}

// loadDotEnv is a seam for godotenv.Load; a missing .env file is not an error.
var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays values from the process environment, after loading
// a .env file from the working directory when one exists.
func parseEnv(config *Config) {
	loadDotEnv()

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	overlay(&config.HTTPAddr, e.HTTPAddr)
	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.SecretKey, e.SecretKey)
	overlay(&config.RedisAddr, e.RedisAddr)
	overlay(&config.RedisPassword, e.RedisPassword)
	overlay(&config.S3RootUser, e.S3RootUser)
	overlay(&config.S3RootPassword, e.S3RootPassword)
	overlay(&config.S3Bucket, e.S3Bucket)
	overlay(&config.S3Region, e.S3Region)
	overlay(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	overlay(&config.KafkaTopic, e.KafkaTopic)
	overlay(&config.LogBackend, e.LogBackend)
	overlay(&config.LogLevel, e.LogLevel)

	if len(e.AllowedOrigins) > 0 {
		config.AllowedOrigins = e.AllowedOrigins
	}
	if len(e.KafkaBrokers) > 0 {
		config.KafkaBrokers = e.KafkaBrokers
	}
	if e.ShutdownTimeout > 0 {
		config.ShutdownTimeout = e.ShutdownTimeout
	}
	if e.CacheTTL > 0 {
		config.CacheTTL = e.CacheTTL
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
