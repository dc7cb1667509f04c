package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/expertprofile/internal/flagx"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "30s" style strings or integer nanoseconds. Absent keys keep the value
// already in Config.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	AllowedOrigins  []string        `json:"allowed_origins"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	RedisAddr       *string         `json:"redis_addr"`
	RedisPassword   *string         `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	CacheTTL        *timex.Duration `json:"cache_ttl"`
	S3RootUser      *string         `json:"s3_root_user"`
	S3RootPassword  *string         `json:"s3_root_password"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3Region        *string         `json:"s3_region"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	KafkaBrokers    []string        `json:"kafka_brokers"`
	KafkaTopic      *string         `json:"kafka_topic"`
	LogBackend      *string         `json:"log_backend"`
	LogLevel        *string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config. A missing flag is a
// no-op; an unreadable or malformed file panics.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)

	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.KafkaBrokers != nil {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
