package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type EnvConfig struct {
	ServerURL           string        `env:"PROFILE_SERVER_URL"`
	AccessToken         string        `env:"PROFILE_ACCESS_TOKEN"`
	TimeZone            string        `env:"PROFILE_TZ"`
	OnlineCheckInterval time.Duration `env:"PROFILE_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      time.Duration `env:"PROFILE_REQUEST_TIMEOUT"`
	DataDir             string        `env:"PROFILE_DATA_DIR"`
	LogLevel            string        `env:"PROFILE_LOG_LEVEL"`
}

var loadDotEnv = func() { _ = godotenv.Load() }

func parseEnv(cfg *Config) {
	loadDotEnv()

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.ServerURL:   e.ServerURL,
		&cfg.AccessToken: e.AccessToken,
		&cfg.TimeZone:    e.TimeZone,
		&cfg.DataDir:     e.DataDir,
		&cfg.LogLevel:    e.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if e.OnlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = e.OnlineCheckInterval
	}
	if e.RequestTimeout > 0 {
		cfg.RequestTimeout = e.RequestTimeout
	}
}
