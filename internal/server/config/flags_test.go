package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-r", "redis:6379", "-l", "30",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://minio:9000",
				"-k", "k1:9092,k2:9092", "-o", "topic", "-L", "zap",
			},
			expected: &Config{
				HTTPAddr:       "127.0.0.1:9090",
				DatabaseDSN:    "db",
				SecretKey:      "secret",
				RedisAddr:      "redis:6379",
				CacheTTL:       30 * time.Second,
				S3RootUser:     "user",
				S3RootPassword: "password",
				S3Bucket:       "bucket",
				S3Region:       "us-west-1",
				S3BaseEndpoint: "http://minio:9000",
				KafkaBrokers:   []string{"k1:9092", "k2:9092"},
				KafkaTopic:     "topic",
				LogBackend:     "zap",
			},
		},
		{
			name:        "bad ttl panics",
			args:        []string{"cmd", "-l", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-c", "cfg.json", "-a", ":1234"}
	c := &Config{}
	c.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(c) })

	assert.Equal(t, ":1234", c.HTTPAddr)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
}
