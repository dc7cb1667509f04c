package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://h:9090", "-i", "10", "-T", "2", "-t", "tok", "-z", "UTC", "-f", "/tmp/p"}, expectPanic: false,
			expected: &Config{ServerURL: "http://h:9090", AccessToken: "tok", TimeZone: "UTC", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 2 * time.Second, DataDir: "/tmp/p"}},
		{name: "Test2 incorrect check interval", args: []string{"cmd", "-a", "http://h:9090", "-i", "abc"}, expectPanic: true, expected: &Config{}},
		{name: "Test3 foreign flags ignored", args: []string{"cmd", "-x", "1", "-a", "http://h"}, expectPanic: false,
			expected: &Config{ServerURL: "http://h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
