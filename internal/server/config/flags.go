package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string   HTTP listen address (":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret
//	-r string   Redis address, empty disables the cache
//	-l int      cache TTL, seconds
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint, empty disables the revision archive
//	-k string   Kafka brokers, comma separated; empty disables events
//	-o string   Kafka topic
//	-L string   log backend: slog or zap
//
// Only these flags are read from os.Args; an invalid value panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-r", "-l", "-u", "-p", "-b", "-g", "-e", "-k", "-o", "-L"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	cacheTTL := fs.Int("l", int(config.CacheTTL.Seconds()), "profile cache TTL (in seconds)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	brokers := fs.String("k", strings.Join(config.KafkaBrokers, ","), "kafka brokers")
	fs.StringVar(&config.KafkaTopic, "o", config.KafkaTopic, "kafka topic")
	fs.StringVar(&config.LogBackend, "L", config.LogBackend, "log backend (slog|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "l":
			config.CacheTTL = time.Duration(*cacheTTL) * time.Second
		case "k":
			config.KafkaBrokers = flagx.SplitList(*brokers)
		}
	})
}
