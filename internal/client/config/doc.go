// Package config loads runtime configuration for the profile client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables, after an optional .env file (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the profile server
//	-t string   access token (prompted for when empty)
//	-z string   IANA time zone used for time slots
//	-i int      online status check interval (seconds)
//	-T int      request timeout (seconds)
//	-f string   local data directory
//
// # JSON schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "time_zone": "Europe/Riga",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "data_dir": ".expertprofile"
//	}
//
// # Environment
//
// PROFILE_SERVER_URL, PROFILE_ACCESS_TOKEN, PROFILE_TZ,
// PROFILE_ONLINE_CHECK_INTERVAL, PROFILE_REQUEST_TIMEOUT, PROFILE_DATA_DIR,
// PROFILE_LOG_LEVEL.
package config
