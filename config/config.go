// Package config provides helpers for reading process configuration from
// the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names used by the sync engine.
const (
	// EnvPort is the environment variable for the API server port
	EnvPort = "PORT"
	// EnvSyncCronEnabled toggles the in-process cron scheduler
	EnvSyncCronEnabled = "SYNC_CRON_ENABLED"
	// EnvSyncCronSpec overrides the cron spec for periodic sync ticks
	EnvSyncCronSpec = "SYNC_CRON_SPEC"
)

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable with a fallback value
// if unset or unparseable.
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool retrieves a boolean environment variable with a fallback value
// if unset or unparseable.
func GetEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// GetEnvDuration retrieves a duration environment variable with a fallback
// value if unset or unparseable.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
