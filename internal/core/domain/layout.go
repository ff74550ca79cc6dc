package domain

import (
	"path"
	"strings"
	"time"
)

const (
	// DirectoryConfigFileName is the default name of the per-directory configuration artifact.
	DirectoryConfigFileName = "task-genius.config.md"

	// SettingsFileName is the name of the tasklens settings file looked up in the working directory.
	SettingsFileName = "tasklens.yaml"

	// EnvPrefix prefixes environment variables that override settings.
	EnvPrefix = "TASKLENS"

	// DefaultBatchDelay is the debounce window for scheduled cache refreshes.
	DefaultBatchDelay = 100 * time.Millisecond

	// DefaultMaxCachedFiles bounds the per-file derived-data cache.
	DefaultMaxCachedFiles = 10000

	// DefaultMaxAttempts is the number of worker tries per operation, including the first.
	DefaultMaxAttempts = 3

	// DefaultRetryBaseDelay is the delay after the first failed try. It doubles after each further failure.
	DefaultRetryBaseDelay = time.Second

	// DefaultFailureThreshold is the number of failed operations that trips the circuit breaker.
	DefaultFailureThreshold = 10

	// DefaultBreakerCooldown is how long a tripped breaker stays open.
	DefaultBreakerCooldown = 30 * time.Second

	// LatencyWeightCap bounds the weight of the running latency averages.
	LatencyWeightCap = 100
)

// ParentDir returns the vault directory containing p, or "" for the vault root.
func ParentDir(p string) string {
	p = strings.Trim(p, "/")
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// JoinVaultPath joins a vault directory and a name.
func JoinVaultPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
