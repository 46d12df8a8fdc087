package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable polling intervals and budgets.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Interval between cluster and deployment status polls
	ClusterCreate     time.Duration // Budget for the cluster to reach RUNNING; 0 waits forever
	PodLookupRetries  int           // Retries while the master pod lookup is ambiguous
	PodLookupDelay    time.Duration // Initial delay between master pod lookups
	PodLookupMaxDelay time.Duration // Cap of the pod lookup backoff
	ProcessStop       time.Duration // Grace period before a previous session group is killed
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
// Only the cluster timeout may be zero; the other durations must be positive.
//
// Environment Variables:
//   - SCANNER_GKE_POLL_INTERVAL (default: 5s)
//   - SCANNER_GKE_CLUSTER_TIMEOUT (default: 0, no limit)
//   - SCANNER_GKE_POD_LOOKUP_RETRIES (default: 60)
//   - SCANNER_GKE_POD_LOOKUP_DELAY (default: 1s)
//   - SCANNER_GKE_POD_LOOKUP_MAX_DELAY (default: 10s)
//   - SCANNER_GKE_PROCESS_STOP (default: 10s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parsePositiveDuration("SCANNER_GKE_POLL_INTERVAL", 5*time.Second),
		ClusterCreate:     parseDuration("SCANNER_GKE_CLUSTER_TIMEOUT", 0),
		PodLookupRetries:  parseInt("SCANNER_GKE_POD_LOOKUP_RETRIES", 60),
		PodLookupDelay:    parsePositiveDuration("SCANNER_GKE_POD_LOOKUP_DELAY", 1*time.Second),
		PodLookupMaxDelay: parsePositiveDuration("SCANNER_GKE_POD_LOOKUP_MAX_DELAY", 10*time.Second),
		ProcessStop:       parsePositiveDuration("SCANNER_GKE_PROCESS_STOP", 10*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parsePositiveDuration is parseDuration for values that pace a loop, where
// zero would busy-poll or skip the grace period entirely.
func parsePositiveDuration(envVar string, defaultVal time.Duration) time.Duration {
	d := parseDuration(envVar, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
