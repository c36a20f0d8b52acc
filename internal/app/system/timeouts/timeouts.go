// Package timeouts provides centralized timeout values for handler operations.
//
// The values feed context.WithTimeout around database and broker calls so
// every handler uses the same budget for the same kind of work. They can be
// overridden at startup with Configure or ConfigureFromEnv.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads and conditional updates
//   - Medium: list queries, submissions, notification fan-out
//   - Long: operations touching several collections (deletes with cleanup)
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config holds timeout configuration values.
// Zero values are ignored (current values are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

// Ping returns the timeout for health checks and connectivity verification.
// Used by the health endpoint for the MongoDB and Redis pings.
func Ping() time.Duration { return get().Ping }

// Short returns the timeout for single-document operations.
// Examples: get by ID, approve or reject, add to a membership set, like
// toggles, booking a mentor slot.
func Short() time.Duration { return get().Short }

// Medium returns the timeout for list queries and submissions.
// Examples: moderated lists, the pending queue, a submission with its admin
// notification fan-out, the activity feed.
func Medium() time.Duration { return get().Medium }

// Long returns the timeout for work spanning several collections or the
// whole schema.
// Examples: deleting an event with its registrations, connecting to
// MongoDB, ensuring indexes and validators.
func Long() time.Duration { return get().Long }

func get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Current returns the active configuration. Useful for startup logging.
func Current() Config { return get() }

// Configure overrides the non-zero values in cfg. Call during startup,
// before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&current, cfg)
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// ConfigureFromEnv reads GUILDHUB_TIMEOUT_{PING,SHORT,MEDIUM,LONG} as Go
// durations ("2s", "500ms"). Unset or invalid values are skipped.
// Returns the number of timeouts configured.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"GUILDHUB_TIMEOUT_PING":   &cfg.Ping,
		"GUILDHUB_TIMEOUT_SHORT":  &cfg.Short,
		"GUILDHUB_TIMEOUT_MEDIUM": &cfg.Medium,
		"GUILDHUB_TIMEOUT_LONG":   &cfg.Long,
	} {
		if d, err := time.ParseDuration(os.Getenv(name)); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

func merge(dst *Config, src Config) {
	if src.Ping > 0 {
		dst.Ping = src.Ping
	}
	if src.Short > 0 {
		dst.Short = src.Short
	}
	if src.Medium > 0 {
		dst.Medium = src.Medium
	}
	if src.Long > 0 {
		dst.Long = src.Long
	}
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the deadline was exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "approve job")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
