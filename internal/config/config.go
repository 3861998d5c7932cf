// Package config loads and validates CLI configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all mlagentctl configuration.
type Config struct {
	// Bus selection.
	Bus         string        // "auto", "system", or "session"
	BusName     string        // Well-known agent name override; empty uses the built-in default.
	CallTimeout time.Duration // Upper bound for a single agent call.

	// Invocation journal settings.
	JournalPath      string        // Journal database location; empty uses the per-user default.
	JournalDisabled  bool
	JournalRetention time.Duration // Entries older than this are swept; non-positive keeps everything.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool // Plain-HTTP export, for local collectors.
	ServiceName  string

	// Operational settings.
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load reads configuration from environment variables with sensible
// defaults. Malformed variables are collected and reported together.
func Load() (Config, error) {
	var errs []error

	callTimeout, err := envDuration("MLAGENT_CALL_TIMEOUT", 30*time.Second)
	if err != nil {
		errs = append(errs, err)
	}
	journalDisabled, err := envBool("MLAGENT_JOURNAL_DISABLED", false)
	if err != nil {
		errs = append(errs, err)
	}
	journalRetention, err := envDuration("MLAGENT_JOURNAL_RETENTION", 90*24*time.Hour)
	if err != nil {
		errs = append(errs, err)
	}
	otelInsecure, err := envBool("MLAGENT_OTLP_INSECURE", false)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := Config{
		Bus:              envStr("MLAGENT_BUS", "auto"),
		BusName:          envStr("MLAGENT_BUS_NAME", ""),
		CallTimeout:      callTimeout,
		JournalPath:      envStr("MLAGENT_JOURNAL_PATH", ""),
		JournalDisabled:  journalDisabled,
		JournalRetention: journalRetention,
		OTELEndpoint:     envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:     otelInsecure,
		ServiceName:      envStr("OTEL_SERVICE_NAME", "mlagentctl"),
		LogLevel:         envStr("MLAGENT_LOG_LEVEL", "info"),
		LogFormat:        envStr("MLAGENT_LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c Config) Validate() error {
	switch c.Bus {
	case "auto", "system", "session":
	default:
		return fmt.Errorf("config: MLAGENT_BUS must be auto, system, or session")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: MLAGENT_LOG_FORMAT must be text or json")
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("config: MLAGENT_CALL_TIMEOUT must not be negative")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
