// Command mlagentctl is the operator CLI for the on-device ML
// orchestration agent. It talks to the agent over D-Bus through the
// public client and keeps a local journal of invocations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ainori-ai/mlagent"
	"github.com/ainori-ai/mlagent/internal/bus"
	"github.com/ainori-ai/mlagent/internal/cli"
	"github.com/ainori-ai/mlagent/internal/config"
	"github.com/ainori-ai/mlagent/internal/journal"
	"github.com/ainori-ai/mlagent/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	// Load .env file if present (non-fatal; developer convenience).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	client, err := mlagent.New(
		mlagent.WithScope(clientScope(cfg.Bus)),
		mlagent.WithBusName(cfg.BusName),
		mlagent.WithCallTimeout(cfg.CallTimeout),
		mlagent.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}

	// The status probe binds facets itself, outside the client, so it can
	// report which scope answered.
	probe := cli.BinderProbe(bus.NewBinder(bus.Config{
		BusName: cfg.BusName,
		Scopes:  probeScopes(cfg.Bus),
		Logger:  logger,
	}))

	app := &cli.App{
		Client:  client,
		Logger:  logger,
		Probe:   probe,
		Version: version,
	}

	if !cfg.JournalDisabled {
		path := cfg.JournalPath
		if path == "" {
			p, perr := journal.DefaultPath()
			if perr != nil {
				logger.Warn("journal path unavailable", "error", perr)
			}
			path = p
		}
		if path != "" {
			j, jerr := journal.Open(path)
			if jerr != nil {
				logger.Warn("journal disabled", "path", path, "error", jerr)
			} else {
				defer func() { _ = j.Close() }()
				app.Journal = j
				pruneJournal(ctx, j, cfg.JournalRetention, logger)
			}
		}
	}

	return cli.New(app).ExecuteContext(ctx)
}

// pruneJournal sweeps entries past the retention window. Best-effort: a
// failed sweep must not block the command.
func pruneJournal(ctx context.Context, j *journal.Journal, keep time.Duration, logger *slog.Logger) {
	if keep <= 0 {
		return
	}
	n, err := j.Prune(ctx, keep)
	if err != nil {
		logger.Debug("journal prune failed", "error", err)
		return
	}
	if n > 0 {
		logger.Debug("journal pruned", "removed", n)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr; stdout carries command output only.
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func clientScope(v string) mlagent.Scope {
	switch v {
	case "system":
		return mlagent.ScopeSystem
	case "session":
		return mlagent.ScopeSession
	default:
		return mlagent.ScopeAuto
	}
}

func probeScopes(v string) []bus.Scope {
	switch v {
	case "system":
		return []bus.Scope{bus.ScopeSystem}
	case "session":
		return []bus.Scope{bus.ScopeSession}
	default:
		return bus.DefaultScopes()
	}
}
