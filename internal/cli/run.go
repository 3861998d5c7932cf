package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ainori-ai/mlagent"
	"github.com/ainori-ai/mlagent/internal/bus"
	"github.com/ainori-ai/mlagent/internal/ctxutil"
	"github.com/ainori-ai/mlagent/internal/journal"
)

var (
	tracer   = otel.Tracer("mlagentctl")
	cliMeter = otel.GetMeterProvider().Meter("mlagentctl")
)

// ProbeFunc checks whether one agent facet is reachable and reports the
// bus scope that answered.
type ProbeFunc func(ctx context.Context, facet bus.Facet) (bus.Scope, error)

// BinderProbe builds a ProbeFunc on top of a binder: bind the facet,
// note the scope, release the proxy immediately.
func BinderProbe(b *bus.Binder) ProbeFunc {
	return func(ctx context.Context, facet bus.Facet) (bus.Scope, error) {
		p, err := b.Bind(ctx, facet)
		if err != nil {
			return 0, err
		}
		scope := p.Scope()
		_ = p.Close()
		return scope, nil
	}
}

// App carries the assembled dependencies the command tree runs against.
type App struct {
	Client  *mlagent.Client
	Journal *journal.Journal // nil when journaling is disabled
	Logger  *slog.Logger
	Probe   ProbeFunc
	Version string
}

// runOp executes one agent operation with the bookkeeping every command
// shares: a fresh invocation id on the context, an OTEL span, timing, a
// journal row, and a debug log line. Journal failures are logged and
// swallowed; they must never fail the operation itself.
func (a *App) runOp(ctx context.Context, command, target string, fn func(context.Context) error) error {
	id := uuid.New()
	ctx = ctxutil.WithInvocationID(ctx, id)

	ctx, span := tracer.Start(ctx, "mlagentctl "+command,
		trace.WithAttributes(
			attribute.String("mlagent.command", command),
			attribute.String("mlagent.target", target),
			attribute.String("mlagent.invocation_id", id.String()),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	// Entry.ID is left zero; Record reads the invocation id back off the
	// context, keeping the journal row and the span correlated.
	entry := journal.Entry{
		Command:  command,
		Target:   target,
		Outcome:  journal.OutcomeOK,
		Duration: duration,
	}
	if err != nil {
		entry.Outcome = journal.OutcomeError
		entry.Error = err.Error()
		if code, ok := mlagent.RemoteCode(err); ok {
			entry.RemoteCode = code
		}
	}
	span.SetAttributes(attribute.String("mlagent.outcome", entry.Outcome))

	if a.Journal != nil {
		if jerr := a.Journal.Record(ctx, entry); jerr != nil {
			a.Logger.Warn("journal write failed", "command", command, "error", jerr)
		}
	}

	// Record metrics (best-effort, instruments lazily created).
	attrs := []attribute.KeyValue{
		attribute.String("mlagent.command", command),
		attribute.String("mlagent.outcome", entry.Outcome),
	}
	if counter, cerr := cliMeter.Int64Counter("mlagentctl.invocations"); cerr == nil {
		counter.Add(ctx, 1, otelmetric.WithAttributes(attrs...))
	}
	if hist, herr := cliMeter.Float64Histogram("mlagentctl.duration",
		otelmetric.WithUnit("ms")); herr == nil {
		hist.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(attrs...))
	}

	a.Logger.Debug("command finished",
		"command", command,
		"target", target,
		"outcome", entry.Outcome,
		"duration_ms", duration.Milliseconds(),
		"invocation_id", id.String(),
	)
	return err
}
