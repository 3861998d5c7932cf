package mlagent

import (
	"log/slog"
	"time"
)

// Option configures a Client.
type Option func(*resolvedOptions)

// resolvedOptions holds all extension points after applying defaults.
// Unexported; callers use the With* functions.
type resolvedOptions struct {
	busName     string
	scope       Scope
	callTimeout time.Duration
	logger      *slog.Logger
	transport   Transport
	env         ResourceEnv
}

// WithBusName overrides the agent's well-known bus name. Useful against a
// private bus in development; the default is the production agent name.
func WithBusName(name string) Option {
	return func(o *resolvedOptions) { o.busName = name }
}

// WithScope restricts binding to one bus scope. The default, ScopeAuto,
// tries the system bus first and falls back to the session bus.
func WithScope(scope Scope) Option {
	return func(o *resolvedOptions) { o.scope = scope }
}

// WithCallTimeout bounds each operation (bind plus remote call) with a
// deadline. Zero leaves timing to the transport's own synchronous-call
// default and to whatever deadline the caller's context carries.
func WithCallTimeout(d time.Duration) Option {
	return func(o *resolvedOptions) { o.callTimeout = d }
}

// WithLogger sets the structured logger. If not set, the client is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithTransport replaces the built-in D-Bus binder.
// Only the last call wins.
func WithTransport(t Transport) Option {
	return func(o *resolvedOptions) { o.transport = t }
}

// WithResourceEnv replaces the default packaging environment used for
// packaged-path resolution in get-style results.
func WithResourceEnv(env ResourceEnv) Option {
	return func(o *resolvedOptions) { o.env = env }
}
