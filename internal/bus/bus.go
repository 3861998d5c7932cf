// Package bus binds short-lived proxies to the agent's D-Bus facets.
//
// The agent exposes three facets (pipeline, model, resource) under one
// well-known bus name. It may sit on the system bus or on a session bus
// depending on how the device is provisioned, so binding tries each
// transport scope in a fixed order and takes the first scope where the
// name currently has an owner. Every bind opens a private connection that
// the caller must close after the single call it was bound for; proxies
// are never cached or shared.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// DefaultBusName is the well-known name the agent claims on the bus.
const DefaultBusName = "ai.ainori.MLAgent"

// ErrNoEndpoint reports that no transport scope yielded a live agent
// endpoint for the requested facet.
var ErrNoEndpoint = errors.New("bus: agent endpoint not found on any bus")

// Facet identifies one of the agent's three service surfaces.
type Facet int

const (
	FacetPipeline Facet = iota
	FacetModel
	FacetResource
)

// String returns the facet's name as it appears in the object path.
func (f Facet) String() string {
	switch f {
	case FacetPipeline:
		return "Pipeline"
	case FacetModel:
		return "Model"
	case FacetResource:
		return "Resource"
	default:
		return fmt.Sprintf("Facet(%d)", int(f))
	}
}

// Scope is one transport scope tried during binding.
type Scope int

const (
	ScopeSystem Scope = iota
	ScopeSession
)

// DefaultScopes is the fixed binding order: system bus, then session bus.
func DefaultScopes() []Scope {
	return []Scope{ScopeSystem, ScopeSession}
}

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeSystem:
		return "system"
	case ScopeSession:
		return "session"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// endpoint is the bus identity of one facet under a given bus name.
type endpoint struct {
	path  dbus.ObjectPath
	iface string
}

var endpoints = map[Facet]endpoint{
	FacetPipeline: {path: "/ai/ainori/MLAgent/Pipeline", iface: "ai.ainori.MLAgent.Pipeline"},
	FacetModel:    {path: "/ai/ainori/MLAgent/Model", iface: "ai.ainori.MLAgent.Model"},
	FacetResource: {path: "/ai/ainori/MLAgent/Resource", iface: "ai.ainori.MLAgent.Resource"},
}

// Conn is the binder's view of a bus connection. *dbus.Conn satisfies it;
// tests substitute stubs.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Close() error
}

// Dial opens a private connection to the bus at the given scope, with
// authentication and the initial hello exchange completed. Private
// connections keep the close-per-call contract away from the process-wide
// shared connection godbus maintains.
func Dial(scope Scope) (Conn, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	switch scope {
	case ScopeSystem:
		conn, err = dbus.ConnectSystemBus()
	case ScopeSession:
		conn, err = dbus.ConnectSessionBus()
	default:
		return nil, fmt.Errorf("bus: unknown scope %d", int(scope))
	}
	if err != nil {
		return nil, fmt.Errorf("bus: connect %s bus: %w", scope, err)
	}
	return conn, nil
}

// Config configures a Binder. Zero values fall back to the agent defaults.
type Config struct {
	BusName string                    // well-known name, DefaultBusName when empty
	Scopes  []Scope                   // binding order, DefaultScopes when nil
	Connect func(Scope) (Conn, error) // Dial when nil
	Logger  *slog.Logger              // discard when nil
}

// Binder resolves live facet proxies by trying each transport scope in
// order and stopping at the first success.
type Binder struct {
	busName string
	scopes  []Scope
	connect func(Scope) (Conn, error)
	logger  *slog.Logger
}

// NewBinder creates a Binder from cfg.
func NewBinder(cfg Config) *Binder {
	if cfg.BusName == "" {
		cfg.BusName = DefaultBusName
	}
	if cfg.Scopes == nil {
		cfg.Scopes = DefaultScopes()
	}
	if cfg.Connect == nil {
		cfg.Connect = Dial
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Binder{
		busName: cfg.BusName,
		scopes:  cfg.Scopes,
		connect: cfg.Connect,
		logger:  cfg.Logger,
	}
}

// Bind resolves a proxy to facet. Scopes are tried in the configured
// order; a scope counts as live only when the agent currently owns its
// well-known name there, so a reachable bus daemon without the agent does
// not satisfy a bind. The returned proxy owns a private connection and
// must be closed by the caller on every path.
func (b *Binder) Bind(ctx context.Context, facet Facet) (*Proxy, error) {
	ep, ok := endpoints[facet]
	if !ok {
		return nil, fmt.Errorf("bus: unknown facet %d", int(facet))
	}

	var lastErr error
	for _, scope := range b.scopes {
		conn, err := b.connect(scope)
		if err != nil {
			b.logger.Debug("bus connect failed", "scope", scope.String(), "error", err)
			lastErr = err
			continue
		}

		if err := nameHasOwner(ctx, conn, b.busName); err != nil {
			b.logger.Debug("agent name not owned", "scope", scope.String(), "name", b.busName, "error", err)
			if cerr := conn.Close(); cerr != nil {
				b.logger.Debug("close probe connection", "scope", scope.String(), "error", cerr)
			}
			lastErr = err
			continue
		}

		b.logger.Debug("bound agent facet", "facet", facet.String(), "scope", scope.String())
		return &Proxy{
			conn:  conn,
			obj:   conn.Object(b.busName, ep.path),
			iface: ep.iface,
			facet: facet,
			scope: scope,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEndpoint, lastErr)
	}
	return nil, ErrNoEndpoint
}

// nameHasOwner asks the bus daemon whether name is currently claimed.
func nameHasOwner(ctx context.Context, conn Conn, name string) error {
	daemon := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	call := daemon.CallWithContext(ctx, "org.freedesktop.DBus.GetNameOwner", 0, name)
	if call.Err != nil {
		return fmt.Errorf("bus: name %s has no owner: %w", name, call.Err)
	}
	return nil
}

// Proxy is a live, single-use handle to one facet at one scope. It is
// owned exclusively by the call that created it.
type Proxy struct {
	conn  Conn
	obj   dbus.BusObject
	iface string
	facet Facet
	scope Scope
}

// Facet returns the facet the proxy is bound to.
func (p *Proxy) Facet() Facet { return p.facet }

// Scope returns the transport scope the proxy is bound to.
func (p *Proxy) Scope() Scope { return p.scope }

// Call invokes method on the bound facet synchronously and stores the
// reply values into rets in wire order.
func (p *Proxy) Call(ctx context.Context, method string, args []any, rets []any) error {
	call := p.obj.CallWithContext(ctx, p.iface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("bus: call %s.%s: %w", p.iface, method, call.Err)
	}
	if len(rets) == 0 {
		return nil
	}
	if err := call.Store(rets...); err != nil {
		return fmt.Errorf("bus: decode %s reply: %w", method, err)
	}
	return nil
}

// Close releases the proxy's private connection.
func (p *Proxy) Close() error {
	return p.conn.Close()
}
