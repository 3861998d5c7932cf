// Package mlagent is the client facade for the on-device ML orchestration
// agent. Local processes use it to drive the agent's pipeline lifecycle,
// model registry, and shared resource registry over the bus without
// linking against the agent's internals:
//
//	client, err := mlagent.New(
//	    mlagent.WithLogger(logger),
//	)
//	if err != nil { ... }
//	version, err := client.RegisterModel(ctx, mlagent.RegisterModelRequest{
//	    Name: "mobilenet", Path: "/srv/models/mobilenet.tflite",
//	})
//
// Every operation is synchronous: it binds a fresh proxy to the owning
// facet (system bus first, then session bus), issues one remote call,
// releases the proxy, and returns. Nothing is cached and nothing is
// retried. The agent's operations are not guaranteed idempotent, so retry
// policy belongs to the caller. Results of get-style operations pass
// through packaged-path resolution before they are returned.
//
// The import graph enforces a strict no-cycle rule: the packages the root
// imports (internal/bus, internal/rpk) never import the root back. Public
// interfaces (Transport, Proxy, ResourceEnv) are standalone; the adapters
// bridging them to the internal implementations live here because this is
// the only file that sees both sides of the boundary.
package mlagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ainori-ai/mlagent/internal/bus"
	"github.com/ainori-ai/mlagent/internal/rpk"
)

// Client invokes agent operations. All methods are safe for concurrent
// use: each call owns its proxy exclusively, so concurrent callers never
// contend on client state.
type Client struct {
	transport Transport
	resolver  *rpk.Resolver
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a Client. No connection is attempted here; the agent is
// located per call, so a client constructed while the agent is down works
// as soon as the agent comes up.
func New(opts ...Option) (*Client, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := o.transport
	if transport == nil {
		scopes, err := busScopes(o.scope)
		if err != nil {
			return nil, err
		}
		transport = busTransport{binder: bus.NewBinder(bus.Config{
			BusName: o.busName,
			Scopes:  scopes,
			Logger:  logger,
		})}
	}

	var env rpk.Env = rpk.OSEnv{}
	if o.env != nil {
		env = envAdapter{env: o.env}
	}

	return &Client{
		transport: transport,
		resolver:  rpk.New(env),
		timeout:   o.callTimeout,
		logger:    logger,
	}, nil
}

// ── Call machinery ──────────────────────────────────────────────────────────

// call runs one operation end to end: bind a proxy to facet, issue the
// remote method with args, release the proxy, interpret the status. The
// agent answers status first in every reply; outs receive the remaining
// reply values in wire order.
func (c *Client) call(ctx context.Context, facet Facet, method string, args []any, outs ...any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	proxy, err := c.transport.Bind(ctx, facet)
	if err != nil {
		return fmt.Errorf("%s.%s: %w: %w", facet, method, ErrAgentUnavailable, err)
	}
	defer func() {
		if cerr := proxy.Close(); cerr != nil {
			c.logger.Debug("proxy close failed", "facet", facet.String(), "method", method, "error", cerr)
		}
	}()

	var status int32
	rets := append([]any{&status}, outs...)
	if err := proxy.Call(ctx, method, args, rets); err != nil {
		return fmt.Errorf("%s.%s: %w: %w", facet, method, ErrTransport, err)
	}
	if status != 0 {
		return &RemoteError{Facet: facet.String(), Method: method, Code: status}
	}

	c.logger.Debug("agent call", "facet", facet.String(), "method", method, "duration", time.Since(start))
	return nil
}

// callJSON is call for get-style operations whose payload is record JSON:
// the raw payload runs through packaged-path resolution before it is
// returned. A resolution failure fails the whole operation, because a
// payload with an unrewritten packaged path is unusable to the caller.
func (c *Client) callJSON(ctx context.Context, facet Facet, method string, args []any) (string, error) {
	var payload string
	if err := c.call(ctx, facet, method, args, &payload); err != nil {
		return "", err
	}

	resolved, err := c.resolver.Resolve(payload)
	if err != nil {
		if errors.Is(err, rpk.ErrRootUnavailable) {
			return "", fmt.Errorf("%s.%s: %w: %w", facet, method, ErrResourceRootUnavailable, err)
		}
		return "", fmt.Errorf("%s.%s: %w: %w", facet, method, ErrMalformedPayload, err)
	}
	return resolved, nil
}

// ── Adapters (defined here because this file imports both sides) ────────────

// busTransport adapts the internal binder to the public Transport.
type busTransport struct {
	binder *bus.Binder
}

func (t busTransport) Bind(ctx context.Context, facet Facet) (Proxy, error) {
	bf, err := busFacet(facet)
	if err != nil {
		return nil, err
	}
	proxy, err := t.binder.Bind(ctx, bf)
	if err != nil {
		return nil, err
	}
	return proxy, nil
}

func busFacet(f Facet) (bus.Facet, error) {
	switch f {
	case FacetPipeline:
		return bus.FacetPipeline, nil
	case FacetModel:
		return bus.FacetModel, nil
	case FacetResource:
		return bus.FacetResource, nil
	default:
		return 0, fmt.Errorf("mlagent: unknown facet %d", int(f))
	}
}

func busScopes(s Scope) ([]bus.Scope, error) {
	switch s {
	case ScopeAuto:
		return bus.DefaultScopes(), nil
	case ScopeSystem:
		return []bus.Scope{bus.ScopeSystem}, nil
	case ScopeSession:
		return []bus.Scope{bus.ScopeSession}, nil
	default:
		return nil, fmt.Errorf("mlagent: unknown scope %d", int(s))
	}
}

// envAdapter adapts a public ResourceEnv to the resolver's contract,
// translating the public not-packaged sentinel to the internal one.
type envAdapter struct {
	env ResourceEnv
}

func (a envAdapter) AppID() (string, error) {
	id, err := a.env.AppID()
	if err != nil {
		if errors.Is(err, ErrNotPackaged) {
			return "", rpk.ErrNotPackaged
		}
		return "", err
	}
	return id, nil
}

func (a envAdapter) ResourceRoot(resType string) (string, error) {
	return a.env.ResourceRoot(resType)
}
