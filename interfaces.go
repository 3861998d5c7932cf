package mlagent

import "context"

// Transport produces single-use proxies to agent facets.
// When provided via WithTransport, replaces the built-in D-Bus binder.
// This is the seam for tests and for embedders whose platform reaches the
// agent over something other than a message bus. Uses only public types,
// no internal package imports; New() wraps the built-in binder in an
// adapter.
type Transport interface {
	// Bind resolves a live proxy to the facet, or fails when the agent is
	// unreachable. Each call must yield a fresh proxy: the client binds,
	// calls, and releases per operation and never caches handles.
	Bind(ctx context.Context, facet Facet) (Proxy, error)
}

// Proxy is a live handle to one bound facet. It is owned exclusively by
// the operation that obtained it: exactly one Call, then exactly one
// Close, on every path.
type Proxy interface {
	// Call invokes a facet method synchronously. args are marshaled in
	// declaration order; reply values are stored into rets in wire order.
	Call(ctx context.Context, method string, args []any, rets []any) error

	// Close releases the underlying connection.
	Close() error
}

// ResourceEnv answers the host-environment queries behind packaged-path
// resolution. When provided via WithResourceEnv, replaces the default
// environment that reads the packaging launcher's variables. Both queries
// may fail; failures surface as operation errors, never silently.
type ResourceEnv interface {
	// AppID returns the packaged-application identity of this process, or
	// ErrNotPackaged when running outside a packaged application. The
	// client probes this on every get-style call; packaging context is
	// only evaluable at call time.
	AppID() (string, error)

	// ResourceRoot returns the installed root directory for the resource
	// class named by a packaged record's res_type.
	ResourceRoot(resType string) (string, error)
}
