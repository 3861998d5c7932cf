package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	args   []any
}

// stubObject records calls and answers from a scripted reply. The embedded
// interface covers the BusObject methods the binder never touches.
type stubObject struct {
	dbus.BusObject
	calls []recordedCall
	err   error
	body  []any
}

func (o *stubObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	o.calls = append(o.calls, recordedCall{method: method, args: args})
	return &dbus.Call{Err: o.err, Body: o.body}
}

type stubConn struct {
	obj    *stubObject
	closed int
}

func (c *stubConn) Object(string, dbus.ObjectPath) dbus.BusObject { return c.obj }

func (c *stubConn) Close() error {
	c.closed++
	return nil
}

func TestBinder_ScopeOrderFirstSuccessWins(t *testing.T) {
	okObj := &stubObject{}
	okConn := &stubConn{obj: okObj}

	var attempts []Scope
	b := NewBinder(Config{
		BusName: "x.test.Agent",
		Connect: func(s Scope) (Conn, error) {
			attempts = append(attempts, s)
			if s == ScopeSystem {
				return nil, errors.New("connection refused")
			}
			return okConn, nil
		},
	})

	p, err := b.Bind(context.Background(), FacetModel)
	require.NoError(t, err)

	assert.Equal(t, []Scope{ScopeSystem, ScopeSession}, attempts, "one attempt per scope, declared order")
	assert.Equal(t, ScopeSession, p.Scope())
	assert.Equal(t, FacetModel, p.Facet())

	// The only traffic so far is the name-owner probe.
	require.Len(t, okObj.calls, 1)
	assert.Equal(t, "org.freedesktop.DBus.GetNameOwner", okObj.calls[0].method)
	assert.Equal(t, []any{"x.test.Agent"}, okObj.calls[0].args)
}

func TestBinder_AllScopesFail(t *testing.T) {
	attempts := 0
	b := NewBinder(Config{
		Connect: func(Scope) (Conn, error) {
			attempts++
			return nil, errors.New("no bus daemon")
		},
	})

	p, err := b.Bind(context.Background(), FacetPipeline)
	assert.Nil(t, p, "no handle is produced on failure")
	assert.ErrorIs(t, err, ErrNoEndpoint)
	assert.Equal(t, 2, attempts)
}

func TestBinder_NameNotOwnedFallsThrough(t *testing.T) {
	// The system bus answers but the agent does not own its name there; the
	// probe connection must be closed before moving on.
	deadConn := &stubConn{obj: &stubObject{err: errors.New("name has no owner")}}
	okConn := &stubConn{obj: &stubObject{}}

	b := NewBinder(Config{
		Connect: func(s Scope) (Conn, error) {
			if s == ScopeSystem {
				return deadConn, nil
			}
			return okConn, nil
		},
	})

	p, err := b.Bind(context.Background(), FacetResource)
	require.NoError(t, err)
	assert.Equal(t, ScopeSession, p.Scope())
	assert.Equal(t, 1, deadConn.closed, "probe connection released")
	assert.Equal(t, 0, okConn.closed, "bound connection stays open for the call")
}

func TestBinder_UnknownFacet(t *testing.T) {
	attempts := 0
	b := NewBinder(Config{
		Connect: func(Scope) (Conn, error) {
			attempts++
			return nil, errors.New("unreachable")
		},
	})

	_, err := b.Bind(context.Background(), Facet(9))
	assert.Error(t, err)
	assert.Equal(t, 0, attempts, "no connection attempt for an unknown facet")
}

func TestProxy_CallStoresReplyInWireOrder(t *testing.T) {
	obj := &stubObject{body: []any{int32(0), "videotestsrc ! fakesink"}}
	conn := &stubConn{obj: obj}
	p := &Proxy{conn: conn, obj: obj, iface: "ai.ainori.MLAgent.Pipeline", facet: FacetPipeline, scope: ScopeSystem}

	var status int32
	var desc string
	err := p.Call(context.Background(), "GetPipeline", []any{"cam"}, []any{&status, &desc})
	require.NoError(t, err)

	assert.Equal(t, int32(0), status)
	assert.Equal(t, "videotestsrc ! fakesink", desc)

	require.Len(t, obj.calls, 1)
	assert.Equal(t, "ai.ainori.MLAgent.Pipeline.GetPipeline", obj.calls[0].method)
	assert.Equal(t, []any{"cam"}, obj.calls[0].args)
}

func TestProxy_CallDeliveryFailure(t *testing.T) {
	obj := &stubObject{err: errors.New("disconnected")}
	p := &Proxy{conn: &stubConn{obj: obj}, obj: obj, iface: "ai.ainori.MLAgent.Model", facet: FacetModel, scope: ScopeSession}

	var status int32
	err := p.Call(context.Background(), "Activate", []any{"m", uint32(1)}, []any{&status})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Activate")
}

func TestProxy_CloseReleasesConnection(t *testing.T) {
	conn := &stubConn{obj: &stubObject{}}
	p := &Proxy{conn: conn, obj: conn.obj, iface: "ai.ainori.MLAgent.Resource", facet: FacetResource, scope: ScopeSystem}

	require.NoError(t, p.Close())
	assert.Equal(t, 1, conn.closed)
}

func TestDial_UnknownScope(t *testing.T) {
	_, err := Dial(Scope(7))
	assert.Error(t, err)
}
