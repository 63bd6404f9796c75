package embedded

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
)

type fakeEngine struct {
	processResp []rpc.Response
}

func (e *fakeEngine) Process(rpc.Statement, *rpc.Session, rpc.Vars) ([]rpc.Response, error) {
	return e.processResp, nil
}
func (e *fakeEngine) Execute(string, *rpc.Session, rpc.Vars) ([]rpc.Response, error) {
	return nil, nil
}
func (e *fakeEngine) Compute(rpc.Value, *rpc.Session, rpc.Vars) (rpc.Value, error) {
	return rpc.NoneValue(), nil
}
func (e *fakeEngine) AllowsMethod(rpc.Method) bool { return true }

func TestNewDefaultsRemoteAddr(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{}})
	require.Equal(t, "embedded", c.Session().RemoteAddr)
}

func TestNewHonoursExplicitRemoteAddr(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{}, RemoteAddr: "127.0.0.1:9999"})
	require.Equal(t, "127.0.0.1:9999", c.Session().RemoteAddr)
}

func TestCallDispatchesPing(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{}})
	v, err := c.Call(context.Background(), nil, rpc.Ping, nil)
	require.NoError(t, err)
	require.True(t, v.IsNone())
}

func TestCallImmutableRejectsMutatingMethod(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{}})
	_, err := c.CallImmutable(context.Background(), nil, rpc.Set, []rpc.Value{rpc.Of("x"), rpc.Of(1)})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.MethodNotFound, e.Code())
}

func TestOnLivePushesNotification(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{}, LQSupport: true})
	id := rpc.Of("some-id")
	c.OnLive(context.Background(), id)

	select {
	case n := <-c.Notifications():
		require.Equal(t, "live", n.Kind)
		require.Equal(t, id, n.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
}

func TestOnKillRespectsContextCancellation(t *testing.T) {
	// NotifyBuf is 0 with LQSupport false, so the channel is unbuffered and
	// a cancelled context must make OnKill return instead of blocking
	// forever on a send nobody is reading.
	c := New(Options{Engine: &fakeEngine{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.OnKill(ctx, rpc.Of("x"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnKill did not respect context cancellation")
	}
}

func TestCallSelectRoundTripsThroughFakeEngine(t *testing.T) {
	c := New(Options{Engine: &fakeEngine{processResp: []rpc.Response{
		{Result: rpc.Result{Value: rpc.Of([]rpc.Value{})}},
	}}})
	v, err := c.Call(context.Background(), nil, rpc.Select, []rpc.Value{rpc.Of("person")})
	require.NoError(t, err)
	arr, ok := v.Array()
	require.True(t, ok)
	require.Empty(t, arr)
}
