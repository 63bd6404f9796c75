package gqladapter

import (
	"context"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
	"github.com/forbearing/coredb/value"
)

type fakeAuth struct{}

func (fakeAuth) Signup(context.Context, *rpc.Session, rpc.Value) (rpc.Value, error) {
	return rpc.NoneValue(), nil
}
func (fakeAuth) Signin(context.Context, *rpc.Session, rpc.Value) (rpc.Value, error) {
	return rpc.NoneValue(), nil
}
func (fakeAuth) VerifyToken(context.Context, *rpc.Session, string) error { return nil }
func (fakeAuth) Clear(context.Context, *rpc.Session)                    {}

type fakeEngine struct{}

func (fakeEngine) Process(rpc.Statement, *rpc.Session, rpc.Vars) ([]rpc.Response, error) {
	return nil, nil
}
func (fakeEngine) Execute(string, *rpc.Session, rpc.Vars) ([]rpc.Response, error) { return nil, nil }
func (fakeEngine) Compute(rpc.Value, *rpc.Session, rpc.Vars) (rpc.Value, error) {
	return rpc.NoneValue(), nil
}
func (fakeEngine) AllowsMethod(rpc.Method) bool { return true }

type fakeConn struct {
	sess  *rpc.Session
	cache rpc.SchemaCache
}

func (c *fakeConn) Engine() rpc.Engine           { return fakeEngine{} }
func (c *fakeConn) Session() *rpc.Session        { return c.sess }
func (c *fakeConn) Vars() rpc.Vars               { return rpc.NewVars() }
func (c *fakeConn) LiveHooks() rpc.LiveHooks     { return rpc.NoLiveHooks }
func (c *fakeConn) SchemaCache() rpc.SchemaCache { return c.cache }
func (c *fakeConn) Auth() rpc.Auth               { return fakeAuth{} }
func (c *fakeConn) LQSupport() bool              { return false }
func (c *fakeConn) GQLSupport() bool             { return true }
func (c *fakeConn) Version() rpc.Value           { return rpc.Of("test") }

func newFakeConn(cache rpc.SchemaCache) *fakeConn {
	return &fakeConn{sess: rpc.NewSession("test", false), cache: cache}
}

func pingCache(t *testing.T) *SchemaCache {
	t.Helper()
	schema, err := graphql.ParseSchema(schemaDef, pingResolver{})
	require.NoError(t, err)
	return NewSchemaCache(func(ctx context.Context, namespace, database string) (*graphql.Schema, error) {
		return schema, nil
	})
}

func TestHandleExecutesStringRequest(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	v, err := Handle(context.Background(), conn, rpc.Of(`{"query":"{ ping }"}`), rpc.NoneValue())
	require.NoError(t, err)
	s, ok := v.String()
	require.True(t, ok)
	require.Contains(t, s, "pong")
}

func TestHandleExecutesObjectRequest(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	req := value.NewObject()
	req.Set("query", rpc.Of("{ ping }"))
	v, err := Handle(context.Background(), conn, rpc.Of(req), rpc.NoneValue())
	require.NoError(t, err)
	s, ok := v.String()
	require.True(t, ok)
	require.Contains(t, s, "pong")
}

func TestHandleRejectsCborFormat(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	opts := value.NewObject()
	opts.Set("format", rpc.Of("cbor"))
	_, err := Handle(context.Background(), conn, rpc.Of(`{"query":"{ ping }"}`), rpc.Of(opts))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.Thrown, e.Code())
}

func TestHandleRejectsUnknownFormat(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	opts := value.NewObject()
	opts.Set("format", rpc.Of("xml"))
	_, err := Handle(context.Background(), conn, rpc.Of(`{"query":"{ ping }"}`), rpc.Of(opts))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleRejectsMalformedRequestType(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	_, err := Handle(context.Background(), conn, rpc.Of(42), rpc.NoneValue())
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleRequestObjectRequiresQuery(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	req := value.NewObject()
	_, err := Handle(context.Background(), conn, rpc.Of(req), rpc.NoneValue())
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleBadSchemaCacheYieldsBadGQLConfig(t *testing.T) {
	cache := NewSchemaCache(func(ctx context.Context, namespace, database string) (*graphql.Schema, error) {
		return nil, nil
	})
	conn := newFakeConn(cache)
	_, err := Handle(context.Background(), conn, rpc.Of(`{"query":"{ ping }"}`), rpc.NoneValue())
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.BadGQLConfig, e.Code())
}

func TestHandleBatchRequestsUnsupported(t *testing.T) {
	conn := newFakeConn(pingCache(t))
	_, err := Handle(context.Background(), conn, rpc.Of(`[{"query":"{ ping }"},{"query":"{ ping }"}]`), rpc.NoneValue())
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.ParseError, e.Code())
}
