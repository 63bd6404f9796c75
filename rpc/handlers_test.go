package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpcerr"
)

func TestHandleUseAssignsAndClearsNamespace(t *testing.T) {
	conn := newFakeConn()
	_, err := handleUse(context.Background(), conn, []Value{Of("test"), Of("main")})
	require.NoError(t, err)
	require.NotNil(t, conn.session.Namespace)
	require.Equal(t, "test", *conn.session.Namespace)
	require.NotNil(t, conn.session.Database)
	require.Equal(t, "main", *conn.session.Database)

	// Clearing the namespace clears the database too.
	_, err = handleUse(context.Background(), conn, []Value{NullValue(), NoneValue()})
	require.NoError(t, err)
	require.Nil(t, conn.session.Namespace)
	require.Nil(t, conn.session.Database)
}

func TestHandleUseRejectsNonStringNonNullNone(t *testing.T) {
	conn := newFakeConn()
	_, err := handleUse(context.Background(), conn, []Value{Of(42), NoneValue()})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleSetRemovesVariableWhenEvaluationYieldsNone(t *testing.T) {
	conn := newFakeConn()
	conn.engine.computeVal = NoneValue()
	conn.vars.Set("x", Of(1))

	_, err := handleSet(context.Background(), conn, []Value{Of("x"), Of(5)})
	require.NoError(t, err)
	_, ok := conn.vars["x"]
	require.False(t, ok, "evaluating to None must remove the variable")
}

func TestHandleSetStoresEvaluatedValue(t *testing.T) {
	conn := newFakeConn()
	conn.engine.computeVal = Of(42)

	_, err := handleSet(context.Background(), conn, []Value{Of("x"), Of(5)})
	require.NoError(t, err)
	require.Equal(t, Of(42), conn.vars["x"])
}

func TestHandleSetRejectsReservedName(t *testing.T) {
	conn := newFakeConn()
	_, err := handleSet(context.Background(), conn, []Value{Of("auth"), Of(1)})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleUnsetIsNoopWhenAbsent(t *testing.T) {
	conn := newFakeConn()
	_, err := handleUnset(context.Background(), conn, []Value{Of("nope")})
	require.NoError(t, err)
}

func TestHandleLiveRequiresLQSupport(t *testing.T) {
	conn := newFakeConn()
	conn.lqSupport = false
	_, err := handleLive(context.Background(), conn, []Value{Of("person")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.BadLQConfig, e.Code())
}

func TestHandleLiveSynthesisesDiffOutput(t *testing.T) {
	conn := newFakeConn()
	conn.lqSupport = true
	conn.engine.processResp = []Response{{Result: Result{Value: Of([]Value{Of("id")})}}}

	_, err := handleLive(context.Background(), conn, []Value{Of("person"), Of(true)})
	require.NoError(t, err)
	require.Equal(t, OutputDiff, conn.engine.lastStmt.Options.Output)
	require.Equal(t, OpLive, conn.engine.lastStmt.Op)
}

func TestHandleKillRequiresLQSupport(t *testing.T) {
	conn := newFakeConn()
	_, err := handleKill(context.Background(), conn, []Value{Of("some-uuid")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.BadLQConfig, e.Code())
}

func TestHandleVersionReturnsConnVersion(t *testing.T) {
	conn := newFakeConn()
	v, err := handleVersion(context.Background(), conn, nil)
	require.NoError(t, err)
	require.Equal(t, conn.version, v)
}

func TestHandleVersionRejectsArguments(t *testing.T) {
	conn := newFakeConn()
	_, err := handleVersion(context.Background(), conn, []Value{Of(1)})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleRunRequiresVersionForMLPrefix(t *testing.T) {
	conn := newFakeConn()
	_, err := handleRun(context.Background(), conn, []Value{Of("ml::classify")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleRunDefaultsArgsToEmptyArray(t *testing.T) {
	conn := newFakeConn()
	conn.engine.processResp = []Response{{Result: Result{Value: Of("ok")}}}
	v, err := handleRun(context.Background(), conn, []Value{Of("fn::greet")})
	require.NoError(t, err)
	require.Equal(t, Of("ok"), v)
	arr, ok := conn.engine.lastStmt.RunArgs.Array()
	require.True(t, ok)
	require.Empty(t, arr)
}

func TestHandleRunRejectsNonArrayArgs(t *testing.T) {
	conn := newFakeConn()
	_, err := handleRun(context.Background(), conn, []Value{Of("fn::greet"), NoneValue(), Of("not-an-array")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleInfoReturnsNoneWhenUnauthenticated(t *testing.T) {
	conn := newFakeConn()
	v, err := handleInfo(context.Background(), conn, nil)
	require.NoError(t, err)
	require.True(t, v.IsNone())
}

func TestHandleInfoReturnsAuthenticatedRecord(t *testing.T) {
	conn := newFakeConn()
	conn.session.Auth = fakePrincipal{thing: Thing{Table: "user", ID: "u1"}}
	row := Of("the-authenticated-row")
	conn.engine.processResp = []Response{{Result: Result{Value: Of([]Value{row})}}}

	v, err := handleInfo(context.Background(), conn, nil)
	require.NoError(t, err)
	require.Equal(t, row, v)

	require.Equal(t, OpSelect, conn.engine.lastStmt.Op)
	param, ok := conn.engine.lastStmt.What.Raw().(Param)
	require.True(t, ok, "What must be synthesised as a Param, not a literal table")
	require.Equal(t, "auth", param.Name)
}

func TestHandleInfoRejectsArguments(t *testing.T) {
	conn := newFakeConn()
	_, err := handleInfo(context.Background(), conn, []Value{Of(1)})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestHandleInvalidateClearsAuth(t *testing.T) {
	conn := newFakeConn()
	conn.session.Auth = "somebody"
	_, err := handleInvalidate(context.Background(), conn, nil)
	require.NoError(t, err)
	require.Nil(t, conn.session.Auth)
}

func TestCrudUnwrapEmptyResponsesOneTrueReturnsNone(t *testing.T) {
	v, err := crudUnwrap(nil, true)
	require.NoError(t, err)
	require.True(t, v.IsNone())
}

func TestCrudUnwrapEmptyResponsesOneFalseReturnsEmptyArray(t *testing.T) {
	v, err := crudUnwrap(nil, false)
	require.NoError(t, err)
	arr, ok := v.Array()
	require.True(t, ok)
	require.Empty(t, arr)
}

func TestCrudUnwrapPropagatesExecutorError(t *testing.T) {
	_, err := crudUnwrap([]Response{{Result: Result{Err: rpcerr.ThrownErr("boom")}}}, true)
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.Thrown, e.Code())
}

func TestCrudUnwrapOneTrueTakesFirstArrayElement(t *testing.T) {
	v, err := crudUnwrap([]Response{{Result: Result{Value: Of([]Value{Of("a"), Of("b")})}}}, true)
	require.NoError(t, err)
	require.Equal(t, Of("a"), v)
}
