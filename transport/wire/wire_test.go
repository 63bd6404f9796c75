package wire

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
)

func TestDecodeValueEmptyRawYieldsNone(t *testing.T) {
	v, err := DecodeValue(nil)
	require.NoError(t, err)
	require.True(t, v.IsNone())
}

func TestDecodeValueNullYieldsNullValue(t *testing.T) {
	v, err := DecodeValue(json.RawMessage("null"))
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestDecodeValueCoercesIdentifierStringToTable(t *testing.T) {
	v, err := DecodeValue(json.RawMessage(`"person"`))
	require.NoError(t, err)
	tbl, ok := v.Table()
	require.True(t, ok)
	require.Equal(t, "person", tbl.Name)
}

func TestDecodeValueLeavesNonIdentifierStringAlone(t *testing.T) {
	v, err := DecodeValue(json.RawMessage(`"person:tobie"`))
	require.NoError(t, err)
	_, ok := v.Table()
	require.False(t, ok)
	s, ok := v.String()
	require.True(t, ok)
	require.Equal(t, "person:tobie", s)
}

func TestDecodeValueIntegerStaysInteger(t *testing.T) {
	v, err := DecodeValue(json.RawMessage(`42`))
	require.NoError(t, err)
	i, ok := v.Raw().(int64)
	require.True(t, ok)
	require.Equal(t, int64(42), i)
}

func TestDecodeValueFloatWhenNonIntegral(t *testing.T) {
	v, err := DecodeValue(json.RawMessage(`3.5`))
	require.NoError(t, err)
	f, ok := v.Raw().(float64)
	require.True(t, ok)
	require.Equal(t, 3.5, f)
}

func TestDecodeValueObjectAndArray(t *testing.T) {
	v, err := DecodeValue(json.RawMessage(`{"a":[1,"b",false,null]}`))
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)
	inner, ok := obj.Get("a")
	require.True(t, ok)
	arr, ok := inner.Array()
	require.True(t, ok)
	require.Len(t, arr, 4)
}

func TestDecodeValueRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeValue(json.RawMessage(`{not json`))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.ParseError, e.Code())
}

func TestDecodeArgsDecodesEachPositionally(t *testing.T) {
	args, err := DecodeArgs([]json.RawMessage{json.RawMessage(`"x"`), json.RawMessage(`1`)})
	require.NoError(t, err)
	require.Len(t, args, 2)
	i, ok := args[1].Raw().(int64)
	require.True(t, ok)
	require.Equal(t, int64(1), i)
}

func TestEncodeValueRoundTripsPrimitives(t *testing.T) {
	require.Nil(t, EncodeValue(rpc.NoneValue()))
	require.Nil(t, EncodeValue(rpc.NullValue()))
	require.Equal(t, "hi", EncodeValue(rpc.Of("hi")))
	require.Equal(t, true, EncodeValue(rpc.Of(true)))
}

func TestEncodeValueTableAndThing(t *testing.T) {
	require.Equal(t, "person", EncodeValue(rpc.Of(rpc.Table{Name: "person"})))
	got := EncodeValue(rpc.Of(rpc.Thing{Table: "person", ID: "tobie"}))
	m, ok := got.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "person", m["tb"])
	require.Equal(t, "tobie", m["id"])
}

func TestEncodeValueArrayAndObject(t *testing.T) {
	arr := EncodeValue(rpc.Of([]rpc.Value{rpc.Of("a"), rpc.Of(int64(1))}))
	s, ok := arr.([]any)
	require.True(t, ok)
	require.Len(t, s, 2)
}

func TestEncodeErrorMapsTaxonomyCode(t *testing.T) {
	body := EncodeError(rpcerr.InvalidParamsErr("bad arg"))
	require.Equal(t, string(rpcerr.InvalidParams), body.Code)

	body = EncodeError(errors.New("plain"))
	require.Equal(t, string(rpcerr.InternalError), body.Code)
}
