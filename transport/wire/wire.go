// Package wire is the JSON codec shared by the websocket and HTTP
// transports: it turns wire-format request bodies into rpc.Value
// arguments and rpc.Value results back into JSON-marshalable data. The
// dispatch core itself never depends on a wire format (spec.md §1: the
// core is transport-agnostic); this package is where one gets chosen.
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
	"github.com/forbearing/coredb/value"
)

// Request is the envelope both transports decode: a method name, its
// positional arguments, and a caller-supplied id echoed back on the
// matching Response so callers can correlate out-of-order replies
// (live-query notifications arrive interleaved with call results).
type Request struct {
	ID     json.RawMessage   `json:"id,omitempty"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Response is the envelope both transports encode.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// Notify is the envelope live-query push notifications are encoded as;
// it carries no id since it is not a reply to any particular request.
type Notify struct {
	Notify string `json:"notify"`
	ID     any    `json:"id"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeArgs turns a request's raw param slice into rpc.Values.
func DecodeArgs(params []json.RawMessage) ([]rpc.Value, error) {
	out := make([]rpc.Value, len(params))
	for i, raw := range params {
		v, err := DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DecodeValue turns a single raw JSON value into an rpc.Value, applying
// value.CouldBeTable so bare identifier strings are coerced the same way
// the Argument Extractor expects (spec.md §4.2).
func DecodeValue(raw json.RawMessage) (rpc.Value, error) {
	if len(raw) == 0 {
		return rpc.NoneValue(), nil
	}
	var native any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&native); err != nil {
		return rpc.Value{}, rpcerr.ParseErrorErr("wire: %s", err)
	}
	return rpc.CouldBeTable(fromNative(native)), nil
}

func fromNative(v any) rpc.Value {
	switch t := v.(type) {
	case nil:
		return rpc.NullValue()
	case string:
		return rpc.Of(t)
	case bool:
		return rpc.Of(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return rpc.Of(i)
		}
		f, _ := t.Float64()
		return rpc.Of(f)
	case []any:
		arr := make([]rpc.Value, len(t))
		for i, e := range t {
			arr[i] = fromNative(e)
		}
		return rpc.Of(arr)
	case map[string]any:
		obj := value.NewObject()
		for k, e := range t {
			obj.Set(k, fromNative(e))
		}
		return rpc.Of(obj)
	default:
		return rpc.Of(t)
	}
}

// EncodeValue turns an rpc.Value into plain data json.Marshal can
// serialise, the inverse of fromNative plus handling for the
// value-language's own tagged types (None/Null/Table/Thing/UUID).
func EncodeValue(v rpc.Value) any {
	if v.IsNone() {
		return nil
	}
	if v.IsNull() {
		return nil
	}
	if s, ok := v.String(); ok {
		return s
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	if arr, ok := v.Array(); ok {
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = EncodeValue(e)
		}
		return out
	}
	if obj, ok := v.Object(); ok {
		out := make(map[string]any, obj.Len())
		obj.Range(func(key string, e rpc.Value) { out[key] = EncodeValue(e) })
		return out
	}
	if t, ok := v.Table(); ok {
		return t.Name
	}
	if th, ok := v.Thing(); ok {
		return map[string]any{"tb": th.Table, "id": th.ID}
	}
	if id, ok := v.UUID(); ok {
		return id.String()
	}
	return v.Raw()
}

// EncodeError maps an rpc error onto the wire's code/message shape,
// matching spec.md §7's closed error taxonomy.
func EncodeError(err error) *ErrorBody {
	if e, ok := rpcerr.As(err); ok {
		return &ErrorBody{Code: string(e.Code()), Message: e.Error()}
	}
	return &ErrorBody{Code: string(rpcerr.InternalError), Message: err.Error()}
}
