package gqladapter

import (
	"context"
	"encoding/json"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/forbearing/coredb/metrics"
	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
	"github.com/forbearing/coredb/value"
)

// wireRequest is the JSON shape a string request value is parsed as
// (spec.md §4.12: "a string parsed as a GraphQL JSON request").
type wireRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

type parsedRequest struct {
	query         string
	variables     map[string]any
	operationName string
}

// Handle implements spec.md §4.12's full request/response shape: gating is
// the caller's responsibility (rpc.handleGraphQL checks GQL_SUPPORT before
// calling in); Handle parses request/options, resolves the schema via the
// session's namespace/database, executes, and serialises the result.
func Handle(ctx context.Context, conn rpc.Conn, request rpc.Value, options rpc.Value) (rpc.Value, error) {
	result, err := handle(ctx, conn, request, options)
	if metrics.GraphQLCallsTotal != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.GraphQLCallsTotal.WithLabelValues(outcome).Inc()
	}
	return result, err
}

func handle(ctx context.Context, conn rpc.Conn, request rpc.Value, options rpc.Value) (rpc.Value, error) {
	pretty, format, err := parseOptions(options)
	if err != nil {
		return rpc.Value{}, err
	}
	if format == "cbor" {
		return rpc.Value{}, rpcerr.ThrownErr("Cbor is not yet supported")
	}

	req, err := parseRequest(request)
	if err != nil {
		return rpc.Value{}, err
	}

	sess := conn.Session()
	var ns, db string
	if sess.Namespace != nil {
		ns = *sess.Namespace
	}
	if sess.Database != nil {
		db = *sess.Database
	}

	schemaAny, err := conn.SchemaCache().Get(ctx, ns, db)
	if err != nil {
		return rpc.Value{}, rpcerr.BadGQLConfigErr()
	}
	schema, ok := schemaAny.(*graphql.Schema)
	if !ok || schema == nil {
		return rpc.Value{}, rpcerr.BadGQLConfigErr()
	}

	result := schema.Exec(ctx, req.query, req.operationName, req.variables)

	var payload []byte
	if pretty {
		payload, err = json.MarshalIndent(result, "", "  ")
	} else {
		payload, err = json.Marshal(result)
	}
	if err != nil {
		return rpc.Value{}, rpcerr.ThrownErr("Serialization Error")
	}
	return value.Of(string(payload)), nil
}

func parseOptions(options rpc.Value) (pretty bool, format string, err error) {
	format = "json"
	if options.IsNoneOrNull() {
		return false, format, nil
	}
	obj, ok := options.Object()
	if !ok {
		return false, "", rpcerr.InvalidParamsErr("graphql: options must be an object")
	}
	if v, ok := obj.Get("pretty"); ok {
		if b, ok := v.Bool(); ok {
			pretty = b
		}
	}
	if v, ok := obj.Get("format"); ok {
		s, ok := v.String()
		if !ok || (s != "json" && s != "cbor") {
			return false, "", rpcerr.InvalidParamsErr(`graphql: format must be "json" or "cbor"`)
		}
		format = s
	}
	return pretty, format, nil
}

func parseRequest(request rpc.Value) (parsedRequest, error) {
	if s, ok := request.String(); ok {
		return parseRequestString(s)
	}
	obj, ok := request.Object()
	if !ok {
		return parsedRequest{}, rpcerr.InvalidParamsErr("graphql: request must be a string or an object")
	}
	return parseRequestObject(obj)
}

func parseRequestString(s string) (parsedRequest, error) {
	trimmed := make([]byte, 0, len(s))
	for _, b := range []byte(s) {
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		trimmed = append(trimmed, b)
		break
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []wireRequest
		if err := json.Unmarshal([]byte(s), &batch); err != nil {
			return parsedRequest{}, rpcerr.ParseErrorErr("graphql: %s", err)
		}
		if len(batch) != 1 {
			return parsedRequest{}, rpcerr.ParseErrorErr("graphql: batch requests are not supported")
		}
		return parsedRequest{query: batch[0].Query, variables: batch[0].Variables, operationName: batch[0].OperationName}, nil
	}

	var wr wireRequest
	if err := json.Unmarshal([]byte(s), &wr); err != nil {
		return parsedRequest{}, rpcerr.ParseErrorErr("graphql: %s", err)
	}
	return parsedRequest{query: wr.Query, variables: wr.Variables, operationName: wr.OperationName}, nil
}

func parseRequestObject(obj *value.Object) (parsedRequest, error) {
	queryVal, ok := obj.Get("query")
	if !ok {
		return parsedRequest{}, rpcerr.InvalidParamsErr("graphql: request object requires a query string")
	}
	query, ok := queryVal.String()
	if !ok {
		return parsedRequest{}, rpcerr.InvalidParamsErr("graphql: query must be a string")
	}

	var vars map[string]any
	if v, ok := firstPresent(obj, "variables", "vars"); ok {
		vobj, ok := v.Object()
		if !ok {
			return parsedRequest{}, rpcerr.InvalidParamsErr("graphql: variables must be an object")
		}
		vars = toGraphQLVariables(vobj)
	}

	var opName string
	if v, ok := firstPresent(obj, "operationName", "operation"); ok {
		s, _ := v.String()
		opName = s
	}

	return parsedRequest{query: query, variables: vars, operationName: opName}, nil
}

func firstPresent(obj *value.Object, keys ...string) (value.Value, bool) {
	for _, k := range keys {
		if v, ok := obj.Get(k); ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// toGraphQLVariables converts the internal value language into the plain
// Go maps/slices graph-gophers/graphql-go expects as variables.
func toGraphQLVariables(obj *value.Object) map[string]any {
	out := make(map[string]any, obj.Len())
	obj.Range(func(key string, v value.Value) { out[key] = toNative(v) })
	return out
}

func toNative(v value.Value) any {
	if v.IsNoneOrNull() {
		return nil
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	if s, ok := v.String(); ok {
		return s
	}
	if arr, ok := v.Array(); ok {
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = toNative(e)
		}
		return out
	}
	if obj, ok := v.Object(); ok {
		return toGraphQLVariables(obj)
	}
	return v.Raw()
}
