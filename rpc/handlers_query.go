package rpc

import (
	"context"
	"strings"

	"github.com/forbearing/coredb/rpcerr"
)

// handleQuery implements spec.md §4.9: Query(query, vars?). query is either
// a pre-parsed statement tree or a source string; vars, if present, is an
// object merged on top of the session variable map. Routes through the
// inner-query path and returns the full array of statement results.
func handleQuery(ctx context.Context, conn Conn, args []Value) (Value, error) {
	queryArg, varsArg, err := needsOneOrTwo("query", args)
	if err != nil {
		return Value{}, err
	}

	vars := conn.Vars()
	if !varsArg.IsNone() {
		if !varsArg.IsNull() {
			obj, ok := varsArg.Object()
			if !ok {
				return Value{}, rpcerr.InvalidParamsErr("query: vars must be an object")
			}
			extra := NewVars()
			obj.Range(func(k string, v Value) { extra.Set(k, v) })
			vars = vars.Merge(extra)
		}
	}

	var responses []Response
	switch {
	case func() bool { _, ok := queryArg.Query(); return ok }():
		q, _ := queryArg.Query()
		for _, stmt := range q.Statements {
			resp, err := runText(ctx, conn, stmt.Text, vars)
			if err != nil {
				return Value{}, err
			}
			responses = append(responses, resp...)
		}
	default:
		text, ok := queryArg.String()
		if !ok {
			return Value{}, rpcerr.InvalidParamsErr("query: expected a pre-parsed statement tree or a string")
		}
		responses, err = runText(ctx, conn, text, vars)
		if err != nil {
			return Value{}, err
		}
	}
	return fullArray(responses)
}

// handleRun implements spec.md §4.10: Run(name, version?, args?). The name
// prefix selects invocation kind: fn:: user-defined function, ml:: model
// invocation (requires version), otherwise a built-in function.
func handleRun(ctx context.Context, conn Conn, args []Value) (Value, error) {
	nameArg, versionArg, argsArg, err := needsOneTwoOrThree("run", args)
	if err != nil {
		return Value{}, err
	}
	name, ok := nameArg.String()
	if !ok {
		return Value{}, rpcerr.InvalidParamsErr("run: name must be a string")
	}
	if strings.HasPrefix(name, "ml::") && versionArg.IsNone() {
		return Value{}, rpcerr.InvalidParamsErr("run: ml:: invocation requires a version")
	}

	callArgs := argsArg
	if callArgs.IsNoneOrNull() {
		callArgs = Of([]Value{})
	} else if _, ok := callArgs.Array(); !ok {
		return Value{}, rpcerr.InvalidParamsErr("run: args must be an array")
	}

	stmt := Statement{Op: OpRun, RunName: name, RunVersion: versionArg, RunArgs: callArgs}
	resp, err := runStatement(ctx, conn, stmt, conn.Vars())
	if err != nil {
		return Value{}, err
	}
	if len(resp) == 0 {
		return NoneValue(), nil
	}
	if resp[0].Result.Err != nil {
		return Value{}, rpcerr.ThrownErr(resp[0].Result.Err.Error())
	}
	return resp[0].Result.Value, nil
}

// handleVersion implements spec.md §4.11.
func handleVersion(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if len(args) > 0 {
		return Value{}, rpcerr.InvalidParamsErr("version takes no arguments")
	}
	return conn.Version(), nil
}
