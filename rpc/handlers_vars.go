package rpc

import (
	"context"

	"github.com/forbearing/coredb/rpcerr"
)

// handleSet implements spec.md §4.6: Set(key, value?). value is evaluated
// against the query engine's compute() path using the current variable map
// augmented with key -> None, to prevent self-reference during evaluation.
// If evaluation yields None, the variable is removed; otherwise stored.
func handleSet(ctx context.Context, conn Conn, args []Value) (Value, error) {
	keyArg, valueArg, err := needsOneOrTwo("set", args)
	if err != nil {
		return Value{}, err
	}
	key, ok := keyArg.String()
	if !ok {
		return Value{}, rpcerr.InvalidParamsErr("set: key must be a string")
	}
	if IsReserved(key) {
		return Value{}, rpcerr.InvalidParamsErr("set: %q is a reserved variable name", key)
	}

	sess := conn.Session()
	vars := conn.Vars()
	shadowed := vars.Clone()
	shadowed.Set(key, NoneValue())

	evaluated, err := conn.Engine().Compute(valueArg, sess, shadowed)
	if err != nil {
		return Value{}, rpcerr.ThrownErr(err.Error())
	}
	if evaluated.IsNone() {
		vars.Unset(key)
	} else {
		vars.Set(key, evaluated)
	}
	return NullValue(), nil
}

// handleUnset implements spec.md §4.6: Unset(key); no error if absent.
func handleUnset(ctx context.Context, conn Conn, args []Value) (Value, error) {
	keyArg, err := needsOne("unset", args)
	if err != nil {
		return Value{}, err
	}
	key, ok := keyArg.String()
	if !ok {
		return Value{}, rpcerr.InvalidParamsErr("unset: key must be a string")
	}
	conn.Vars().Unset(key)
	return NullValue(), nil
}
