package rpc

import "github.com/forbearing/coredb/rpcerr"

// Argument Extractor (§4.2): pops positional arguments from a heterogeneous
// value array, padding missing trailing positions with None and rejecting
// extra positional arguments with InvalidParams. Type checks beyond arity
// are the handlers' responsibility.

func extraArgsErr(method string, got, want int) error {
	return rpcerr.InvalidParamsErr("%s: expected at most %d argument(s), got %d", method, want, got)
}

func needsOne(method string, args []Value) (Value, error) {
	if len(args) > 1 {
		return Value{}, extraArgsErr(method, len(args), 1)
	}
	if len(args) == 0 {
		return NoneValue(), nil
	}
	return args[0], nil
}

func needsOneOrTwo(method string, args []Value) (Value, Value, error) {
	if len(args) > 2 {
		return Value{}, Value{}, extraArgsErr(method, len(args), 2)
	}
	a := pad(args, 0)
	b := pad(args, 1)
	return a, b, nil
}

func needsTwo(method string, args []Value) (Value, Value, error) {
	if len(args) > 2 {
		return Value{}, Value{}, extraArgsErr(method, len(args), 2)
	}
	return pad(args, 0), pad(args, 1), nil
}

func needsOneTwoOrThree(method string, args []Value) (Value, Value, Value, error) {
	if len(args) > 3 {
		return Value{}, Value{}, Value{}, extraArgsErr(method, len(args), 3)
	}
	return pad(args, 0), pad(args, 1), pad(args, 2), nil
}

func needsThreeOrFour(method string, args []Value) (Value, Value, Value, Value, error) {
	if len(args) > 4 {
		return Value{}, Value{}, Value{}, Value{}, extraArgsErr(method, len(args), 4)
	}
	return pad(args, 0), pad(args, 1), pad(args, 2), pad(args, 3), nil
}

func pad(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return NoneValue()
}
