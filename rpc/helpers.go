package rpc

import "github.com/forbearing/coredb/rpcerr"

// firstRow unwraps the first statement response for a single-record result
// (spec.md §4.8 step 7: "if one, return its first row").
func firstRow(responses []Response) (Value, error) {
	if len(responses) == 0 {
		return NoneValue(), nil
	}
	first := responses[0]
	if first.Result.Err != nil {
		return Value{}, rpcerr.ThrownErr(first.Result.Err.Error())
	}
	if arr, ok := first.Result.Value.Array(); ok {
		if len(arr) == 0 {
			return NoneValue(), nil
		}
		return arr[0], nil
	}
	return first.Result.Value, nil
}

// fullArray returns every statement response's value as a single array
// (spec.md §4.8 step 7: "otherwise return the full array"; also used
// verbatim by Query's "returns the full array of statement results").
func fullArray(responses []Response) (Value, error) {
	out := make([]Value, 0, len(responses))
	for _, r := range responses {
		if r.Result.Err != nil {
			return Value{}, rpcerr.ThrownErr(r.Result.Err.Error())
		}
		out = append(out, r.Result.Value)
	}
	return Of(out), nil
}
