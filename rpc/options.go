package rpc

import "github.com/forbearing/coredb/rpcerr"

// Statement Options Builder (§4, spec.md line 16 / 39): normalises the
// optional per-call data/opts arguments accepted by the CRUD methods into a
// neutral StatementOptions descriptor the synthesiser consumes. None/Null
// data always means "no data clause"; an object selects Content/Merge/Patch
// per the calling method's fixed shape, except Upsert/Update which read
// their clause out of an opts object instead.

// buildFixedOptions builds options for methods whose data clause is fixed by
// the method itself (Create, Merge, Relate).
// output is the method's default RETURN clause.
func buildFixedOptions(data Value, clause DataClause, output OutputClause) (StatementOptions, error) {
	opts := newStatementOptions()
	opts.Output = output
	if data.IsNoneOrNull() {
		return opts, nil
	}
	if _, ok := data.Object(); !ok {
		if _, ok := data.Array(); !ok {
			return opts, rpcerr.InvalidParamsErr("data must be an object or array")
		}
	}
	opts.Data = clause
	return opts, nil
}

// buildPatchOptions additionally honours a trailing diff bool (spec.md
// "Patch" row: Output is After or Diff when requested).
func buildPatchOptions(data Value, wantDiff Value) (StatementOptions, error) {
	opts := newStatementOptions()
	opts.Output = OutputAfter
	if diff, ok := wantDiff.Bool(); ok && diff {
		opts.Output = OutputDiff
	}
	if data.IsNoneOrNull() {
		return opts, rpcerr.InvalidParamsErr("patch requires a data argument")
	}
	opts.Data = DataPatch
	return opts, nil
}

// dataClauseKeys maps the opts-object key a caller used to request a data
// clause onto the corresponding DataClause, for the Upsert/Update family
// whose clause is "from opts" rather than fixed by the method.
var dataClauseKeys = map[string]DataClause{
	"content": DataContent,
	"merge":   DataMerge,
	"patch":   DataPatch,
	"replace": DataReplace,
	"unset":   DataUnset,
	"set":     DataSetList,
}

// buildOptsOptions builds options for Upsert/Update, whose data clause and
// output clause are both taken from an optional opts object: {content:...}
// | {merge:...} | {patch:...} | {replace:...} | {unset:[...]} | {set:{...}},
// plus an optional "where" condition and "diff" bool.
func buildOptsOptions(opts Value) (StatementOptions, error) {
	so := newStatementOptions()
	so.Output = OutputAfter
	if opts.IsNoneOrNull() {
		return so, nil
	}
	obj, ok := opts.Object()
	if !ok {
		return so, rpcerr.InvalidParamsErr("opts must be an object")
	}
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		switch key {
		case "where":
			so.Condition = v
			so.HasCond = true
		case "diff":
			if b, ok := v.Bool(); ok && b {
				so.Output = OutputDiff
			}
		default:
			clause, ok := dataClauseKeys[key]
			if !ok {
				return so, rpcerr.InvalidParamsErr("opts: unrecognised key %q", key)
			}
			so.Data = clause
		}
	}
	return so, nil
}
