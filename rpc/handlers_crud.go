package rpc

import (
	"context"

	"github.com/forbearing/coredb/rpcerr"
)

// crudUnwrap implements spec.md §4.8 step 7: "Unwrap the first response: if
// one, return its first row; otherwise return the full array."
func crudUnwrap(resp []Response, one bool) (Value, error) {
	if len(resp) == 0 {
		if one {
			return NoneValue(), nil
		}
		return Of([]Value{}), nil
	}
	r := resp[0]
	if r.Result.Err != nil {
		return Value{}, rpcerr.ThrownErr(r.Result.Err.Error())
	}
	if one {
		if arr, ok := r.Result.Value.Array(); ok {
			if len(arr) == 0 {
				return NoneValue(), nil
			}
			return arr[0], nil
		}
		return r.Result.Value, nil
	}
	return r.Result.Value, nil
}

func process(conn Conn, stmt Statement) ([]Response, error) {
	resp, err := conn.Engine().Process(stmt, conn.Session(), conn.Vars())
	if err != nil {
		return nil, rpcerr.ThrownErr(err.Error())
	}
	return resp, nil
}

// handleSelect implements spec.md §4.8: SELECT * FROM $what.
func handleSelect(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, err := needsOne("select", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	resp, err := process(conn, Statement{Op: OpSelect, What: what})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleCreate implements spec.md §4.8: CREATE $what [CONTENT $data].
func handleCreate(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, err := needsOneOrTwo("create", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	// Create also considers a bare table reference single (spec.md §4.8
	// step 3), unlike every other CRUD method.
	_, isTable := what.Table()
	one := what.IsSingle() || isTable

	opts, err := buildFixedOptions(dataArg, DataContent, OutputAfter)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpCreate, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleInsert implements spec.md §4.8: INSERT [INTO $what] $data.
func handleInsert(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, err := needsTwo("insert", args)
	if err != nil {
		return Value{}, err
	}
	if dataArg.IsNoneOrNull() {
		return Value{}, rpcerr.InvalidParamsErr("insert: data is required")
	}
	what := CouldBeTable(whatArg)
	opts := newStatementOptions()
	opts.Output = OutputAfter

	resp, err := process(conn, Statement{Op: OpInsert, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, false)
}

// handleInsertRelation implements spec.md §4.8: INSERT RELATION [INTO
// $what] $data; what must be None/Null/string/table.
func handleInsertRelation(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, err := needsTwo("insert_relation", args)
	if err != nil {
		return Value{}, err
	}
	if dataArg.IsNoneOrNull() {
		return Value{}, rpcerr.InvalidParamsErr("insert_relation: data is required")
	}
	what := CouldBeTable(whatArg)
	if !what.IsNoneOrNull() {
		if _, ok := what.Table(); !ok {
			if _, ok := what.String(); !ok {
				return Value{}, rpcerr.InvalidParamsErr("insert_relation: what must be None, Null, a string, or a table")
			}
		}
	}

	opts := newStatementOptions()
	opts.Output = OutputAfter
	resp, err := process(conn, Statement{Op: OpInsertRelation, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, false)
}

// handleUpsert implements spec.md §4.8: UPSERT $what, with data clause and
// output clause taken from opts.
func handleUpsert(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, optsArg, err := needsOneTwoOrThree("upsert", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	opts, err := buildOptsOptions(optsArg)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpUpsert, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleUpdate implements spec.md §4.8: UPDATE $what, with data clause and
// output clause taken from opts.
func handleUpdate(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, optsArg, err := needsOneTwoOrThree("update", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	opts, err := buildOptsOptions(optsArg)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpUpdate, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleMerge implements spec.md §4.8: UPDATE $what [MERGE $data].
func handleMerge(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, err := needsOneOrTwo("merge", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	opts, err := buildFixedOptions(dataArg, DataMerge, OutputAfter)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpMerge, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handlePatch implements spec.md §4.8: UPDATE $what PATCH $data, with
// output After or Diff when a trailing diff bool is truthy.
func handlePatch(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, dataArg, diffArg, err := needsOneTwoOrThree("patch", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	opts, err := buildPatchOptions(dataArg, diffArg)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpPatch, What: what, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleDelete implements spec.md §4.8: DELETE $what, RETURN BEFORE.
func handleDelete(ctx context.Context, conn Conn, args []Value) (Value, error) {
	whatArg, err := needsOne("delete", args)
	if err != nil {
		return Value{}, err
	}
	what := CouldBeTable(whatArg)
	one := what.IsSingle()

	opts := newStatementOptions()
	opts.Output = OutputBefore
	resp, err := process(conn, Statement{Op: OpDelete, What: what, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}

// handleRelate implements spec.md §4.8: RELATE $from->$kind->$to [CONTENT
// $data]. one = from.is_single() AND to.is_single(); kind is coerced via
// could-be-table.
func handleRelate(ctx context.Context, conn Conn, args []Value) (Value, error) {
	fromArg, kindArg, toArg, dataArg, err := needsThreeOrFour("relate", args)
	if err != nil {
		return Value{}, err
	}
	kind := CouldBeTable(kindArg)
	one := fromArg.IsSingle() && toArg.IsSingle()

	opts, err := buildFixedOptions(dataArg, DataContent, OutputAfter)
	if err != nil {
		return Value{}, err
	}
	resp, err := process(conn, Statement{Op: OpRelate, From: fromArg, Kind: kind, To: toArg, Data: dataArg, Options: opts})
	if err != nil {
		return Value{}, err
	}
	return crudUnwrap(resp, one)
}
