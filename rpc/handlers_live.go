package rpc

import (
	"context"

	"github.com/forbearing/coredb/rpcerr"
)

// handleLive implements spec.md §4.7: Live(what, diff?). Requires
// LQ_SUPPORT; synthesises LIVE SELECT DIFF FROM $what when diff is truthy,
// otherwise LIVE SELECT * FROM $what, and routes through the inner-query
// path so the coordinator observes the resulting query_type.
func handleLive(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if !conn.LQSupport() {
		return Value{}, rpcerr.BadLQConfigErr()
	}
	what, diffArg, err := needsOneOrTwo("live", args)
	if err != nil {
		return Value{}, err
	}
	what = CouldBeTable(what)

	opts := newStatementOptions()
	if diff, ok := diffArg.Bool(); ok && diff {
		opts.Output = OutputDiff
	}
	stmt := Statement{Op: OpLive, What: what, Options: opts}

	resp, err := runStatement(ctx, conn, stmt, conn.Vars())
	if err != nil {
		return Value{}, err
	}
	return firstRow(resp)
}

// handleKill implements spec.md §4.7: Kill(id), synthesising KILL $id.
func handleKill(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if !conn.LQSupport() {
		return Value{}, rpcerr.BadLQConfigErr()
	}
	id, err := needsOne("kill", args)
	if err != nil {
		return Value{}, err
	}
	stmt := Statement{Op: OpKill, What: id}

	resp, err := runStatement(ctx, conn, stmt, conn.Vars())
	if err != nil {
		return Value{}, err
	}
	return firstRow(resp)
}
