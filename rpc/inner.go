package rpc

import (
	"context"

	"github.com/forbearing/coredb/metrics"
	"github.com/forbearing/coredb/rpcerr"
)

// checkLQPrecondition implements spec.md §4.13's guard: "if LQ_SUPPORT is
// false and the session's realtime flag is set, reject with BadLQConfig"
// before any datastore call is made.
func checkLQPrecondition(conn Conn) error {
	if conn.Session().Realtime && !conn.LQSupport() {
		return rpcerr.BadLQConfigErr()
	}
	return nil
}

// dispatchLiveCallbacks invokes on_live/on_kill for every response whose
// query_type is Live or Kill and whose result carries a UUID (spec.md
// §4.13). The hooks run asynchronously: a slow or blocking transport
// callback must never stall the response path.
func dispatchLiveCallbacks(ctx context.Context, conn Conn, responses []Response) {
	hooks := conn.LiveHooks()
	if hooks == nil {
		hooks = NoLiveHooks
	}
	for _, r := range responses {
		if r.QueryType != QueryLive && r.QueryType != QueryKill {
			continue
		}
		if r.Result.Err != nil {
			continue
		}
		if _, ok := r.Result.Value.UUID(); !ok {
			continue
		}
		id := r.Result.Value
		switch r.QueryType {
		case QueryLive:
			if metrics.LiveSubscriptions != nil {
				metrics.LiveSubscriptions.Inc()
			}
			go hooks.OnLive(ctx, id)
		case QueryKill:
			if metrics.LiveSubscriptions != nil {
				metrics.LiveSubscriptions.Dec()
			}
			go hooks.OnKill(ctx, id)
		}
	}
}

// runText runs the execute() textual path through the inner-query
// precondition, used by Query both for a source string and for each
// statement of a pre-parsed tree (run by its Text).
func runText(ctx context.Context, conn Conn, text string, vars Vars) ([]Response, error) {
	if err := checkLQPrecondition(conn); err != nil {
		return nil, err
	}
	resp, err := conn.Engine().Execute(text, conn.Session(), vars)
	if err != nil {
		return nil, rpcerr.ThrownErr(err.Error())
	}
	dispatchLiveCallbacks(ctx, conn, resp)
	return resp, nil
}

// runStatement runs the process() parameterised path through the
// inner-query precondition, used by Live, Kill and Run.
func runStatement(ctx context.Context, conn Conn, stmt Statement, vars Vars) ([]Response, error) {
	if err := checkLQPrecondition(conn); err != nil {
		return nil, err
	}
	resp, err := conn.Engine().Process(stmt, conn.Session(), vars)
	if err != nil {
		return nil, rpcerr.ThrownErr(err.Error())
	}
	dispatchLiveCallbacks(ctx, conn, resp)
	return resp, nil
}
