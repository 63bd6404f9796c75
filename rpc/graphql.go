package rpc

import (
	"context"

	"github.com/forbearing/coredb/rpcerr"
)

// GraphQLFunc is the shape gqladapter.Handle satisfies; it receives the
// already-extracted (request, options) pair.
type GraphQLFunc func(ctx context.Context, conn Conn, request, options Value) (Value, error)

// graphQLImpl is installed by RegisterGraphQLHandler. rpc cannot import
// gqladapter directly (gqladapter imports rpc for Conn/Value), so the
// adapter registers itself here instead — the same inversion the teacher
// uses for plugin-style registration (module.Register) adapted to a single
// slot instead of a table, since there is exactly one GraphQL adapter.
var graphQLImpl GraphQLFunc

// RegisterGraphQLHandler wires the GraphQL Adapter implementation into the
// dispatcher. Call it once at process startup before serving traffic.
func RegisterGraphQLHandler(fn GraphQLFunc) { graphQLImpl = fn }

// handleGraphQL implements spec.md §4.12's gating: a static GQL_SUPPORT
// flag and the runtime graphql.enable setting (surfaced via
// Conn.GQLSupport, which a transport computes from both); either being
// false yields BadGQLConfig before the adapter ever runs.
func handleGraphQL(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if !conn.GQLSupport() {
		return Value{}, rpcerr.BadGQLConfigErr()
	}
	if graphQLImpl == nil {
		return Value{}, rpcerr.BadGQLConfigErr()
	}
	request, options, err := needsOneOrTwo("graphql", args)
	if err != nil {
		return Value{}, err
	}
	return graphQLImpl(ctx, conn, request, options)
}
