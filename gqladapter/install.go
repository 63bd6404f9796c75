package gqladapter

import (
	"context"

	"github.com/forbearing/coredb/rpc"
)

// Install wires this package's Handle function into the dispatcher as the
// GraphQL Adapter. Call it once during process startup, after the schema
// cache has been constructed, mirroring the teacher's explicit
// router.Register calls rather than an import-time init().
func Install() {
	rpc.RegisterGraphQLHandler(func(ctx context.Context, conn rpc.Conn, request, options rpc.Value) (rpc.Value, error) {
		return Handle(ctx, conn, request, options)
	})
}
