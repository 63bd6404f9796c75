// Package gqladapter implements the GraphQL Adapter (spec.md §4.12): it
// turns an RPC GraphQL request value into a github.com/graph-gophers/graphql-go
// execution against a per-(namespace,database) compiled schema, fetched
// from a shared, internally synchronised Schema Cache (spec.md §9,
// "the schema cache is shared and internally synchronised").
package gqladapter

import (
	"context"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/forbearing/coredb/rpc"
)

// Compiler produces a compiled schema for a (namespace, database) pair. The
// actual schema compiler — deriving a GraphQL schema from the underlying
// data model — is an external collaborator (spec.md §1); Compiler is the
// seam through which it is plugged in.
type Compiler func(ctx context.Context, namespace, database string) (*graphql.Schema, error)

type cacheKey struct{ namespace, database string }

// SchemaCache is a mutex-guarded cache keyed by (namespace, database),
// satisfying rpc.SchemaCache. The lock is not held while compiling, so
// concurrent first Get calls for the same key may each compile; the last
// one to finish is the schema kept. A failed compile is not cached so a
// subsequent call can retry.
type SchemaCache struct {
	mu       sync.Mutex
	compiler Compiler
	schemas  map[cacheKey]*graphql.Schema
}

// NewSchemaCache wires a schema cache around compiler.
func NewSchemaCache(compiler Compiler) *SchemaCache {
	return &SchemaCache{compiler: compiler, schemas: make(map[cacheKey]*graphql.Schema)}
}

// Get returns the cached *graphql.Schema for (namespace, database),
// compiling and caching it on first use.
func (c *SchemaCache) Get(ctx context.Context, namespace, database string) (any, error) {
	key := cacheKey{namespace, database}

	c.mu.Lock()
	if s, ok := c.schemas[key]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	schema, err := c.compiler(ctx, namespace, database)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.schemas[key] = schema
	c.mu.Unlock()
	return schema, nil
}

var _ rpc.SchemaCache = (*SchemaCache)(nil)
